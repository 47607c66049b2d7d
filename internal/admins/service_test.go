package admins

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
)

// low-cost argon parameters keep account tests fast
var fastPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:admins_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AdminProfile{}))

	svc, err := NewService(NewRepository(db), fastPasswordCfg, nil)
	require.NoError(t, err)
	return svc
}

func TestCreateAdminHashesPasswordAndDefaultsRole(t *testing.T) {
	svc := newTestService(t)

	dto, err := svc.Create(context.Background(), CreateAdminInput{
		Email:    "Ops@ShieldWrap.in",
		Password: "correct-horse-battery",
		FullName: "Ops Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "ops@shieldwrap.in", dto.Email, "email is stored lowercase")
	assert.Equal(t, enums.AdminRoleAdmin, dto.Role)
	assert.True(t, dto.IsActive)
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateAdminInput{
		Email:    "x@shieldwrap.in",
		Password: "short",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateAdminDuplicateEmailConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAdminInput{Email: "dup@shieldwrap.in", Password: "a-long-password"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateAdminInput{Email: "dup@shieldwrap.in", Password: "a-long-password"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateTogglesActiveFlag(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateAdminInput{Email: "a@shieldwrap.in", Password: "a-long-password"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, dto.ID, UpdateAdminInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestCannotDisableLastActiveSuperadmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	boss, err := svc.Create(ctx, CreateAdminInput{
		Email:    "boss@shieldwrap.in",
		Password: "a-long-password",
		Role:     enums.AdminRoleSuperadmin,
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(ctx, boss.ID, UpdateAdminInput{IsActive: &inactive})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	demoted := enums.AdminRoleAdmin
	_, err = svc.Update(ctx, boss.ID, UpdateAdminInput{Role: &demoted})
	require.Error(t, err)

	// a second superadmin unlocks the change
	_, err = svc.Create(ctx, CreateAdminInput{
		Email:    "backup@shieldwrap.in",
		Password: "a-long-password",
		Role:     enums.AdminRoleSuperadmin,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, boss.ID, UpdateAdminInput{IsActive: &inactive})
	require.NoError(t, err)
}

func TestDeleteGuardsSelfAndLastSuperadmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	boss, err := svc.Create(ctx, CreateAdminInput{
		Email:    "boss@shieldwrap.in",
		Password: "a-long-password",
		Role:     enums.AdminRoleSuperadmin,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, boss.ID, boss.ID)
	require.Error(t, err, "self-deletion is refused")

	other := uuid.New()
	err = svc.Delete(ctx, other, boss.ID)
	require.Error(t, err, "last active superadmin cannot be deleted")
}
