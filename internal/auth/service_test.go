package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/internal/admins"
	pkgauth "github.com/shieldwrapindia/shieldwrap-backend/pkg/auth"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/auth/session"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/security"
)

var (
	jwtCfg = config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "shieldwrap-test",
		ExpirationMinutes: 15,
	}
	fastPasswordCfg = config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

// fakeSessions keeps refresh sessions in a map, mirroring the redis manager.
type fakeSessions struct {
	tokens map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := uuid.NewString()
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newID := uuid.NewString()
	newToken := uuid.NewString()
	f.tokens[newID] = newToken
	return newID, newToken, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.tokens, accessID)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	svc      Service
	sessions *fakeSessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.AdminProfile{}))

	sessions := newFakeSessions()
	svc, err := NewService(admins.NewRepository(conn), sessions, jwtCfg, nil)
	require.NoError(t, err)
	return &testEnv{db: conn, svc: svc, sessions: sessions}
}

func (e *testEnv) seedAdmin(t *testing.T, email, password string, active bool) *models.AdminProfile {
	t.Helper()
	hash, err := security.HashPassword(password, fastPasswordCfg)
	require.NoError(t, err)
	row := &models.AdminProfile{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test Admin",
		Role:         enums.AdminRoleAdmin,
		IsActive:     active,
	}
	require.NoError(t, e.db.Create(row).Error)
	return row
}

func TestLoginIssuesTokenPair(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "ops@shieldwrap.in", "a-long-password", true)

	res, err := env.svc.Login(context.Background(), "ops@shieldwrap.in", "a-long-password")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, 15*60, res.ExpiresIn)

	claims, err := pkgauth.ParseAccessToken(jwtCfg, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.AdminID, claims.AdminID)
	assert.Equal(t, enums.AdminRoleAdmin, claims.Role)

	// last login stamp recorded
	var stored models.AdminProfile
	require.NoError(t, env.db.First(&stored, "email = ?", "ops@shieldwrap.in").Error)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "ops@shieldwrap.in", "a-long-password", true)

	_, err := env.svc.Login(context.Background(), "ops@shieldwrap.in", "wrong")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginDisabledAccountLooksLikeBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "gone@shieldwrap.in", "a-long-password", false)

	_, err := env.svc.Login(context.Background(), "gone@shieldwrap.in", "a-long-password")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Login(context.Background(), "nobody@shieldwrap.in", "whatever-long")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "ops@shieldwrap.in", "a-long-password", true)
	ctx := context.Background()

	first, err := env.svc.Login(ctx, "ops@shieldwrap.in", "a-long-password")
	require.NoError(t, err)

	second, err := env.svc.Refresh(ctx, first.AccessToken, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the old pair is burned
	_, err = env.svc.Refresh(ctx, first.AccessToken, first.RefreshToken)
	require.Error(t, err)
}

func TestRefreshForDeactivatedAccountRevokesNewSession(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "ops@shieldwrap.in", "a-long-password", true)
	ctx := context.Background()

	res, err := env.svc.Login(ctx, "ops@shieldwrap.in", "a-long-password")
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.AdminProfile{}).
		Where("id = ?", admin.ID).
		Update("is_active", false).Error)

	_, err = env.svc.Refresh(ctx, res.AccessToken, res.RefreshToken)
	require.Error(t, err)
	assert.Empty(t, env.sessions.tokens, "no session survives a refresh by a disabled account")
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "ops@shieldwrap.in", "a-long-password", true)
	ctx := context.Background()

	res, err := env.svc.Login(ctx, "ops@shieldwrap.in", "a-long-password")
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(jwtCfg, res.AccessToken)
	require.NoError(t, err)
	require.NoError(t, env.svc.Logout(ctx, claims.ID))

	_, err = env.svc.Refresh(ctx, res.AccessToken, res.RefreshToken)
	require.Error(t, err)
}
