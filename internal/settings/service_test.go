package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:settings_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SiteSetting{}))

	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)
	return svc
}

func TestResolveReturnsDefaultsWithoutOverrides(t *testing.T) {
	svc := newTestService(t)

	cfg, err := svc.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ShieldWrap", cfg.Site.Name)
	assert.Equal(t, 10, cfg.Warranty.DurationYears)
}

func TestSetOverrideLayersOntoDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetOverride(ctx, "site.tagline", "Wrap it once, drive forever")
	require.NoError(t, err)
	_, err = svc.SetOverride(ctx, "warranty.durationYears", "12")
	require.NoError(t, err)

	cfg, err := svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Wrap it once, drive forever", cfg.Site.Tagline)
	assert.Equal(t, 12, cfg.Warranty.DurationYears)
	// untouched defaults survive
	assert.Equal(t, "ShieldWrap", cfg.Site.Name)
}

func TestSetOverrideRejectsUnknownKey(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SetOverride(context.Background(), "site.bogus", "x")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// nothing persisted
	rows, err := svc.ListOverrides(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSetOverrideValidatesTypedValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		key   string
		value string
	}{
		{"warranty.durationYears", "soon"},
		{"warranty.durationYears", "0"},
		{"contact.email", "not-an-email"},
		{"social.instagram", "instagram.com/shieldwrap"},
	}
	for _, tc := range cases {
		_, err := svc.SetOverride(ctx, tc.key, tc.value)
		require.Error(t, err, "key %s value %q", tc.key, tc.value)
	}

	_, err := svc.SetOverride(ctx, "social.instagram", "https://instagram.com/shieldwrap")
	require.NoError(t, err)
}

func TestSetOverrideReplacesExistingValue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetOverride(ctx, "hero.title", "First")
	require.NoError(t, err)
	_, err = svc.SetOverride(ctx, "hero.title", "Second")
	require.NoError(t, err)

	rows, err := svc.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Second", rows[0].Value)
}

func TestDeleteOverrideRestoresDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetOverride(ctx, "site.name", "ShieldWrap Pro")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOverride(ctx, "site.name"))

	cfg, err := svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ShieldWrap", cfg.Site.Name)
}

func TestResolveSkipsRowsThatNoLongerValidate(t *testing.T) {
	t.Helper()
	dsn := "file:settings_drift_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SiteSetting{}))

	// a row written before the key was retired from the schema
	require.NoError(t, db.Create(&models.SiteSetting{Key: "site.retired", Value: "x"}).Error)
	require.NoError(t, db.Create(&models.SiteSetting{Key: "site.name", Value: "Kept"}).Error)

	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)

	cfg, err := svc.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Kept", cfg.Site.Name)
}
