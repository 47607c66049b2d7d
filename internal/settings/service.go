package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
)

type settingsRepository interface {
	ListAll(ctx context.Context) ([]models.SiteSetting, error)
	Upsert(ctx context.Context, row *models.SiteSetting) error
	Delete(ctx context.Context, key string) error
}

// Service exposes site configuration resolution and override management.
type Service interface {
	Resolve(ctx context.Context) (*SiteConfig, error)
	ListOverrides(ctx context.Context) ([]models.SiteSetting, error)
	SetOverride(ctx context.Context, key, value string) (*models.SiteSetting, error)
	DeleteOverride(ctx context.Context, key string) error
}

type service struct {
	repo settingsRepository
	logg *logger.Logger
}

// NewService builds a settings service with the provided repository.
func NewService(repo settingsRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Resolve merges persisted overrides onto the static defaults. A stored row
// that no longer validates (schema drift) is skipped with a warning instead
// of breaking the public site.
func (s *service) Resolve(ctx context.Context) (*SiteConfig, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading site settings")
	}

	cfg := Defaults()
	for _, row := range rows {
		if err := applyOverride(&cfg, row.Key, row.Value); err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "setting_key", row.Key), "skipping invalid site setting override")
			}
			continue
		}
	}
	return &cfg, nil
}

func (s *service) ListOverrides(ctx context.Context) ([]models.SiteSetting, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading site settings")
	}
	return rows, nil
}

// SetOverride validates the key against the registered schema before
// persisting. Unknown dot-paths are rejected, never stored.
func (s *service) SetOverride(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if err := Validate(key, value); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"key": key, "knownKeys": KnownKeys()})
	}

	row := models.SiteSetting{Key: key, Value: value}
	if err := s.repo.Upsert(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving site setting")
	}
	return &row, nil
}

func (s *service) DeleteOverride(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting site setting")
	}
	return nil
}
