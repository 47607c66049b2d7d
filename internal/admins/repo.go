package admins

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
)

// Repository persists back-office accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminProfile, error) {
	var row models.AdminProfile
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByEmail loads one account by its lowercase email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error) {
	var row models.AdminProfile
	err := r.db.WithContext(ctx).
		First(&row, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns every account ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.AdminProfile, error) {
	var rows []models.AdminProfile
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// Create inserts a new account row.
func (r *Repository) Create(ctx context.Context, row *models.AdminProfile) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update saves the full account row.
func (r *Repository) Update(ctx context.Context, row *models.AdminProfile) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the account row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.AdminProfile{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// CountActiveSuperadmins counts active superadmin accounts.
func (r *Repository) CountActiveSuperadmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AdminProfile{}).
		Where("role = ? AND is_active = ?", enums.AdminRoleSuperadmin, true).
		Count(&count).Error
	return count, err
}
