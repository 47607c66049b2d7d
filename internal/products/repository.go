package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
)

// Repository persists catalog rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindBySlug loads one product.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns the catalog ordered for display.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, slug string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "slug = ?", slug)
	return res.RowsAffected, res.Error
}

// FindByNameSubstring returns products whose name contains the fragment,
// case-insensitive, newest first. Used by the warranty enrichment path.
func (r *Repository) FindByNameSubstring(ctx context.Context, fragment string) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+fragment+"%").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
