package warranties

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/pagination"
)

// sortColumns whitelists admin sort fields against injection.
var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"customerName": "customer_name",
	"dealerName":   "dealer_name",
	"ppfCategory":  "ppf_category",
}

// Repository persists warranty registration rows.
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

// Create inserts one registration row.
func (r *Repository) Create(ctx context.Context, row *models.WarrantyRegistration) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByID loads one registration.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.WarrantyRegistration, error) {
	var row models.WarrantyRegistration
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update saves the full registration row.
func (r *Repository) Update(ctx context.Context, row *models.WarrantyRegistration) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the registration row.
func (r *Repository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.WarrantyRegistration{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

type listQuery struct {
	search   string
	dealer   string
	category string
	sortBy   string
	sortDesc bool
	limit    int
	cursor   *pagination.Cursor
}

// List applies filters, whitelisted sorting and cursor pagination.
// Cursor pagination only engages for the default created_at DESC ordering.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.WarrantyRegistration, error) {
	tx := r.db.WithContext(ctx).Model(&models.WarrantyRegistration{})

	if q.search != "" {
		like := "%" + strings.ToLower(q.search) + "%"
		tx = tx.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ? OR LOWER(registration_number) LIKE ? OR LOWER(chassis_number) LIKE ?",
			like, like, like, like,
		)
	}
	if q.dealer != "" {
		tx = tx.Where("LOWER(dealer_name) LIKE ?", "%"+strings.ToLower(q.dealer)+"%")
	}
	if q.category != "" {
		tx = tx.Where("LOWER(ppf_category) LIKE ?", "%"+strings.ToLower(q.category)+"%")
	}
	if q.cursor != nil {
		tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", q.cursor.CreatedAt, q.cursor.CreatedAt, q.cursor.ID)
	}

	column := sortColumns[q.sortBy]
	if column == "" {
		column = "created_at"
	}
	direction := "ASC"
	if q.sortDesc {
		direction = "DESC"
	}
	tx = tx.Order(column + " " + direction)
	if column != "created_at" {
		tx = tx.Order("created_at DESC")
	}
	tx = tx.Order("id DESC")

	var rows []models.WarrantyRegistration
	err := tx.Limit(q.limit).Find(&rows).Error
	return rows, err
}

// All streams every registration newest first, for the xlsx export.
func (r *Repository) All(ctx context.Context) ([]models.WarrantyRegistration, error) {
	var rows []models.WarrantyRegistration
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// FindByPhoneForms matches a 10-digit normalized phone against the bare,
// "+91"-prefixed and "91"-prefixed stored forms, newest first.
func (r *Repository) FindByPhoneForms(ctx context.Context, digits string) ([]models.WarrantyRegistration, error) {
	var rows []models.WarrantyRegistration
	err := r.db.WithContext(ctx).
		Where("customer_phone = ? OR customer_phone = ? OR customer_phone = ?",
			digits, "+91"+digits, "91"+digits).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// FindByChassis matches the normalized VIN exactly, newest first.
func (r *Repository) FindByChassis(ctx context.Context, vin string) ([]models.WarrantyRegistration, error) {
	var rows []models.WarrantyRegistration
	err := r.db.WithContext(ctx).
		Where("UPPER(chassis_number) = ?", vin).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// FindByPlateForms matches either the canonical spaced plate or the raw
// stripped form, newest first.
func (r *Repository) FindByPlateForms(ctx context.Context, forms []string) ([]models.WarrantyRegistration, error) {
	if len(forms) == 0 {
		return nil, nil
	}
	var rows []models.WarrantyRegistration
	err := r.db.WithContext(ctx).
		Where("UPPER(registration_number) IN ?", forms).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
