package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/pagination"
)

// LeadDTO is the admin read shape for one enquiry.
type LeadDTO struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email,omitempty"`
	Message         string    `json:"message,omitempty"`
	ProductInterest string    `json:"productInterest,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateLeadInput carries the public enquiry form.
type CreateLeadInput struct {
	Name            string
	Phone           string
	Email           string
	Message         string
	ProductInterest string
}

// ListResult is one page of leads plus the next cursor.
type ListResult struct {
	Items  []LeadDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

// Service captures marketing enquiries and lists them for follow-up.
type Service interface {
	Create(ctx context.Context, input CreateLeadInput) (*LeadDTO, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewService builds a lead service over the provided DB handle.
func NewService(db *gorm.DB, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateLeadInput) (*LeadDTO, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and phone are required")
	}

	row := models.Lead{
		Name:            name,
		Phone:           phone,
		Email:           strings.TrimSpace(input.Email),
		Message:         strings.TrimSpace(input.Message),
		ProductInterest: strings.TrimSpace(input.ProductInterest),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving lead")
	}
	return toDTO(&row), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	tx := s.db.WithContext(ctx).Model(&models.Lead{})
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		if cursor != nil {
			tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
	}

	var rows []models.Lead
	if err := tx.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing leads")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]LeadDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *toDTO(&rows[i]))
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Lead{}, "id = ?", id)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "deleting lead")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return nil
}

func toDTO(m *models.Lead) *LeadDTO {
	return &LeadDTO{
		ID:              m.ID,
		Name:            m.Name,
		Phone:           m.Phone,
		Email:           m.Email,
		Message:         m.Message,
		ProductInterest: m.ProductInterest,
		CreatedAt:       m.CreatedAt,
	}
}
