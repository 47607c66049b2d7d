package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
)

// DefaultDuration covers categories no product or keyword rule claims.
const DefaultDuration = "10 Years"

// warrantySpecLabel is the spec-pair label carrying a product's coverage term.
const warrantySpecLabel = "Warranty"

type registrationFinder interface {
	FindByPhoneForms(ctx context.Context, digits string) ([]models.WarrantyRegistration, error)
	FindByChassis(ctx context.Context, vin string) ([]models.WarrantyRegistration, error)
	FindByPlateForms(ctx context.Context, forms []string) ([]models.WarrantyRegistration, error)
}

type productFinder interface {
	FindByNameSubstring(ctx context.Context, fragment string) ([]models.Product, error)
}

// Enrichment is the product/duration detail attached to a resolved record.
type Enrichment struct {
	ProductName string `json:"productName,omitempty"`
	ProductSlug string `json:"productSlug,omitempty"`
	Duration    string `json:"duration"`
}

// Result is one resolved warranty identity.
type Result struct {
	Registration *models.WarrantyRegistration
	Enrichment   Enrichment
}

// Service resolves free-text queries to warranty registrations. Read-only.
type Service interface {
	Lookup(ctx context.Context, query string, mode enums.LookupMode) (*Result, error)
}

type service struct {
	registrations registrationFinder
	products      productFinder
	logg          *logger.Logger
}

// NewService builds a resolver over the registration and catalog readers.
func NewService(registrations registrationFinder, products productFinder, logg *logger.Logger) (Service, error) {
	if registrations == nil {
		return nil, fmt.Errorf("registration finder required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{registrations: registrations, products: products, logg: logg}, nil
}

// Lookup normalizes the query per mode, finds the matching registration and
// enriches it with product identity and coverage duration. When several rows
// match, the newest registration wins.
func (s *service) Lookup(ctx context.Context, query string, mode enums.LookupMode) (*Result, error) {
	rows, err := s.find(ctx, query, mode)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no warranty found for the provided details")
	}

	row := rows[0]
	enrichment := s.enrich(ctx, row.PPFCategory)

	if s.logg != nil && len(rows) > 1 {
		fields := map[string]any{"matches": len(rows), "picked": row.ID}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "lookup matched multiple registrations")
	}

	return &Result{Registration: &row, Enrichment: enrichment}, nil
}

func (s *service) find(ctx context.Context, query string, mode enums.LookupMode) ([]models.WarrantyRegistration, error) {
	switch mode {
	case enums.LookupModePhone:
		digits, err := NormalizePhone(query)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		rows, err := s.registrations.FindByPhoneForms(ctx, digits)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "searching by phone")
		}
		return rows, nil

	case enums.LookupModeVIN:
		vin, err := NormalizeVIN(query)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		rows, err := s.registrations.FindByChassis(ctx, vin)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "searching by chassis")
		}
		return rows, nil

	case enums.LookupModePlate:
		stripped, canonical, err := NormalizePlate(query)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		forms := []string{stripped}
		if canonical != "" && canonical != stripped {
			forms = append(forms, canonical)
		}
		rows, err := s.registrations.FindByPlateForms(ctx, forms)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "searching by plate")
		}
		return rows, nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported lookup mode")
	}
}

// enrich maps a stored film category to catalog identity and duration. The
// catalog answers first; keyword fallbacks cover retired product lines.
func (s *service) enrich(ctx context.Context, category string) Enrichment {
	category = strings.TrimSpace(category)
	if category == "" {
		return Enrichment{Duration: DefaultDuration}
	}

	if products, err := s.products.FindByNameSubstring(ctx, strings.ToLower(category)); err == nil && len(products) > 0 {
		matched := products[0]
		duration := DefaultDuration
		if value, ok := matched.Specs.Lookup(warrantySpecLabel); ok && strings.TrimSpace(value) != "" {
			duration = strings.TrimSpace(value)
		} else {
			duration = fallbackDuration(category)
		}
		return Enrichment{
			ProductName: matched.Name,
			ProductSlug: matched.Slug,
			Duration:    duration,
		}
	}

	return Enrichment{Duration: fallbackDuration(category)}
}

func fallbackDuration(category string) string {
	upper := strings.ToUpper(category)
	switch {
	case strings.Contains(upper, "TPH"):
		return "3 Years"
	case strings.Contains(upper, "LITE"):
		return "5 Years"
	default:
		return DefaultDuration
	}
}
