package products

import (
	"regexp"
	"strings"
	"time"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	dbtypes "github.com/shieldwrapindia/shieldwrap-backend/pkg/db/types"
)

// ProductDTO is the public/admin read shape for one catalog entry.
type ProductDTO struct {
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Features    []string           `json:"features"`
	Specs       []dbtypes.SpecPair `json:"specs"`
	Position    int                `json:"position"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// CreateProductInput carries the admin create payload.
type CreateProductInput struct {
	Slug        string
	Name        string
	Description string
	Features    []string
	Specs       []dbtypes.SpecPair
	Position    int
}

// UpdateProductInput carries partial admin updates. Nil fields are untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Features    *[]string
	Specs       *[]dbtypes.SpecPair
	Position    *int
}

func toDTO(p *models.Product) *ProductDTO {
	features := p.Features
	if features == nil {
		features = dbtypes.StringList{}
	}
	specs := p.Specs
	if specs == nil {
		specs = dbtypes.SpecPairs{}
	}
	return &ProductDTO{
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Features:    features,
		Specs:       specs,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug turns a display name into a URL-safe slug.
func DeriveSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
