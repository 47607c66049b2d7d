package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	dbtypes "github.com/shieldwrapindia/shieldwrap-backend/pkg/db/types"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
)

type productRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, slug string) (int64, error)
}

// Service exposes catalog reads for the public site and mutations for admins.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, slug string, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, slug string) error
}

type service struct {
	repo productRepository
	logg *logger.Logger
}

// NewService builds a catalog service with the provided repository.
func NewService(repo productRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	row, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return toDTO(row), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = DeriveSlug(name)
	} else if slug != DeriveSlug(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and hyphens")
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name yields an empty slug")
	}

	row := models.Product{
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Features:    dbtypes.StringList(input.Features),
		Specs:       dbtypes.SpecPairs(input.Specs),
		Position:    input.Position,
	}
	if row.Features == nil {
		row.Features = dbtypes.StringList{}
	}
	if row.Specs == nil {
		row.Specs = dbtypes.SpecPairs{}
	}

	if err := s.repo.Create(ctx, &row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return toDTO(&row), nil
}

func (s *service) Update(ctx context.Context, slug string, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = strings.TrimSpace(*input.Description)
	}
	if input.Features != nil {
		row.Features = dbtypes.StringList(*input.Features)
		if row.Features == nil {
			row.Features = dbtypes.StringList{}
		}
	}
	if input.Specs != nil {
		row.Specs = dbtypes.SpecPairs(*input.Specs)
		if row.Specs == nil {
			row.Specs = dbtypes.SpecPairs{}
		}
	}
	if input.Position != nil {
		row.Position = *input.Position
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return toDTO(row), nil
}

func (s *service) Delete(ctx context.Context, slug string) error {
	affected, err := s.repo.Delete(ctx, strings.TrimSpace(slug))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
