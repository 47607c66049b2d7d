package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shieldwrapindia/shieldwrap-backend/api/responses"
	"github.com/shieldwrapindia/shieldwrap-backend/api/validators"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/products"
	dbtypes "github.com/shieldwrapindia/shieldwrap-backend/pkg/db/types"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
)

type createProductRequest struct {
	Slug        string             `json:"slug"`
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Features    []string           `json:"features"`
	Specs       []dbtypes.SpecPair `json:"specs"`
	Position    int                `json:"position"`
}

type updateProductRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Features    *[]string           `json:"features"`
	Specs       *[]dbtypes.SpecPair `json:"specs"`
	Position    *int                `json:"position"`
}

// ProductList serves the public catalog in display order.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ProductDetail serves one catalog entry by slug.
func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		item, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ProductCreate adds a catalog entry.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), products.CreateProductInput{
			Slug:        body.Slug,
			Name:        body.Name,
			Description: body.Description,
			Features:    body.Features,
			Specs:       body.Specs,
			Position:    body.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ProductUpdate patches a catalog entry. Absent fields are untouched.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), slug, products.UpdateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Features:    body.Features,
			Specs:       body.Specs,
			Position:    body.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ProductDelete removes a catalog entry.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug required"))
			return
		}
		if err := svc.Delete(r.Context(), slug); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
