package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shieldwrapindia/shieldwrap-backend/api/responses"
	"github.com/shieldwrapindia/shieldwrap-backend/api/validators"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/leads"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/pagination"
)

type createLeadRequest struct {
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Message         string `json:"message"`
	ProductInterest string `json:"productInterest"`
}

// LeadCreate accepts a public contact-form submission.
func LeadCreate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createLeadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), leads.CreateLeadInput{
			Name:            body.Name,
			Phone:           body.Phone,
			Email:           body.Email,
			Message:         body.Message,
			ProductInterest: body.ProductInterest,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// LeadList serves the admin inbox, newest first.
func LeadList(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor", ""),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// LeadDelete removes one lead.
func LeadDelete(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid lead id"))
			return
		}
		if err := svc.Delete(r.Context(), uint(id)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
