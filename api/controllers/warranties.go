package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shieldwrapindia/shieldwrap-backend/api/responses"
	"github.com/shieldwrapindia/shieldwrap-backend/api/validators"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/certificates"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/resolver"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/warranties"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
)

const maxFormMemory = 8 << 20

type updateRegistrationRequest struct {
	CustomerName         *string `json:"customerName"`
	CustomerPhone        *string `json:"customerPhone"`
	CustomerEmail        *string `json:"customerEmail"`
	RegistrationNumber   *string `json:"regNumber"`
	ChassisNumber        *string `json:"chassisNumber"`
	PPFRoll              *string `json:"ppfRoll"`
	PPFCategory          *string `json:"ppfCategory"`
	DealerName           *string `json:"dealerName"`
	InstallerMobile      *string `json:"installerMobile"`
	InstallationLocation *string `json:"installationLocation"`
}

// WarrantyRegister accepts the public multipart submission form, including
// the optional vehicle and RC photos.
func WarrantyRegister(svc warranties.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(uploads.MaxUploadMB) << 20
		if limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		input := warranties.RegisterInput{
			CustomerName:         formValue(r, "customerName"),
			CustomerPhone:        formValue(r, "customerPhone"),
			CustomerEmail:        formValue(r, "customerEmail"),
			RegistrationNumber:   formValue(r, "regNumber"),
			ChassisNumber:        formValue(r, "chassisNumber"),
			PPFRoll:              formValue(r, "ppfRoll"),
			PPFCategory:          formValue(r, "ppfCategory"),
			DealerName:           formValue(r, "dealerName"),
			InstallerMobile:      formValue(r, "installerMobile"),
			InstallationLocation: formValue(r, "installationLocation"),
		}

		vehicle, err := formImage(r, "vehiclePhoto")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if vehicle != nil {
			defer vehicle.file.Close()
			input.VehiclePhoto = &vehicle.upload
		}

		rc, err := formImage(r, "rcPhoto")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rc != nil {
			defer rc.file.Close()
			input.RCPhoto = &rc.upload
		}

		dto, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// WarrantyLookup resolves a phone, VIN or plate query to a registration.
func WarrantyLookup(svc resolver.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := enums.ParseLookupMode(validators.ParseQueryString(r, "mode", string(enums.LookupModePhone)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lookup mode"))
			return
		}

		query := validators.ParseQueryString(r, "value", "")
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lookup value required"))
			return
		}

		result, err := svc.Lookup(r.Context(), query, mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WarrantyCertificate resolves the query like WarrantyLookup and streams the
// rendered certificate PDF.
func WarrantyCertificate(svc resolver.Service, renderer *certificates.Renderer, certCfg config.CertificateConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := enums.ParseLookupMode(validators.ParseQueryString(r, "mode", string(enums.LookupModePhone)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lookup mode"))
			return
		}

		query := validators.ParseQueryString(r, "value", "")
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lookup value required"))
			return
		}

		result, err := svc.Lookup(r.Context(), query, mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data := certificates.FromResolved(certCfg.NumberPrefix, result.Registration, result.Enrichment)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", certificates.Filename(result.Registration.ID)))
		if err := renderer.RenderPDF(w, data); err != nil && logg != nil {
			logg.Error(r.Context(), "streaming certificate pdf", err)
		}
	}
}

// WarrantyList serves the admin table with filters, sorting and cursors.
func WarrantyList(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), warranties.ListParams{
			Search:   validators.ParseQueryString(r, "search", ""),
			Dealer:   validators.ParseQueryString(r, "dealer", ""),
			Category: validators.ParseQueryString(r, "category", ""),
			SortBy:   validators.ParseQueryString(r, "sortBy", ""),
			SortDir:  validators.ParseQueryString(r, "sortDir", ""),
			Limit:    limit,
			Cursor:   validators.ParseQueryString(r, "cursor", ""),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WarrantyDetail serves one registration by numeric ID.
func WarrantyDetail(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := registrationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// WarrantyUpdate patches a registration. Absent fields are untouched.
func WarrantyUpdate(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := registrationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateRegistrationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, warranties.UpdateInput{
			CustomerName:         body.CustomerName,
			CustomerPhone:        body.CustomerPhone,
			CustomerEmail:        body.CustomerEmail,
			RegistrationNumber:   body.RegistrationNumber,
			ChassisNumber:        body.ChassisNumber,
			PPFRoll:              body.PPFRoll,
			PPFCategory:          body.PPFCategory,
			DealerName:           body.DealerName,
			InstallerMobile:      body.InstallerMobile,
			InstallationLocation: body.InstallationLocation,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// WarrantyDelete removes a registration.
func WarrantyDelete(svc warranties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := registrationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// WarrantyExport streams every registration as an xlsx workbook.
func WarrantyExport(exporter *warranties.Exporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := "registrations-" + time.Now().UTC().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := exporter.WriteXLSX(r.Context(), w); err != nil && logg != nil {
			logg.Error(r.Context(), "streaming registrations export", err)
		}
	}
}

type formFile struct {
	file   multipart.File
	upload warranties.ImageUpload
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func formImage(r *http.Request, field string) (*formFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading "+field)
	}
	return &formFile{
		file: file,
		upload: warranties.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		},
	}, nil
}

func registrationID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid registration id")
	}
	return uint(id), nil
}
