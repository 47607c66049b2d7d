package warranties

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox/payloads"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/pagination"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/storage/gcs"
)

type warrantyRepository interface {
	WithTx(tx *gorm.DB) *Repository
	Create(ctx context.Context, row *models.WarrantyRegistration) error
	FindByID(ctx context.Context, id uint) (*models.WarrantyRegistration, error)
	Update(ctx context.Context, row *models.WarrantyRegistration) error
	Delete(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, q listQuery) ([]models.WarrantyRegistration, error)
	All(ctx context.Context) ([]models.WarrantyRegistration, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the public registration writer and the admin CRUD surface.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegistrationDTO, error)
	GetByID(ctx context.Context, id uint) (*RegistrationDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*RegistrationDTO, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo     warrantyRepository
	tx       txRunner
	uploader gcs.Uploader
	emitter  outboxEmitter
	logg     *logger.Logger
}

// NewService builds a warranty service with the provided collaborators.
// The uploader and emitter may be nil in read-only deployments; Register
// then refuses image uploads and skips the mirror queue respectively.
func NewService(repo warrantyRepository, tx txRunner, uploader gcs.Uploader, emitter outboxEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warranty repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, uploader: uploader, emitter: emitter, logg: logg}, nil
}

func validateRegisterInput(input *RegisterInput) error {
	missing := []string{}
	required := map[string]string{
		"customerName":  input.CustomerName,
		"customerPhone": input.CustomerPhone,
		"regNumber":     input.RegistrationNumber,
		"chassisNumber": input.ChassisNumber,
		"ppfRoll":       input.PPFRoll,
		"dealerName":    input.DealerName,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}

// Register persists one submission. Images upload before the row commits, so
// a later DB failure leaves orphaned objects behind; the mirror row is queued
// in the same transaction and can never fail the submission.
func (s *service) Register(ctx context.Context, input RegisterInput) (*RegistrationDTO, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	vehicleURL, err := s.uploadImage(ctx, "vehicle", input.VehiclePhoto)
	if err != nil {
		return nil, err
	}
	rcURL, err := s.uploadImage(ctx, "rc", input.RCPhoto)
	if err != nil {
		return nil, err
	}

	row := models.WarrantyRegistration{
		CustomerName:         strings.TrimSpace(input.CustomerName),
		CustomerPhone:        strings.TrimSpace(input.CustomerPhone),
		CustomerEmail:        strings.TrimSpace(input.CustomerEmail),
		RegistrationNumber:   strings.TrimSpace(input.RegistrationNumber),
		ChassisNumber:        strings.TrimSpace(input.ChassisNumber),
		PPFRoll:              strings.TrimSpace(input.PPFRoll),
		PPFCategory:          strings.TrimSpace(input.PPFCategory),
		DealerName:           strings.TrimSpace(input.DealerName),
		InstallerMobile:      strings.TrimSpace(input.InstallerMobile),
		InstallationLocation: strings.TrimSpace(input.InstallationLocation),
		VehiclePhotoURL:      vehicleURL,
		RCPhotoURL:           rcURL,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &row); err != nil {
			return err
		}
		if s.emitter == nil {
			return nil
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventWarrantyRegistered,
			AggregateType: enums.OutboxAggregateWarranty,
			AggregateID:   row.ID,
			Version:       1,
			Data:          mirrorPayload(&row),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving registration")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithWarrantyID(ctx, row.ID), "warranty registration created")
	}
	return toDTO(&row), nil
}

func (s *service) uploadImage(ctx context.Context, kind string, img *ImageUpload) (*string, error) {
	if img == nil || img.Body == nil {
		return nil, nil
	}
	if s.uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image uploads are not available")
	}

	ext := strings.ToLower(path.Ext(img.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := s.uploader.Upload(ctx, key, contentType, img.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading "+kind+" photo")
	}
	return &url, nil
}

func mirrorPayload(row *models.WarrantyRegistration) payloads.WarrantyRegisteredEvent {
	event := payloads.WarrantyRegisteredEvent{
		RegistrationID:       row.ID,
		CustomerName:         row.CustomerName,
		CustomerPhone:        row.CustomerPhone,
		CustomerEmail:        row.CustomerEmail,
		RegistrationNumber:   row.RegistrationNumber,
		ChassisNumber:        row.ChassisNumber,
		PPFRoll:              row.PPFRoll,
		PPFCategory:          row.PPFCategory,
		DealerName:           row.DealerName,
		InstallerMobile:      row.InstallerMobile,
		InstallationLocation: row.InstallationLocation,
		SubmittedAt:          time.Now().UTC(),
	}
	if row.VehiclePhotoURL != nil {
		event.VehiclePhotoURL = *row.VehiclePhotoURL
	}
	if row.RCPhotoURL != nil {
		event.RCPhotoURL = *row.RCPhotoURL
	}
	return event
}

func (s *service) GetByID(ctx context.Context, id uint) (*RegistrationDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading registration")
	}
	return toDTO(row), nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*RegistrationDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading registration")
	}

	apply := func(target *string, update *string, required bool, field string) error {
		if update == nil {
			return nil
		}
		value := strings.TrimSpace(*update)
		if required && value == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" cannot be empty")
		}
		*target = value
		return nil
	}

	steps := []error{
		apply(&row.CustomerName, input.CustomerName, true, "customerName"),
		apply(&row.CustomerPhone, input.CustomerPhone, true, "customerPhone"),
		apply(&row.CustomerEmail, input.CustomerEmail, false, "customerEmail"),
		apply(&row.RegistrationNumber, input.RegistrationNumber, true, "regNumber"),
		apply(&row.ChassisNumber, input.ChassisNumber, true, "chassisNumber"),
		apply(&row.PPFRoll, input.PPFRoll, true, "ppfRoll"),
		apply(&row.PPFCategory, input.PPFCategory, false, "ppfCategory"),
		apply(&row.DealerName, input.DealerName, true, "dealerName"),
		apply(&row.InstallerMobile, input.InstallerMobile, false, "installerMobile"),
		apply(&row.InstallationLocation, input.InstallationLocation, false, "installationLocation"),
	}
	for _, stepErr := range steps {
		if stepErr != nil {
			return nil, stepErr
		}
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating registration")
	}
	return toDTO(row), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting registration")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := listQuery{
		search:   strings.TrimSpace(params.Search),
		dealer:   strings.TrimSpace(params.Dealer),
		category: strings.TrimSpace(params.Category),
		sortBy:   params.SortBy,
		sortDesc: !strings.EqualFold(params.SortDir, "asc"),
		limit:    limit + 1,
	}
	if params.SortBy != "" {
		if _, ok := sortColumns[params.SortBy]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort field").
				WithDetails(map[string]any{"sortBy": params.SortBy})
		}
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing registrations")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]RegistrationDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *toDTO(&rows[i]))
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}
