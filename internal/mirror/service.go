package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/metrics"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox/payloads"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/sheets"
)

const (
	defaultBatchSize   = 25
	defaultPollMs      = 2000
	defaultMaxAttempts = 10
	maxBackoff         = 30 * time.Second
)

type outboxRepository interface {
	FetchUnpublished(limit int, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uint) error
	MarkFailed(id uint, err error) error
}

// ServiceParams wires the mirror worker dependencies.
type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Appender   sheets.Appender
	Metrics    *metrics.MirrorMetrics
}

// Service drains queued registration events into the configured spreadsheet.
// Failures are retried with attempt accounting and never touch the primary
// registration rows.
type Service struct {
	logg         *logger.Logger
	repo         outboxRepository
	appender     sheets.Appender
	metrics      *metrics.MirrorMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

// NewService validates params and applies the configured bounds.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Appender == nil {
		return nil, errors.New("sheet appender is required")
	}

	batch := params.Config.Mirror.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := params.Config.Mirror.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Mirror.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		logg:         params.Logger,
		repo:         params.Repository,
		appender:     params.Appender,
		metrics:      params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

// Run polls until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := s.pollInterval
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "mirror worker context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.ProcessBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "mirror batch error", err)
			backoff = nextBackoff(backoff)
			if err := s.sleep(ctx, backoff); err != nil {
				return err
			}
			continue
		}

		backoff = s.pollInterval
		if processed > 0 {
			continue
		}
		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return err
		}
	}
}

// ProcessBatch drains one batch and reports how many rows it handled.
func (s *Service) ProcessBatch(ctx context.Context) (int, error) {
	start := time.Now()

	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		s.metrics.ObserveBatch("error", time.Since(start))
		return 0, fmt.Errorf("fetching unpublished events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	for i := range events {
		event := &events[i]
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"outbox_id":  event.ID,
			"event_type": event.EventType,
			"attempt":    event.AttemptCount + 1,
		})

		if err := s.mirrorEvent(ctx, event); err != nil {
			s.logg.Error(logCtx, "mirroring registration row", err)
			s.metrics.IncFailed(string(event.EventType))
			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				s.metrics.ObserveBatch("error", time.Since(start))
				return 0, fmt.Errorf("marking event %d failed: %w", event.ID, markErr)
			}
			if event.AttemptCount+1 >= s.maxAttempts {
				s.metrics.IncExhausted(string(event.EventType))
				s.logg.Warn(logCtx, "mirror event abandoned after max attempts")
			}
			continue
		}

		if err := s.repo.MarkPublished(event.ID); err != nil {
			s.metrics.ObserveBatch("error", time.Since(start))
			return 0, fmt.Errorf("marking event %d published: %w", event.ID, err)
		}
		s.metrics.IncPublished(string(event.EventType))
	}

	s.metrics.ObserveBatch("ok", time.Since(start))
	return len(events), nil
}

func (s *Service) mirrorEvent(ctx context.Context, event *models.OutboxEvent) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return fmt.Errorf("decoding payload envelope: %w", err)
	}
	var data payloads.WarrantyRegisteredEvent
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return fmt.Errorf("decoding registration payload: %w", err)
	}

	return s.appender.Append(ctx, [][]interface{}{sheetRow(&data)})
}

// sheetRow flattens one registration into the mirror's column order.
func sheetRow(data *payloads.WarrantyRegisteredEvent) []interface{} {
	return []interface{}{
		data.RegistrationID,
		data.CustomerName,
		data.CustomerPhone,
		data.CustomerEmail,
		data.RegistrationNumber,
		data.ChassisNumber,
		data.PPFRoll,
		data.PPFCategory,
		data.DealerName,
		data.InstallerMobile,
		data.InstallationLocation,
		data.VehiclePhotoURL,
		data.RCPhotoURL,
		data.SubmittedAt.Format(time.RFC3339),
	}
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
