package mirror

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox/payloads"
)

type fakeAppender struct {
	rows  [][]interface{}
	fail  bool
	calls int
}

func (f *fakeAppender) Append(_ context.Context, rows [][]interface{}) error {
	f.calls++
	if f.fail {
		return errors.New("sheets unavailable")
	}
	f.rows = append(f.rows, rows...)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	repo     *outbox.Repository
	emitter  *outbox.Service
	appender *fakeAppender
	svc      *Service
}

func newTestEnv(t *testing.T, mutate func(*config.MirrorConfig)) *testEnv {
	t.Helper()
	dsn := "file:mirror_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.OutboxEvent{}))

	cfg := &config.Config{}
	if mutate != nil {
		mutate(&cfg.Mirror)
	}

	repo := outbox.NewRepository(conn)
	appender := &fakeAppender{}
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "mirror-test", Output: io.Discard}),
		Repository: repo,
		Appender:   appender,
	})
	require.NoError(t, err)

	return &testEnv{
		db:       conn,
		repo:     repo,
		emitter:  outbox.NewService(repo, nil),
		appender: appender,
		svc:      svc,
	}
}

func (e *testEnv) queueRegistration(t *testing.T, id uint) {
	t.Helper()
	err := e.db.Transaction(func(tx *gorm.DB) error {
		return e.emitter.Emit(context.Background(), tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventWarrantyRegistered,
			AggregateType: enums.OutboxAggregateWarranty,
			AggregateID:   id,
			Data: payloads.WarrantyRegisteredEvent{
				RegistrationID:     id,
				CustomerName:       "Asha Verma",
				CustomerPhone:      "9876543210",
				RegistrationNumber: "DL 01 AB 1234",
				ChassisNumber:      "MA1TA2BC3DE456789",
				PPFRoll:            "SW-GL-2207",
				DealerName:         "Speedline Studio",
				SubmittedAt:        time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
			},
		})
	})
	require.NoError(t, err)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestProcessBatchAppendsAndMarksPublished(t *testing.T) {
	env := newTestEnv(t, nil)
	env.queueRegistration(t, 42)

	processed, err := env.svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.Len(t, env.appender.rows, 1)
	row := env.appender.rows[0]
	require.Len(t, row, 14)
	assert.EqualValues(t, 42, row[0])
	assert.Equal(t, "Asha Verma", row[1])
	assert.Equal(t, "2025-06-01T10:30:00Z", row[13])

	var stored models.OutboxEvent
	require.NoError(t, env.db.First(&stored).Error)
	require.NotNil(t, stored.PublishedAt)
}

func TestProcessBatchEmptyQueueIsNoop(t *testing.T) {
	env := newTestEnv(t, nil)

	processed, err := env.svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Zero(t, env.appender.calls)
}

func TestProcessBatchFailureRecordsAttempt(t *testing.T) {
	env := newTestEnv(t, nil)
	env.queueRegistration(t, 7)
	env.appender.fail = true

	processed, err := env.svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	var stored models.OutboxEvent
	require.NoError(t, env.db.First(&stored).Error)
	assert.Nil(t, stored.PublishedAt)
	assert.Equal(t, 1, stored.AttemptCount)
	require.NotNil(t, stored.LastError)
	assert.Contains(t, *stored.LastError, "sheets unavailable")

	// the row is retried on the next pass once the sheet recovers
	env.appender.fail = false
	processed, err = env.svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.NoError(t, env.db.First(&stored).Error)
	require.NotNil(t, stored.PublishedAt)
}

func TestProcessBatchSkipsExhaustedRows(t *testing.T) {
	env := newTestEnv(t, func(c *config.MirrorConfig) {
		c.MaxAttempts = 2
	})
	env.queueRegistration(t, 9)
	env.appender.fail = true

	for i := 0; i < 2; i++ {
		_, err := env.svc.ProcessBatch(context.Background())
		require.NoError(t, err)
	}

	// attempts are spent, so the row no longer surfaces
	env.appender.calls = 0
	processed, err := env.svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Zero(t, env.appender.calls)
}

func TestProcessBatchSkipsMalformedPayload(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.db.Create(&models.OutboxEvent{
		EventType:     enums.OutboxEventWarrantyRegistered,
		AggregateType: enums.OutboxAggregateWarranty,
		AggregateID:   1,
		Payload:       []byte("{not json"),
	}).Error)

	processed, err := env.svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Zero(t, env.appender.calls)

	var stored models.OutboxEvent
	require.NoError(t, env.db.First(&stored).Error)
	assert.Nil(t, stored.PublishedAt)
	assert.Equal(t, 1, stored.AttemptCount)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	env := newTestEnv(t, func(c *config.MirrorConfig) {
		c.PollIntervalMS = 10
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := env.svc.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
