package warranties

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox"
)

type fakeUploader struct {
	uploads map[string]string
	fail    bool
}

func (f *fakeUploader) Upload(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "https://storage.googleapis.com/shieldwrap-test/" + key
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[contentType] = url
	return url, nil
}

type testEnv struct {
	db       *gorm.DB
	svc      Service
	repo     *Repository
	uploader *fakeUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:warranties_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.WarrantyRegistration{}, &models.OutboxEvent{}))

	client := pkgdb.NewFromConn(conn)
	repo := NewRepository(conn)
	uploader := &fakeUploader{}
	emitter := outbox.NewService(outbox.NewRepository(conn), nil)

	svc, err := NewService(repo, client, uploader, emitter, nil)
	require.NoError(t, err)
	return &testEnv{db: conn, svc: svc, repo: repo, uploader: uploader}
}

func validInput() RegisterInput {
	return RegisterInput{
		CustomerName:         "Asha Verma",
		CustomerPhone:        "9876543210",
		CustomerEmail:        "asha@example.in",
		RegistrationNumber:   "DL 01 AB 1234",
		ChassisNumber:        "MA1TA2BC3DE456789",
		PPFRoll:              "SW-GL-2207",
		PPFCategory:          "Gloss TPH",
		DealerName:           "Speedline Studio",
		InstallerMobile:      "9811001100",
		InstallationLocation: "New Delhi",
	}
}

func TestRegisterPersistsRowAndQueuesMirror(t *testing.T) {
	env := newTestEnv(t)

	dto, err := env.svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, "Asha Verma", dto.CustomerName)

	var outboxRow models.OutboxEvent
	require.NoError(t, env.db.First(&outboxRow).Error)
	assert.EqualValues(t, dto.ID, outboxRow.AggregateID)
	assert.Nil(t, outboxRow.PublishedAt)
}

func TestRegisterUploadsImagesAndStoresURLs(t *testing.T) {
	env := newTestEnv(t)

	input := validInput()
	input.VehiclePhoto = &ImageUpload{
		Filename:    "car.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
	}
	input.RCPhoto = &ImageUpload{
		Filename:    "rc.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	}

	dto, err := env.svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, dto.VehiclePhotoURL)
	require.NotNil(t, dto.RCPhotoURL)
	assert.True(t, strings.HasSuffix(*dto.VehiclePhotoURL, ".jpg"))
	assert.True(t, strings.HasSuffix(*dto.RCPhotoURL, ".png"))

	// the stored row carries the exact uploaded URLs back on read
	got, err := env.svc.GetByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, *dto.VehiclePhotoURL, *got.VehiclePhotoURL)
	assert.Equal(t, *dto.RCPhotoURL, *got.RCPhotoURL)
}

func TestRegisterMissingFieldsListsThem(t *testing.T) {
	env := newTestEnv(t)

	input := validInput()
	input.CustomerPhone = ""
	input.DealerName = "  "

	_, err := env.svc.Register(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	fields, ok := details["fields"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"customerPhone", "dealerName"}, fields)
}

func TestRegisterUploadFailureLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	env.uploader.fail = true

	input := validInput()
	input.VehiclePhoto = &ImageUpload{Filename: "car.jpg", Body: strings.NewReader("x")}

	_, err := env.svc.Register(context.Background(), input)
	require.Error(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.WarrantyRegistration{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdatePatchesAndValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto, err := env.svc.Register(ctx, validInput())
	require.NoError(t, err)

	newDealer := "Gloss Garage"
	updated, err := env.svc.Update(ctx, dto.ID, UpdateInput{DealerName: &newDealer})
	require.NoError(t, err)
	assert.Equal(t, "Gloss Garage", updated.DealerName)
	assert.Equal(t, dto.CustomerName, updated.CustomerName)

	empty := ""
	_, err = env.svc.Update(ctx, dto.ID, UpdateInput{CustomerName: &empty})
	require.Error(t, err)
}

func TestDeleteMissingRegistrationIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Delete(context.Background(), 999)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		row := models.WarrantyRegistration{
			CustomerName:       fmt.Sprintf("Customer %d", i),
			CustomerPhone:      fmt.Sprintf("98765432%02d", i),
			RegistrationNumber: fmt.Sprintf("DL 01 AB %04d", i),
			ChassisNumber:      fmt.Sprintf("CHASSIS%05d", i),
			PPFRoll:            "SW-GL-2207",
			PPFCategory:        "Gloss TPH",
			DealerName:         "Speedline Studio",
			CreatedAt:          base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.db.Create(&row).Error)
	}
	require.NoError(t, env.db.Create(&models.WarrantyRegistration{
		CustomerName:       "Other Dealer Customer",
		CustomerPhone:      "9000000000",
		RegistrationNumber: "MH 12 XY 0001",
		ChassisNumber:      "CHASSISOTHER",
		PPFRoll:            "SW-MT-1101",
		PPFCategory:        "Matte Lite",
		DealerName:         "Matte Works",
		CreatedAt:          base.Add(time.Hour),
	}).Error)

	// dealer filter
	res, err := env.svc.List(ctx, ListParams{Dealer: "matte"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Other Dealer Customer", res.Items[0].CustomerName)

	// default sort is created_at DESC with cursor pagination
	page1, err := env.svc.List(ctx, ListParams{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1.Items, 3)
	require.NotEmpty(t, page1.Cursor)
	assert.Equal(t, "Other Dealer Customer", page1.Items[0].CustomerName)

	page2, err := env.svc.List(ctx, ListParams{Limit: 3, Cursor: page1.Cursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 3)
	assert.Empty(t, page2.Cursor)

	seen := map[uint]bool{}
	for _, item := range append(page1.Items, page2.Items...) {
		assert.False(t, seen[item.ID], "row %d repeated across pages", item.ID)
		seen[item.ID] = true
	}

	// whitelisted sort column, ascending
	asc, err := env.svc.List(ctx, ListParams{SortBy: "customerName", SortDir: "asc"})
	require.NoError(t, err)
	require.NotEmpty(t, asc.Items)
	assert.Equal(t, "Customer 0", asc.Items[0].CustomerName)

	// unknown sort column is rejected
	_, err = env.svc.List(ctx, ListParams{SortBy: "password"})
	require.Error(t, err)
}

func TestExportWritesWorkbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, validInput())
	require.NoError(t, err)

	exporter, err := NewExporter(env.repo)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteXLSX(ctx, &buf))

	// xlsx files are zip archives
	require.Greater(t, buf.Len(), 4)
	assert.Equal(t, "PK", buf.String()[:2])
}
