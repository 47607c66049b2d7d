package leads

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:leads_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Lead{}))

	svc, err := NewService(db, nil)
	require.NoError(t, err)
	return svc, db
}

func TestCreateLeadRequiresNameAndPhone(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateLeadInput{Name: "X"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateAndListLeads(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	lead, err := svc.Create(ctx, CreateLeadInput{
		Name:            " Kiran ",
		Phone:           "9811001100",
		ProductInterest: "Gloss TPH",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kiran", lead.Name)

	res, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Gloss TPH", res.Items[0].ProductInterest)
}

func TestListLeadsPaginatesNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Lead{
			Name:      fmt.Sprintf("Lead %d", i),
			Phone:     "9000000000",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	page1, err := svc.List(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1.Items, 3)
	require.NotEmpty(t, page1.Cursor)
	assert.Equal(t, "Lead 4", page1.Items[0].Name)

	page2, err := svc.List(ctx, pagination.Params{Limit: 3, Cursor: page1.Cursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.Empty(t, page2.Cursor)
	assert.Equal(t, "Lead 1", page2.Items[0].Name)
}

func TestDeleteLead(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	lead, err := svc.Create(ctx, CreateLeadInput{Name: "K", Phone: "9"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, lead.ID))

	err = svc.Delete(ctx, lead.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
