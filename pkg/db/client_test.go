package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type tinyRow struct {
	ID    uint `gorm:"primaryKey"`
	Value string
}

func openSQLite(t *testing.T) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "failed to open sqlite")
	require.NoError(t, conn.AutoMigrate(&tinyRow{}), "failed to migrate sqlite")
	return NewFromConn(conn)
}

func TestWithTxCommits(t *testing.T) {
	client := openSQLite(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&tinyRow{Value: "kept"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, client.DB().Model(&tinyRow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openSQLite(t)
	boom := errors.New("boom")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&tinyRow{Value: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, client.DB().Model(&tinyRow{}).Where("value = ?", "discarded").Count(&count).Error)
	assert.Zero(t, count)
}

func TestIsNotFound(t *testing.T) {
	client := openSQLite(t)
	var row tinyRow
	err := client.DB().First(&row, "id = ?", 999).Error
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("other")))
}
