package models

import (
	"time"

	dbtypes "github.com/shieldwrapindia/shieldwrap-backend/pkg/db/types"
)

// Product is one catalog entry for a film line. The slug doubles as the
// primary key and the public URL segment. Warranty registrations reference
// products only by name substring, never by key.
type Product struct {
	Slug        string             `gorm:"column:slug;primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	Description string             `gorm:"column:description"`
	Features    dbtypes.StringList `gorm:"column:features;type:text;not null"`
	Specs       dbtypes.SpecPairs  `gorm:"column:specs;type:text;not null"`
	Position    int                `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
