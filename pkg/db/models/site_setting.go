package models

import "time"

// SiteSetting is one dot-path override layered onto the static site defaults.
// Only keys registered in the settings schema are accepted.
type SiteSetting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
