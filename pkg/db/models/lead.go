package models

import "time"

// Lead is a marketing-site enquiry captured for dealer follow-up.
type Lead struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;not null"`
	Phone           string    `gorm:"column:phone;not null"`
	Email           string    `gorm:"column:email"`
	Message         string    `gorm:"column:message"`
	ProductInterest string    `gorm:"column:product_interest"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Lead) TableName() string {
	return "leads"
}
