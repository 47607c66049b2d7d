package models

import "time"

// WarrantyRegistration is a customer's record of a protective-film install.
// Identity fields are free text exactly as submitted; normalization happens
// only at lookup time.
type WarrantyRegistration struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement"`

	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerPhone string `gorm:"column:customer_phone;not null"`
	CustomerEmail string `gorm:"column:customer_email"`

	RegistrationNumber string `gorm:"column:registration_number;not null"`
	ChassisNumber      string `gorm:"column:chassis_number;not null"`

	PPFRoll     string `gorm:"column:ppf_roll;not null"`
	PPFCategory string `gorm:"column:ppf_category"`

	DealerName           string `gorm:"column:dealer_name;not null"`
	InstallerMobile      string `gorm:"column:installer_mobile"`
	InstallationLocation string `gorm:"column:installation_location"`

	VehiclePhotoURL *string `gorm:"column:vehicle_photo_url"`
	RCPhotoURL      *string `gorm:"column:rc_photo_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WarrantyRegistration) TableName() string {
	return "warranty_registrations"
}
