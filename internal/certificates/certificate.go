package certificates

import (
	"fmt"
	"time"

	"github.com/shieldwrapindia/shieldwrap-backend/internal/resolver"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
)

// Data is everything printed on one certificate.
type Data struct {
	Number       string
	CustomerName string
	Phone        string
	VehicleID    string
	ProductName  string
	Duration     string
	RollCode     string
	Studio       string
	Location     string
	InstallDate  time.Time
}

// FormatNumber renders the public certificate number from the record ID.
func FormatNumber(prefix string, id uint) string {
	return fmt.Sprintf("%s%06d", prefix, id)
}

// FromResolved maps a resolved warranty onto certificate fields. The vehicle
// identifier prefers the plate and falls back to the chassis number.
func FromResolved(prefix string, reg *models.WarrantyRegistration, enrichment resolver.Enrichment) Data {
	vehicle := reg.RegistrationNumber
	if vehicle == "" {
		vehicle = reg.ChassisNumber
	}
	product := enrichment.ProductName
	if product == "" {
		product = reg.PPFCategory
	}
	return Data{
		Number:       FormatNumber(prefix, reg.ID),
		CustomerName: reg.CustomerName,
		Phone:        reg.CustomerPhone,
		VehicleID:    vehicle,
		ProductName:  product,
		Duration:     enrichment.Duration,
		RollCode:     reg.PPFRoll,
		Studio:       reg.DealerName,
		Location:     reg.InstallationLocation,
		InstallDate:  reg.CreatedAt,
	}
}
