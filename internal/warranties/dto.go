package warranties

import (
	"io"
	"time"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
)

// RegistrationDTO is the read shape for one warranty registration.
type RegistrationDTO struct {
	ID                   uint      `json:"id"`
	CustomerName         string    `json:"customerName"`
	CustomerPhone        string    `json:"customerPhone"`
	CustomerEmail        string    `json:"customerEmail,omitempty"`
	RegistrationNumber   string    `json:"regNumber"`
	ChassisNumber        string    `json:"chassisNumber"`
	PPFRoll              string    `json:"ppfRoll"`
	PPFCategory          string    `json:"ppfCategory,omitempty"`
	DealerName           string    `json:"dealerName"`
	InstallerMobile      string    `json:"installerMobile,omitempty"`
	InstallationLocation string    `json:"installationLocation,omitempty"`
	VehiclePhotoURL      *string   `json:"vehiclePhotoUrl,omitempty"`
	RCPhotoURL           *string   `json:"rcPhotoUrl,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// ImageUpload is one multipart file part bound for object storage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// RegisterInput carries the public submission form. Field values are stored
// exactly as received; normalization happens only on the lookup path.
type RegisterInput struct {
	CustomerName         string
	CustomerPhone        string
	CustomerEmail        string
	RegistrationNumber   string
	ChassisNumber        string
	PPFRoll              string
	PPFCategory          string
	DealerName           string
	InstallerMobile      string
	InstallationLocation string

	VehiclePhoto *ImageUpload
	RCPhoto      *ImageUpload
}

// UpdateInput carries partial admin edits. Nil fields are untouched.
type UpdateInput struct {
	CustomerName         *string
	CustomerPhone        *string
	CustomerEmail        *string
	RegistrationNumber   *string
	ChassisNumber        *string
	PPFRoll              *string
	PPFCategory          *string
	DealerName           *string
	InstallerMobile      *string
	InstallationLocation *string
}

// ListParams configures admin listing filters, sorting and pagination.
type ListParams struct {
	Search   string
	Dealer   string
	Category string
	SortBy   string
	SortDir  string
	Limit    int
	Cursor   string
}

// ListResult returns one page of registrations plus the next cursor.
type ListResult struct {
	Items  []RegistrationDTO `json:"items"`
	Cursor string            `json:"cursor"`
}

func toDTO(m *models.WarrantyRegistration) *RegistrationDTO {
	return &RegistrationDTO{
		ID:                   m.ID,
		CustomerName:         m.CustomerName,
		CustomerPhone:        m.CustomerPhone,
		CustomerEmail:        m.CustomerEmail,
		RegistrationNumber:   m.RegistrationNumber,
		ChassisNumber:        m.ChassisNumber,
		PPFRoll:              m.PPFRoll,
		PPFCategory:          m.PPFCategory,
		DealerName:           m.DealerName,
		InstallerMobile:      m.InstallerMobile,
		InstallationLocation: m.InstallationLocation,
		VehiclePhotoURL:      m.VehiclePhotoURL,
		RCPhotoURL:           m.RCPhotoURL,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
