package payloads

import "time"

// WarrantyRegisteredEvent carries the flattened registration row the
// spreadsheet mirror appends. The payload is self-contained so the worker
// never has to re-read the registration.
type WarrantyRegisteredEvent struct {
	RegistrationID       uint      `json:"registration_id"`
	CustomerName         string    `json:"customer_name"`
	CustomerPhone        string    `json:"customer_phone"`
	CustomerEmail        string    `json:"customer_email,omitempty"`
	RegistrationNumber   string    `json:"registration_number"`
	ChassisNumber        string    `json:"chassis_number"`
	PPFRoll              string    `json:"ppf_roll"`
	PPFCategory          string    `json:"ppf_category,omitempty"`
	DealerName           string    `json:"dealer_name"`
	InstallerMobile      string    `json:"installer_mobile,omitempty"`
	InstallationLocation string    `json:"installation_location,omitempty"`
	VehiclePhotoURL      string    `json:"vehicle_photo_url,omitempty"`
	RCPhotoURL           string    `json:"rc_photo_url,omitempty"`
	SubmittedAt          time.Time `json:"submitted_at"`
}
