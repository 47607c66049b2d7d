package enums

import "fmt"

// LookupMode selects which vehicle/customer identifier a warranty search uses.
type LookupMode string

const (
	LookupModePhone LookupMode = "phone"
	LookupModeVIN   LookupMode = "vin"
	LookupModePlate LookupMode = "plate"
)

func (m LookupMode) IsValid() bool {
	switch m {
	case LookupModePhone, LookupModeVIN, LookupModePlate:
		return true
	}
	return false
}

func ParseLookupMode(value string) (LookupMode, error) {
	mode := LookupMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("unknown lookup mode %q", value)
	}
	return mode, nil
}
