package resolver

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)

	// Indian plate shape after stripping: state code, RTO digits,
	// optional series letters, serial digits.
	plateRe = regexp.MustCompile(`^([A-Z]{2})(\d{1,2})([A-Z]{0,3})(\d{1,4})$`)
)

// NormalizePhone strips everything but digits and requires an exact 10-digit
// subscriber number. Country prefixes belong to the stored side of the match.
func NormalizePhone(raw string) (string, error) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) != 10 {
		return "", fmt.Errorf("phone number must contain exactly 10 digits")
	}
	return digits, nil
}

// NormalizeVIN strips non-alphanumerics and uppercases the rest.
func NormalizeVIN(raw string) (string, error) {
	vin := strings.ToUpper(nonAlnumRe.ReplaceAllString(raw, ""))
	if vin == "" {
		return "", fmt.Errorf("chassis number is required")
	}
	return vin, nil
}

// NormalizePlate returns the raw stripped form plus, when the input parses as
// an Indian registration mark, the canonical space-separated rendering with a
// two-digit RTO code and four-digit serial. Canonical input re-renders to
// itself.
func NormalizePlate(raw string) (stripped, canonical string, err error) {
	stripped = strings.ToUpper(nonAlnumRe.ReplaceAllString(raw, ""))
	if stripped == "" {
		return "", "", fmt.Errorf("registration number is required")
	}

	m := plateRe.FindStringSubmatch(stripped)
	if m == nil {
		return stripped, "", nil
	}

	state, rto, series, serial := m[1], m[2], m[3], m[4]
	parts := []string{state, zeroPad(rto, 2)}
	if series != "" {
		parts = append(parts, series)
	}
	parts = append(parts, zeroPad(serial, 4))
	return stripped, strings.Join(parts, " "), nil
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
