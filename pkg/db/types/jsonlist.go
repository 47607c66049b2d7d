package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores an ordered list of strings as a JSON text column so the
// same model works on Postgres and the sqlite test harness.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(raw), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// SpecPair is one ordered (label, value) product specification entry.
type SpecPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SpecPairs stores ordered spec entries as a JSON text column.
type SpecPairs []SpecPair

func (s SpecPairs) Value() (driver.Value, error) {
	if s == nil {
		s = SpecPairs{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal spec pairs: %w", err)
	}
	return string(raw), nil
}

func (s *SpecPairs) Scan(src any) error {
	if src == nil {
		*s = SpecPairs{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported spec pairs source %T", src)
	}
	if len(raw) == 0 {
		*s = SpecPairs{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Lookup returns the value of the first pair whose label matches.
func (s SpecPairs) Lookup(label string) (string, bool) {
	for _, pair := range s {
		if pair.Label == label {
			return pair.Value, true
		}
	}
	return "", false
}
