package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrInvalidGender is returned when a value does not name one of the Gender constants.
var ErrInvalidGender = errors.New("invalid gender")

// Gender is the closed set of values accepted for Author.Gender. The zero
// value is not a valid gender, so a missing field is caught by validation.
type Gender uint8

const (
	_ Gender = iota
	GenderFemale
	GenderMale
	GenderUnknown
)

var genderNames = map[Gender]string{
	GenderFemale:  "female",
	GenderMale:    "male",
	GenderUnknown: "unknown",
}

// GenderValues returns the store spelling of every gender in declaration order.
func GenderValues() []string {
	return []string{
		genderNames[GenderFemale],
		genderNames[GenderMale],
		genderNames[GenderUnknown],
	}
}

// ParseGender maps the store and wire spelling to a Gender. Matching is exact.
func ParseGender(s string) (Gender, error) {
	for g, name := range genderNames {
		if name == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGender, s)
}

// IsValid reports whether g is one of the declared constants.
func (g Gender) IsValid() bool {
	_, ok := genderNames[g]
	return ok
}

func (g Gender) String() string {
	if name, ok := genderNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Gender(%d)", uint8(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g Gender) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGender, uint8(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unmapped strings are rejected.
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Scan implements sql.Scanner.
func (g *Gender) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return g.UnmarshalText([]byte(v))
	case []byte:
		return g.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidGender)
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidGender, src)
	}
}

// Value implements driver.Valuer.
func (g Gender) Value() (driver.Value, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGender, uint8(g))
	}
	return g.String(), nil
}
