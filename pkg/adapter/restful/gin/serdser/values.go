package serdser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal binds a decimal number from the form values (by the gin
// BindUnmarshaler interface) and from JSON numbers or strings.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalParam(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	d.Decimal = v
	return nil
}

// Flag binds a checkbox. The "1", "true", "on", and "yes" values are
// true and all other values (including a missing field) are false.
type Flag bool

func (f *Flag) UnmarshalParam(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	return f.UnmarshalParam(strings.Trim(string(b), `"`))
}
