package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinVehicleYear is the oldest accepted model year.
const MinVehicleYear = 1900

// ErrDuplicateVehicle is reported when an owner registers the same
// registration number twice.
var ErrDuplicateVehicle = errors.New(
	"Vehicle with this registration number already exists",
)

// Vehicle belongs to one client. Its registration number is unique
// among the vehicles of the same owner.
type Vehicle struct {
	ID             int64     `json:"id"`
	OwnerID        int64     `json:"user_id"`
	RegistrationNo string    `json:"registration_no"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	Color          string    `json:"color,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks the mandatory fields and ensures that the model
// year is within [1900, now.Year()+1]. Fields are trimmed in place.
func (v *Vehicle) Validate(now time.Time) error {
	v.RegistrationNo = strings.TrimSpace(v.RegistrationNo)
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	v.Color = strings.TrimSpace(v.Color)
	switch {
	case v.RegistrationNo == "":
		return errors.New("registration number is required")
	case v.Make == "":
		return errors.New("make is required")
	case v.Model == "":
		return errors.New("model is required")
	}
	if maxYear := now.Year() + 1; v.Year < MinVehicleYear || v.Year > maxYear {
		return fmt.Errorf(
			"year must be between %d and %d", MinVehicleYear, maxYear,
		)
	}
	return nil
}

// Label returns a short human readable description of v.
func (v *Vehicle) Label() string {
	return fmt.Sprintf("%s %s (%s)", v.Make, v.Model, v.RegistrationNo)
}
