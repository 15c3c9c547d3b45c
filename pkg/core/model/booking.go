// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the state of a booking in its workflow:
//
//	pending -> confirmed -> in_progress -> completed
//	pending, confirmed -> cancelled
type BookingStatus int

// Valid values for the BookingStatus enum.
const (
	BookingStatusInvalid BookingStatus = iota // zero value is invalid

	BookingPending
	BookingConfirmed
	BookingInProgress
	BookingCompleted
	BookingCancelled
)

// ErrUnknownBookingStatus indicates that a given string may not be
// parsed as a known booking status.
var ErrUnknownBookingStatus = errors.New("unknown booking status")

// BookingStatusError indicates an invalid numeric booking status.
type BookingStatusError int

func (e BookingStatusError) Error() string {
	return fmt.Sprintf("invalid booking status: %d", e)
}

// Validate returns nil if s is a known status.
func (s BookingStatus) Validate() error {
	if s < BookingPending || s > BookingCancelled {
		return BookingStatusError(s)
	}
	return nil
}

// String converts s to its stored representation. Invalid statuses
// cause a panic.
func (s BookingStatus) String() string {
	switch s {
	case BookingPending:
		return "pending"
	case BookingConfirmed:
		return "confirmed"
	case BookingInProgress:
		return "in_progress"
	case BookingCompleted:
		return "completed"
	case BookingCancelled:
		return "cancelled"
	default:
		panic(BookingStatusError(s))
	}
}

func (s BookingStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *BookingStatus) UnmarshalText(b []byte) error {
	ss, err := ParseBookingStatus(string(b))
	if err != nil {
		return err
	}
	*s = ss
	return nil
}

// ParseBookingStatus parses the stored representation of a status.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch s {
	case "pending":
		return BookingPending, nil
	case "confirmed":
		return BookingConfirmed, nil
	case "in_progress":
		return BookingInProgress, nil
	case "completed":
		return BookingCompleted, nil
	case "cancelled":
		return BookingCancelled, nil
	default:
		return BookingStatusInvalid, ErrUnknownBookingStatus
	}
}

// Terminal reports whether no further transition leaves s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransitionTo reports whether the workflow allows moving from s to
// next. Staying in the same status is allowed, so an assignment may be
// changed without a status change. Statuses only move forward and
// cancellation is possible before the work starts.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if next.Validate() != nil || s.Validate() != nil {
		return false
	}
	switch {
	case s == next:
		return true
	case s.Terminal():
		return false
	case next == BookingCancelled:
		return s == BookingPending || s == BookingConfirmed
	default:
		return next > s
	}
}

// Booking is a scheduled service appointment for a client vehicle.
// The joined display fields are filled by the read queries only.
type Booking struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	ServiceID     int64           `json:"service_id"`
	VehicleID     int64           `json:"vehicle_id"`
	ScheduledDate time.Time       `json:"scheduled_date"`
	Status        BookingStatus   `json:"status"`
	AssignedTo    *int64          `json:"assigned_to,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	ServiceName   string `json:"service_name,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Vehicle       string `json:"vehicle,omitempty"`
	StaffName     string `json:"staff_name,omitempty"`
}

// BookingRequest carries the booking form of a client.
type BookingRequest struct {
	ServiceID     int64
	VehicleID     int64
	ScheduledDate time.Time
	Notes         string
}

// StatusUpdate asks to move a booking into Status and optionally
// assign it to the AssignTo service staff member.
type StatusUpdate struct {
	BookingID int64
	Status    BookingStatus
	AssignTo  *int64
}

// StaffDashboard is the service staff landing page data.
type StaffDashboard struct {
	Assigned   []Booking `json:"assigned_bookings"`
	TodayCount int       `json:"today_bookings"`
}

// Title returns s in a human readable form, e.g., "In Progress".
func (s BookingStatus) Title() string {
	words := strings.Split(s.String(), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// AdminBookings is the booking management page data. Staff lists the
// active service staff members who may be assigned to a booking.
type AdminBookings struct {
	Bookings []Booking `json:"bookings"`
	Staff    []User    `json:"service_persons"`
}
