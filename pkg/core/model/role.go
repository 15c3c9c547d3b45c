// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Role specifies the role enum of a user account. Although this enum
// is numeric, it is stored and (de)serialized as a string.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RoleClient  // customers who book services and buy parts
	RoleService // service staff who work on the assigned bookings
	RoleAdmin   // administrators who manage everything
)

// ErrUnknownRole indicates that a given string may not be parsed as
// a known role.
var ErrUnknownRole = errors.New("unknown role")

// RoleError indicates an invalid numeric role.
type RoleError int

// Error implements the error interface.
func (e RoleError) Error() string {
	return fmt.Sprintf("invalid role: %d", e)
}

// Validate returns nil if Role value is valid. For invalid values, an
// instance of the RoleError will be returned.
func (r Role) Validate() error {
	switch r {
	case RoleClient, RoleService, RoleAdmin:
		return nil
	default:
		return RoleError(r)
	}
}

// String converts the Role enum to a string. Invalid roles cause a
// panic.
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleService:
		return "service"
	case RoleAdmin:
		return "admin"
	default:
		panic(RoleError(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	rr, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = rr
	return nil
}

// ParseRole parses the given string and returns a Role. For invalid
// strings, RoleInvalid and ErrUnknownRole will be returned.
func ParseRole(r string) (Role, error) {
	switch r {
	case "client":
		return RoleClient, nil
	case "service":
		return RoleService, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleInvalid, ErrUnknownRole
	}
}

// DashboardPath returns the landing page of the r role after a login.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/dashboard/admin"
	case RoleService:
		return "/dashboard/service"
	default:
		return "/dashboard"
	}
}
