// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr contains the typed errors which are returned by the
// use cases and repositories. Each error carries the HTTP status code
// which its kind maps to, so the outermost adapter may report it
// without knowing about the operation which has failed.
// Errors which are not wrapped by an Error instance are considered to
// be unexpected (infrastructure) errors.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps an error and classifies it by its HTTPStatusCode.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest reports a validation or business rule violation, such as
// a missing field, an insufficient stock, or an expired discount code.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict reports a uniqueness violation.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// Unavailable reports a failed external collaborator (e.g., payment
// processor) whose failure must be visible to the end-user.
func Unavailable(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadGateway}
}

// BadRequestf is a shorthand for BadRequest(fmt.Errorf(...)).
func BadRequestf(format string, args ...any) *Error {
	return BadRequest(fmt.Errorf(format, args...))
}

// NotFoundf is a shorthand for NotFound(fmt.Errorf(...)).
func NotFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Errorf(format, args...))
}

// StatusCode returns the HTTP status code of the outermost Error in
// the err chain and zero if err is nil or was not classified.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return 0
}

// Is reports whether err is classified with the given status code.
func Is(err error, status int) bool {
	return err != nil && StatusCode(err) == status
}

// IsNotFound reports whether err is classified as a NotFound error.
func IsNotFound(err error) bool {
	return Is(err, http.StatusNotFound)
}
