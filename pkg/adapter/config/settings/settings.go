// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers which are used by the
// config package in order to decode, default, and range-check the
// optional settings. Optional settings are kept as pointers, so a
// missing YAML key can be told apart from an explicit zero value.
package settings

import (
	"cmp"
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is decoded from the strings of
// the time.ParseDuration format (e.g., 90m or 168h) and is marshaled
// without the trailing zero units.
type Duration time.Duration

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// The `d` receiver is only updated if data could be parsed.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String formats d like time.Duration, dropping the zero minutes and
// seconds, so 2h0m0s is reported as 2h and 5m0s as 5m.
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LogValue implements slog.LogValuer. A nil Duration is logged as the
// constant "nil-duration" string.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}

// Nil2Zero makes the nil (*t) pointer to point to a zero T value.
// A non-nil (*t) is kept.
func Nil2Zero[T any](t **T) {
	var zero T
	Nil2Default(t, zero)
}

// Nil2Default makes the nil (*t) pointer to point to a copy of def.
// A non-nil (*t) is kept.
func Nil2Default[T any](t **T, def T) {
	if (*t) != nil {
		return
	}
	(*t) = &def
}

// OutOfRangeError indicates that a Value was out of its acceptable
// range, either less than its minimum valid value or greater than its
// maximum valid value.
type OutOfRangeError[T cmp.Ordered] struct {
	Value        *T   // The actual out-of-range value
	LessThanMin  bool // true if and only if min boundary is violated
	InvalidRange bool // true if and only if min is greater than max
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.InvalidRange:
		return "min is greater than max"
	case e.LessThanMin:
		return "value is less than min"
	default:
		return "value is greater than max"
	}
}

// VerifyRange checks that (*value) is nil or is within the minb and
// maxb boundaries, where a nil boundary is not checked. An out of
// range value is clamped to the violated boundary and its original
// value is reported in the returned error.
func VerifyRange[T cmp.Ordered](
	value **T, minb, maxb *T,
) *OutOfRangeError[T] {
	switch {
	case minb != nil && maxb != nil && (*minb) > (*maxb):
		return &OutOfRangeError[T]{InvalidRange: true}
	case (*value) == nil:
		return nil
	}
	switch v := **value; {
	case minb != nil && v < *minb:
		**value = *minb
		return &OutOfRangeError[T]{Value: &v, LessThanMin: true}
	case maxb != nil && v > *maxb:
		**value = *maxb
		return &OutOfRangeError[T]{Value: &v, LessThanMin: false}
	}
	return nil
}

// Ptr returns a pointer to a copy of v, so boundaries may be given as
// literal values.
func Ptr[T any](v T) *T {
	return &v
}
