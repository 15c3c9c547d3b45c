// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"fmt"
	"log/slog"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// ID returns an Attr for a numeric row identifier such as a user,
// booking, or order id.
func ID(key string, id int64) slog.Attr {
	return slog.Int64(key, id)
}

// Email returns an Attr for an email address, keeping only its first
// character and domain so logs do not collect contact details.
func Email(key, addr string) slog.Attr {
	for i := 0; i < len(addr); i++ {
		if addr[i] == '@' && i > 0 {
			return slog.String(key, addr[:1]+"***"+addr[i:])
		}
	}
	return slog.String(key, "***")
}

// Stringer returns an Attr for a value which is logged by its String
// method, e.g., a decimal amount.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}
