// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package passwd exports the expected interface for password hashing.
// For the corresponding implementation, check the adapter layer.
//
// The hashed string is opaque to the use cases. It is stored as is and
// later passed back to Compare together with a plaintext candidate,
// so an implementation may embed its salt and cost parameters in it.
package passwd

import "errors"

// ErrMismatch is returned by Compare when a password does not match
// its hash.
var ErrMismatch = errors.New("password does not match")

// Hasher hashes new passwords and verifies the login attempts.
type Hasher interface {
	// Hash returns a salted hash of the plaintext password.
	Hash(password string) (string, error)

	// Compare returns nil if password matches the hash, ErrMismatch
	// if it does not, and other errors for malformed hashes.
	Compare(hash, password string) error
}
