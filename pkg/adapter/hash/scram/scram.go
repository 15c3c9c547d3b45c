// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram presents an implementation of the passwd.Hasher
// interface which stores the passwords in the SCRAM-SHA-256 (or
// SCRAM-SHA-1) format as specified by RFC 5802 and RFC 7677. See the
// SHA256 and SHA1 functions for their instantiation logic.
// The hashed strings follow the same format which PostgreSQL keeps
// for its roles, so they are interoperable with other SCRAM verifiers.
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/passwd"
	"github.com/xdg-go/scram"
)

// DefaultIters is the iterations count which is used by the SHA1 and
// SHA256 functions. The RFC 7677 recommends 15000 or more.
const DefaultIters = 15000

// Mechanism provides a Salted Challenge Response Authentication
// Mechanism (SCRAM) having a fixed underlying hash algorithm.
//
// It implements the passwd.Hasher interface, so it may be used in
// the use cases layer without any dependency on the actual
// implementation. This package relies on the github.com/xdg-go/scram
// module for the SCRAM implementation.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
	iters         int
}

// SHA1 returns a new Mechanism instance using the SHA1 as its
// underlying hash algorithm.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
		iters:         DefaultIters,
	}
}

// SHA256 returns a new Mechanism instance using the SHA256 as its
// underlying hash algorithm.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
		iters:         DefaultIters,
	}
}

// WithIters returns a copy of m which hashes new passwords using the
// given iterations count. It must be at least 4096.
func (m *Mechanism) WithIters(iters int) (*Mechanism, error) {
	if iters < 4096 {
		return nil, fmt.Errorf("iters (%d) is less than 4096", iters)
	}
	mm := *m
	mm.iters = iters
	return &mm, nil
}

// Hash computes a hash string following the standard scram hash format
// with a random salt, so it can be stored and used later by Compare.
//
// The pass argument must be non-empty. The given password will be
// normalized according to the SASLprep profile (defined by RFC 4013)
// of the stringprep algorithm (which is defined by RFC 3454) and any
// failure in that normalization returns an error.
//
// In absence of errors, a hashed string will be returned which
// conforms to the following format.
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
func (m *Mechanism) Hash(pass string) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	saltBytes := make([]byte, m.outLen)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("creating random salt: %w", err)
	}
	salt := base64.StdEncoding.EncodeToString(saltBytes)
	sc, err := m.storedCredentials(pass, salt, m.iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	h := fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name,
		m.iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	)
	return h, nil
}

// Compare recomputes the stored key of pass using the salt and
// iterations count of hash and compares it with the stored key of
// hash in constant time.
func (m *Mechanism) Compare(hash, pass string) error {
	name, rest, ok := strings.Cut(hash, "$")
	if !ok || name != m.name {
		return fmt.Errorf("not a %s hash", m.name)
	}
	factors, keys, ok := strings.Cut(rest, "$")
	if !ok {
		return errors.New("malformed scram hash: missing keys")
	}
	itersStr, salt, ok := strings.Cut(factors, ":")
	if !ok {
		return errors.New("malformed scram hash: missing salt")
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil {
		return fmt.Errorf("malformed scram hash iters: %w", err)
	}
	storedKey, _, ok := strings.Cut(keys, ":")
	if !ok {
		return errors.New("malformed scram hash: missing server key")
	}
	want, err := base64.StdEncoding.DecodeString(storedKey)
	if err != nil {
		return fmt.Errorf("decoding stored key: %w", err)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return passwd.ErrMismatch
	}
	if !hmac.Equal(want, sc.StoredKey) {
		return passwd.ErrMismatch
	}
	return nil
}

func (m *Mechanism) storedCredentials(
	pass, salt string, iters int,
) (*scram.StoredCredentials, error) {
	c, err := m.hashGenerator.NewClient("username", pass, "authzID")
	if err != nil {
		return nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return &sc, nil
}
