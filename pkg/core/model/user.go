// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strings"
	"time"
)

// ExternalIdentityPassword is stored instead of a password hash for
// accounts which were created by the identity provider login. Such
// accounts may not log in with a password.
const ExternalIdentityPassword = "google_oauth"

// MinPasswordLength is the minimum number of characters which are
// accepted for a new password.
const MinPasswordLength = 6

// User is a registered account.
type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Phone         string     `json:"phone,omitempty"`
	Role          Role       `json:"role"`
	Active        bool       `json:"is_active"`
	EmailVerified bool       `json:"email_verified"`
	ProfileImage  string     `json:"profile_image,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// HasPassword reports whether u may log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordHash != ExternalIdentityPassword
}

// Session returns the session record which represents u after a
// successful login.
func (u *User) Session(sid string) *Session {
	return &Session{
		ID:       sid,
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// NormalizeEmail trims and lower-cases an email address, so lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session is the signed per-browser record of a logged-in user.
// The ID keys the ephemeral server-side state such as the cart.
type Session struct {
	ID       string `json:"sid"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Registration carries the fields of the sign up form.
type Registration struct {
	Username        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// ExternalIdentity is the verified identity which is reported by the
// identity provider after a successful authorization code exchange.
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// UserCounts summarizes the users per role for the admin dashboard.
type UserCounts struct {
	Total   int64 `json:"total_users"`
	Clients int64 `json:"total_clients"`
	Service int64 `json:"total_service"`
}
