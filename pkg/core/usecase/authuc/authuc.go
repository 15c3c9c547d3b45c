// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authuc contains the account use cases: registration,
// password and identity provider logins, and the password reset flow.
// It identifies users, but the session which represents a logged-in
// user is created and signed by the outer layers.
package authuc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/identity"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/passwd"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for every failed password login,
// so callers cannot learn which emails are registered.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrPasswordMismatch indicates different password and confirmation.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrPasswordTooShort indicates a password with too few characters.
var ErrPasswordTooShort = fmt.Errorf(
	"password must be at least %d characters long", model.MinPasswordLength,
)

// UseCase represents the account use cases.
type UseCase struct {
	pool   repo.Pool
	users  repo.Users
	tokens repo.ResetTokens
	hasher passwd.Hasher
	mailer notify.Mailer

	idp      identity.Provider
	now      func() time.Time
	resetTTL time.Duration
	baseURL  *url.URL
}

// New instantiates an account use case.
func New(
	p repo.Pool,
	users repo.Users,
	tokens repo.ResetTokens,
	hasher passwd.Hasher,
	mailer notify.Mailer,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:   p,
		users:  users,
		tokens: tokens,
		hasher: hasher,
		mailer: mailer,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.resetTTL == 0 {
		uc.resetTTL = time.Hour
	}
	if uc.baseURL == nil {
		uc.baseURL = &url.URL{Scheme: "http", Host: "localhost:5000"}
	}
	return uc, nil
}

func checkPassword(password, confirm string) error {
	if password != confirm {
		return cerr.BadRequest(ErrPasswordMismatch)
	}
	if len([]rune(password)) < model.MinPasswordLength {
		return cerr.BadRequest(ErrPasswordTooShort)
	}
	return nil
}

// Register creates a client account and sends a welcome email.
// A username or email which is taken already causes a cerr.Conflict.
func (uc *UseCase) Register(
	ctx context.Context, reg model.Registration,
) (*model.User, error) {
	username := strings.TrimSpace(reg.Username)
	email := model.NormalizeEmail(reg.Email)
	if username == "" || email == "" || reg.Password == "" {
		return nil, cerr.BadRequestf("please fill in all required fields")
	}
	if !strings.Contains(email, "@") {
		return nil, cerr.BadRequestf("invalid email address: %q", email)
	}
	if err := checkPassword(reg.Password, reg.ConfirmPassword); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	var u *model.User
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = uc.users.Conn(c).Create(ctx, &model.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Phone:        strings.TrimSpace(reg.Phone),
			Role:         model.RoleClient,
			Active:       true,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Info(ctx, "user registered", log.ID("user", u.ID))
	notify.Deliver(ctx, uc.mailer, notify.Compose(
		u.Email, "Welcome to Future Mech!", "Welcome to Future Mech!",
		fmt.Sprintf("Dear %s,", u.Username),
		"Thank you for registering with Future Mech."+
			" We're excited to have you on board!",
		"You can now book services, purchase car parts,"+
			" and manage your vehicle maintenance.",
	))
	return u, nil
}

// Login authenticates an active user by email and password and
// records the login time. All failures which depend on the stored
// account are reported as ErrInvalidCredentials.
func (uc *UseCase) Login(
	ctx context.Context, email, password string,
) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, cerr.BadRequestf("please enter both email and password")
	}
	var u *model.User
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.users.Conn(c)
		var err error
		u, err = q.ByEmail(ctx, email)
		switch {
		case cerr.IsNotFound(err):
			return cerr.Authentication(ErrInvalidCredentials)
		case err != nil:
			return err
		case !u.Active || !u.HasPassword():
			return cerr.Authentication(ErrInvalidCredentials)
		}
		switch err := uc.hasher.Compare(u.PasswordHash, password); {
		case errors.Is(err, passwd.ErrMismatch):
			return cerr.Authentication(ErrInvalidCredentials)
		case err != nil:
			return fmt.Errorf("comparing password: %w", err)
		}
		now := uc.now()
		u.LastLogin = &now
		return q.TouchLogin(ctx, u.ID, now)
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "user logged in", log.ID("user", u.ID))
	return u, nil
}

// IdentityURL returns the consent page of the identity provider which
// redirects back with state.
func (uc *UseCase) IdentityURL(state string) (string, error) {
	if uc.idp == nil {
		return "", cerr.NotFoundf("identity provider login is not configured")
	}
	return uc.idp.AuthCodeURL(state), nil
}

// LoginWithIdentity exchanges code with the identity provider and
// logs in the user with the reported email. Unknown emails get a new
// client account which may not log in with a password.
func (uc *UseCase) LoginWithIdentity(
	ctx context.Context, code string,
) (*model.User, error) {
	if uc.idp == nil {
		return nil, cerr.NotFoundf("identity provider login is not configured")
	}
	id, err := uc.idp.Exchange(ctx, code)
	if err != nil {
		return nil, cerr.Authentication(fmt.Errorf(
			"identity provider login failed: %w", err,
		))
	}
	email := model.NormalizeEmail(id.Email)
	if email == "" {
		return nil, cerr.Authentication(errors.New(
			"identity provider did not report an email",
		))
	}
	var u *model.User
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.users.Conn(c)
		u, err = q.ByEmail(ctx, email)
		switch {
		case err == nil:
			if !u.Active {
				return cerr.Authorization(errors.New("account is disabled"))
			}
			now := uc.now()
			u.LastLogin = &now
			return q.TouchLogin(ctx, u.ID, now)
		case !cerr.IsNotFound(err):
			return err
		}
		username, err := uniqueUsername(ctx, q, email)
		if err != nil {
			return err
		}
		u, err = q.Create(ctx, &model.User{
			Username:      username,
			Email:         email,
			PasswordHash:  model.ExternalIdentityPassword,
			Role:          model.RoleClient,
			Active:        true,
			EmailVerified: true,
			ProfileImage:  id.Picture,
		})
		if err == nil {
			log.Info(
				ctx, "user registered by identity provider",
				log.ID("user", u.ID),
			)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("identity login: %w", err)
	}
	return u, nil
}

// uniqueUsername derives a free username from the local part of the
// email, appending 1, 2, and so on while the name is taken.
func uniqueUsername(
	ctx context.Context, q repo.UsersQueryer, email string,
) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	name := base
	for i := 1; ; i++ {
		taken, err := q.UsernameTaken(ctx, name)
		if err != nil {
			return "", fmt.Errorf("checking username %q: %w", name, err)
		}
		if !taken {
			return name, nil
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}

// RequestPasswordReset issues a single-use reset token for the email
// account and mails a link which carries it. Unknown emails are not
// reported, so the caller shows the same response for all inputs.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	if email == "" {
		return cerr.BadRequestf("email is required")
	}
	var u *model.User
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		u, err = uc.users.Conn(c).ByEmail(ctx, email)
		return err
	})
	switch {
	case cerr.IsNotFound(err):
		log.Info(ctx, "password reset for unknown email", log.Email("email", email))
		return nil
	case err != nil:
		return fmt.Errorf("finding user: %w", err)
	}
	token := uuid.NewString()
	if err := uc.tokens.Issue(ctx, token, u.ID, uc.resetTTL); err != nil {
		return fmt.Errorf("issuing reset token: %w", err)
	}
	link := uc.baseURL.JoinPath("reset-password", token).String()
	notify.Deliver(ctx, uc.mailer, notify.Compose(
		u.Email, "Password Reset - Future Mech", "Password Reset Request",
		"Click the link below to reset your password:",
		notify.Link(link, "Reset Password"),
		fmt.Sprintf("This link will expire in %s.", humanDuration(uc.resetTTL)),
	))
	log.Info(ctx, "password reset requested", log.ID("user", u.ID))
	return nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	default:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
}

// ResetPassword consumes token and sets the new password of its user.
func (uc *UseCase) ResetPassword(
	ctx context.Context, token, password, confirm string,
) error {
	if err := checkPassword(password, confirm); err != nil {
		return err
	}
	userID, err := uc.tokens.Consume(ctx, token)
	if err != nil {
		if cerr.IsNotFound(err) {
			return cerr.BadRequest(errors.New("invalid or expired reset link"))
		}
		return fmt.Errorf("consuming reset token: %w", err)
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.users.Conn(c).SetPassword(ctx, userID, hash)
	})
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	log.Info(ctx, "password reset", log.ID("user", userID))
	return nil
}

// User returns the userID account.
func (uc *UseCase) User(ctx context.Context, userID int64) (u *model.User, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = uc.users.Conn(c).ByID(ctx, userID)
		return err
	})
	return
}
