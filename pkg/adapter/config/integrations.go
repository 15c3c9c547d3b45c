// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/cache/redis"
	"github.com/futuremech/fmweb/pkg/adapter/config/settings"
	"github.com/futuremech/fmweb/pkg/adapter/hash/bcrypt"
	"github.com/futuremech/fmweb/pkg/adapter/hash/scram"
	"github.com/futuremech/fmweb/pkg/adapter/identity/oidc"
	"github.com/futuremech/fmweb/pkg/adapter/notify/logsink"
	"github.com/futuremech/fmweb/pkg/adapter/notify/smtp"
	"github.com/futuremech/fmweb/pkg/adapter/notify/twilio"
	"github.com/futuremech/fmweb/pkg/adapter/payment/stripe"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/routes"
	"github.com/futuremech/fmweb/pkg/adapter/storage/fs"
	"github.com/futuremech/fmweb/pkg/core/identity"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/passwd"
)

// Password hashing algorithms.
const (
	AlgBcrypt = "bcrypt"
	AlgScram  = "scram-sha-256"
)

// Passwords selects the password hashing algorithm. Changing it makes
// the stored hashes of the other algorithm unusable.
type Passwords struct {
	Algorithm  string `yaml:"algorithm"`
	Cost       *int   `yaml:"cost,omitempty"`       // bcrypt
	Iterations *int   `yaml:"iterations,omitempty"` // scram-sha-256
}

func (p *Passwords) ValidateAndNormalize() error {
	p.Algorithm = strings.ToLower(p.Algorithm)
	switch p.Algorithm {
	case "":
		p.Algorithm = AlgBcrypt
	case AlgBcrypt, AlgScram:
	default:
		return fmt.Errorf("unsupported algorithm: %q", p.Algorithm)
	}
	if err := settings.VerifyRange(
		&p.Cost, settings.Ptr(4), settings.Ptr(31),
	); err != nil {
		return fmt.Errorf("cost=%d: %w", *err.Value, err)
	}
	if err := settings.VerifyRange(
		&p.Iterations, settings.Ptr(4096), nil,
	); err != nil {
		return fmt.Errorf("iterations=%d: %w", *err.Value, err)
	}
	return nil
}

// NewHasher instantiates the configured password hasher.
func (p Passwords) NewHasher() (passwd.Hasher, error) {
	if p.Algorithm == AlgScram {
		m := scram.SHA256()
		if p.Iterations == nil {
			return m, nil
		}
		return m.WithIters(*p.Iterations)
	}
	cost := 0
	if p.Cost != nil {
		cost = *p.Cost
	}
	return bcrypt.New(cost)
}

// Redis keeps the carts and the password reset tokens.
type Redis struct {
	Addr     string             `yaml:"addr"`
	DB       int                `yaml:"db"`
	PoolSize int                `yaml:"pool-size,omitempty"`
	Prefix   string             `yaml:"prefix"`
	CartTTL  *settings.Duration `yaml:"cart-ttl"`

	Password string `yaml:"-"`
}

func (r *Redis) ValidateAndNormalize() error {
	if r.Addr == "" {
		r.Addr = "localhost:6379"
	}
	if r.DB < 0 || r.PoolSize < 0 {
		return errors.New("db and pool-size must be non-negative")
	}
	if r.Prefix == "" {
		r.Prefix = "fm:"
	}
	settings.Nil2Default(&r.CartTTL, settings.Duration(7*24*time.Hour))
	if err := settings.VerifyRange(
		&r.CartTTL, settings.Ptr(settings.Duration(time.Minute)), nil,
	); err != nil {
		return fmt.Errorf("cart-ttl=%v: %w", err.Value, err)
	}
	return nil
}

// NewClient connects to the Redis server. The caller must close the
// returned client.
func (r Redis) NewClient(ctx context.Context) (*redis.Client, error) {
	return redis.New(ctx, redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Prefix:   r.Prefix,
	})
}

// Mail contains the outgoing SMTP server settings. An empty host
// selects the log sink which only logs the messages.
type Mail struct {
	Host         string             `yaml:"host"`
	Port         int                `yaml:"port"`
	Username     string             `yaml:"username"`
	From         string             `yaml:"from"`
	AdminMailbox string             `yaml:"admin-mailbox"`
	StartTLS     bool               `yaml:"starttls"`
	Timeout      *settings.Duration `yaml:"timeout,omitempty"`

	Password string `yaml:"-"`
}

func (m *Mail) ValidateAndNormalize() error {
	if m.Port == 0 {
		m.Port = 587
	}
	if m.Port < 0 || m.Port > 65535 {
		return fmt.Errorf("invalid port: %d", m.Port)
	}
	for _, a := range []string{m.From, m.AdminMailbox} {
		if a == "" {
			continue
		}
		if _, err := mail.ParseAddress(a); err != nil {
			return fmt.Errorf("invalid address %q: %w", a, err)
		}
	}
	if m.Host != "" && m.From == "" {
		return errors.New("from address is required by the smtp host")
	}
	return nil
}

// NewMailer returns the SMTP mailer or a log sink if no host is set.
func (m Mail) NewMailer() (notify.Mailer, error) {
	if m.Host == "" {
		return &logsink.Mailer{}, nil
	}
	var timeout time.Duration
	if m.Timeout != nil {
		timeout = m.Timeout.Std()
	}
	return smtp.New(smtp.Options{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		From:     m.From,
		StartTLS: m.StartTLS,
		Timeout:  timeout,
	})
}

// SMS contains the Twilio account settings. SMS notifications are
// disabled when the account sid is empty, and only logged when the
// sender number is "log".
type SMS struct {
	AccountSID string `yaml:"account-sid"`
	From       string `yaml:"from"`

	AuthToken string `yaml:"-"`
}

func (s *SMS) ValidateAndNormalize() error {
	if s.AccountSID == "" || s.From == "log" {
		return nil
	}
	if s.AuthToken == "" {
		return errors.New(EnvTwilioAuthToken + " is required by the account sid")
	}
	if s.From == "" {
		return errors.New("from number is required by the account sid")
	}
	return nil
}

// NewSender returns a nil sender when SMS notifications are disabled.
func (s SMS) NewSender() (notify.SMSSender, error) {
	switch {
	case s.From == "log":
		return logsink.SMS{}, nil
	case s.AccountSID == "":
		return nil, nil
	}
	sender, err := twilio.New(twilio.Options{
		AccountSID: s.AccountSID,
		AuthToken:  s.AuthToken,
		From:       s.From,
	})
	if err != nil {
		return nil, err
	}
	return sender, nil
}

// Payments contains the Stripe settings. Both keys are taken from the
// environment.
type Payments struct {
	Currency string `yaml:"currency"`
	URL      string `yaml:"url,omitempty"`

	SecretKey      string `yaml:"-"`
	PublishableKey string `yaml:"-"`
}

func (p *Payments) ValidateAndNormalize() error {
	p.Currency = strings.ToLower(p.Currency)
	if p.Currency == "" {
		p.Currency = "usd"
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("invalid currency: %q", p.Currency)
	}
	if p.SecretKey == "" {
		return errors.New(EnvStripeSecretKey + " is required")
	}
	return nil
}

func (p Payments) NewProcessor() (*stripe.Processor, error) {
	return stripe.New(stripe.Options{
		SecretKey: p.SecretKey,
		Currency:  p.Currency,
		URL:       p.URL,
	})
}

// OAuth contains the Google sign-in settings. It is disabled when the
// client id is empty.
type OAuth struct {
	ClientID    string `yaml:"client-id"`
	Issuer      string `yaml:"issuer,omitempty"`
	RedirectURL string `yaml:"redirect-url,omitempty"`

	ClientSecret string `yaml:"-"`
}

func (o *OAuth) ValidateAndNormalize() error {
	if !o.Enabled() {
		return nil
	}
	if o.Issuer == "" {
		o.Issuer = oidc.GoogleIssuer
	}
	if o.ClientSecret == "" {
		return errors.New(EnvGoogleClientSecret + " is required by the client id")
	}
	return nil
}

func (o OAuth) Enabled() bool {
	return o.ClientID != ""
}

// NewProvider discovers the issuer endpoints, so it needs network
// access. It returns a nil provider if OAuth is disabled.
func (o OAuth) NewProvider(ctx context.Context) (identity.Provider, error) {
	if !o.Enabled() {
		return nil, nil
	}
	p, err := oidc.New(ctx, oidc.Options{
		Issuer:       o.Issuer,
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		RedirectURL:  o.RedirectURL,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Storage contains the uploaded images settings. Images are served
// below the routes.UploadsPrefix URL path.
type Storage struct {
	Root          string `yaml:"root"`
	MaxUploadSize int64  `yaml:"max-upload-size"` // in bytes
}

func (s *Storage) ValidateAndNormalize() error {
	if s.Root == "" {
		s.Root = "static/uploads"
	}
	if s.MaxUploadSize == 0 {
		s.MaxUploadSize = 16 << 20
	}
	if s.MaxUploadSize < 0 {
		return fmt.Errorf("invalid max-upload-size: %d", s.MaxUploadSize)
	}
	return nil
}

func (s Storage) NewStore() (*fs.Store, error) {
	return fs.New(s.Root, routes.UploadsPrefix, s.MaxUploadSize)
}
