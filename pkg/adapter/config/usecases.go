// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/config/settings"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/authuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/bookinguc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cartuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cataloguc"
	"github.com/futuremech/fmweb/pkg/core/usecase/dashboarduc"
	"github.com/futuremech/fmweb/pkg/core/usecase/notificationuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/paymentuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/reportuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/vehicleuc"
)

var _ appuc.Builder = (*Config)(nil)

// Usecases contains the configuration settings for all use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. Missing items are left to the defaults
// of their use cases.
type Usecases struct {
	Auth          Auth          `yaml:"auth"`
	Catalog       Catalog       `yaml:"catalog"`
	Cart          Cart          `yaml:"cart"`
	Bookings      Bookings      `yaml:"bookings"`
	Dashboard     Dashboard     `yaml:"dashboard"`
	Notifications Notifications `yaml:"notifications"`
}

func (u *Usecases) ValidateAndNormalize() error {
	for _, s := range []struct {
		name string
		vn   interface{ ValidateAndNormalize() error }
	}{
		{"auth", &u.Auth},
		{"catalog", &u.Catalog},
		{"cart", &u.Cart},
		{"bookings", &u.Bookings},
		{"dashboard", &u.Dashboard},
		{"notifications", &u.Notifications},
	} {
		if err := s.vn.ValidateAndNormalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// Auth contains the authentication use case settings.
type Auth struct {
	// ResetTokenTTL indicates how long a password reset link is valid.
	ResetTokenTTL *settings.Duration `yaml:"reset-token-ttl,omitempty"`
}

func (a *Auth) ValidateAndNormalize() error {
	err := settings.VerifyRange(
		&a.ResetTokenTTL,
		settings.Ptr(settings.Duration(time.Minute)),
		settings.Ptr(settings.Duration(24*time.Hour)),
	)
	if err != nil {
		return fmt.Errorf("reset-token-ttl=%v: %w", err.Value, err)
	}
	return nil
}

// Catalog contains the services and car parts catalog settings.
type Catalog struct {
	// HomeLimit is the number of featured services on the home page.
	HomeLimit *int `yaml:"home-limit,omitempty"`
	// LowStockThreshold is the stock level at or below which the
	// admins are notified by the low-stock job.
	LowStockThreshold *int `yaml:"low-stock-threshold,omitempty"`
}

func (c *Catalog) ValidateAndNormalize() error {
	if err := settings.VerifyRange(
		&c.HomeLimit, settings.Ptr(1), settings.Ptr(50),
	); err != nil {
		return fmt.Errorf("home-limit=%d: %w", *err.Value, err)
	}
	if err := settings.VerifyRange(
		&c.LowStockThreshold, settings.Ptr(0), nil,
	); err != nil {
		return fmt.Errorf("low-stock-threshold=%d: %w", *err.Value, err)
	}
	return nil
}

// Cart contains the shopping cart settings.
type Cart struct {
	// MaxLineQuantity caps a single cart line. When it is unset, a line
	// is only bounded by the part stock.
	MaxLineQuantity *int `yaml:"max-line-quantity,omitempty"`
}

func (c *Cart) ValidateAndNormalize() error {
	if err := settings.VerifyRange(
		&c.MaxLineQuantity, settings.Ptr(1), nil,
	); err != nil {
		return fmt.Errorf("max-line-quantity=%d: %w", *err.Value, err)
	}
	return nil
}

// Bookings contains the booking workflow settings.
type Bookings struct {
	// EnforceTransitions makes the service staff follow the booking
	// workflow while admins may set any status. It is true by default.
	EnforceTransitions *bool `yaml:"enforce-transitions"`
}

func (b *Bookings) ValidateAndNormalize() error {
	settings.Nil2Default(&b.EnforceTransitions, true)
	return nil
}

// Dashboard contains the dashboards list sizes.
type Dashboard struct {
	ClientListSize *int `yaml:"client-list-size,omitempty"`
	RecentListSize *int `yaml:"recent-list-size,omitempty"`
}

func (d *Dashboard) ValidateAndNormalize() error {
	settings.Nil2Default(&d.ClientListSize, 10)
	settings.Nil2Default(&d.RecentListSize, 5)
	for _, v := range []struct {
		name string
		n    **int
	}{
		{"client-list-size", &d.ClientListSize},
		{"recent-list-size", &d.RecentListSize},
	} {
		err := settings.VerifyRange(v.n, settings.Ptr(1), settings.Ptr(100))
		if err != nil {
			return fmt.Errorf("%s=%d: %w", v.name, *err.Value, err)
		}
	}
	return nil
}

type Notifications struct {
	UnreadLimit *int `yaml:"unread-limit,omitempty"`
}

func (n *Notifications) ValidateAndNormalize() error {
	if err := settings.VerifyRange(
		&n.UnreadLimit, settings.Ptr(1), settings.Ptr(100),
	); err != nil {
		return fmt.Errorf("unread-limit=%d: %w", *err.Value, err)
	}
	return nil
}

// NewAuthUseCase instantiates a new authentication use case based on
// the settings in the c struct. The password reset emails link to the
// gin base URL.
func (c *Config) NewAuthUseCase(
	p repo.Pool, r *appuc.Repos, d *appuc.Deps,
) (*authuc.UseCase, error) {
	opts := []authuc.Option{authuc.WithBaseURL(c.Gin.BaseURL)}
	if ttl := c.Usecases.Auth.ResetTokenTTL; ttl != nil {
		opts = append(opts, authuc.WithResetTokenTTL(ttl.Std()))
	}
	if d.Identity != nil {
		opts = append(opts, authuc.WithIdentityProvider(d.Identity))
	}
	return authuc.New(p, r.Users, r.ResetTokens, d.Hasher, d.Mailer, opts...)
}

func (c *Config) NewCatalogUseCase(
	p repo.Pool, r *appuc.Repos, d *appuc.Deps,
) (*cataloguc.UseCase, error) {
	cs := c.Usecases.Catalog
	opts := make([]cataloguc.Option, 0, 2)
	if cs.HomeLimit != nil {
		opts = append(opts, cataloguc.WithHomeLimit(*cs.HomeLimit))
	}
	if cs.LowStockThreshold != nil {
		opts = append(
			opts, cataloguc.WithLowStockThreshold(*cs.LowStockThreshold),
		)
	}
	return cataloguc.New(
		p, r.Services, r.Parts, r.Notifications, d.Files, opts...,
	)
}

func (c *Config) NewCartUseCase(
	p repo.Pool, r *appuc.Repos, _ *appuc.Deps,
) (*cartuc.UseCase, error) {
	var opts []cartuc.Option
	if n := c.Usecases.Cart.MaxLineQuantity; n != nil {
		opts = append(opts, cartuc.WithMaxLineQuantity(*n))
	}
	return cartuc.New(
		p, r.Parts, r.Discounts, r.Orders, r.Payments, r.Notifications,
		r.Carts, opts...,
	)
}

// NewBookingUseCase instantiates a new bookings use case. The SMS
// reminders are sent only if an SMS sender is configured.
func (c *Config) NewBookingUseCase(
	p repo.Pool, r *appuc.Repos, d *appuc.Deps,
) (*bookinguc.UseCase, error) {
	var opts []bookinguc.Option
	if d.SMS != nil {
		opts = append(opts, bookinguc.WithSMS(d.SMS))
	}
	if !*c.Usecases.Bookings.EnforceTransitions {
		opts = append(opts, bookinguc.WithFreeTransitions())
	}
	return bookinguc.New(
		p, r.Bookings, r.Services, r.Vehicles, r.Users, r.Payments,
		r.Notifications, d.Mailer, opts...,
	)
}

func (c *Config) NewVehicleUseCase(
	p repo.Pool, r *appuc.Repos, _ *appuc.Deps,
) (*vehicleuc.UseCase, error) {
	return vehicleuc.New(p, r.Vehicles)
}

func (c *Config) NewPaymentUseCase(
	p repo.Pool, r *appuc.Repos, d *appuc.Deps,
) (*paymentuc.UseCase, error) {
	var opts []paymentuc.Option
	if k := c.Payments.PublishableKey; k != "" {
		opts = append(opts, paymentuc.WithPublishableKey(k))
	}
	return paymentuc.New(
		p, r.Bookings, r.Orders, r.Payments, d.Processor, d.Mailer,
		opts...,
	)
}

func (c *Config) NewNotificationUseCase(
	p repo.Pool, r *appuc.Repos, d *appuc.Deps,
) (*notificationuc.UseCase, error) {
	var opts []notificationuc.Option
	if n := c.Usecases.Notifications.UnreadLimit; n != nil {
		opts = append(opts, notificationuc.WithUnreadLimit(*n))
	}
	if a := c.Mail.AdminMailbox; a != "" {
		opts = append(opts, notificationuc.WithAdminMailbox(a))
	}
	return notificationuc.New(
		p, r.Notifications, r.Contacts, d.Mailer, opts...,
	)
}

func (c *Config) NewDashboardUseCase(
	p repo.Pool, r *appuc.Repos, _ *appuc.Deps,
) (*dashboarduc.UseCase, error) {
	ds := c.Usecases.Dashboard
	return dashboarduc.New(
		p, r.Users, r.Bookings, r.Orders,
		dashboarduc.WithListSizes(*ds.ClientListSize, *ds.RecentListSize),
	)
}

func (c *Config) NewReportUseCase(
	p repo.Pool, r *appuc.Repos, d *appuc.Deps,
) (*reportuc.UseCase, error) {
	return reportuc.New(p, r.Reports, d.Renderer, d.Files, d.Mailer)
}
