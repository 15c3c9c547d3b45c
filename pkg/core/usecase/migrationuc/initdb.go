// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/passwd"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// Repos collects the repositories which are filled by InitDBUseCase.
type Repos struct {
	Users     repo.Users
	Services  repo.Services
	Parts     repo.Parts
	Discounts repo.Discounts
}

// Account is the username, email, and plaintext password of a seeded
// user account.
type Account struct {
	Username string
	Email    string
	Password string
}

// Default accounts which are created by InitDev.
var (
	DevAdmin = Account{"admin", "admin@futuremech.com", "admin123"}
	DevStaff = Account{"service_tech", "service@futuremech.com", "service123"}
)

// InitDBUseCase represents the database initialization use case. It
// migrates the schema to its latest version and fills it with the
// development or production suitable data as asked by the InitDev and
// InitProd methods. Rows which exist already are kept, so initializing
// a database twice is harmless.
type InitDBUseCase struct {
	migrate *MigrateDBUseCase
	pool    repo.Pool
	repos   Repos
	hasher  passwd.Hasher
}

// NewInitDB creates an InitDBUseCase instance.
func NewInitDB(
	mig repo.Migrator, p repo.Pool, repos Repos, hasher passwd.Hasher,
) *InitDBUseCase {
	return &InitDBUseCase{
		migrate: NewMigrateDB(mig),
		pool:    p,
		repos:   repos,
		hasher:  hasher,
	}
}

// InitProd migrates the schema and creates the admin account and the
// default services.
func (iduc *InitDBUseCase) InitProd(ctx context.Context, admin Account) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	switch {
	case !strings.Contains(admin.Email, "@"):
		return cerr.BadRequestf("invalid admin email %q", admin.Email)
	case len(admin.Password) < 6:
		return cerr.BadRequest(
			errors.New("admin password must be at least 6 characters"),
		)
	}
	if admin.Username == "" {
		admin.Username = "admin"
	}
	return iduc.initDB(ctx, func(ctx context.Context, tx repo.Tx) error {
		if err := iduc.seedUser(ctx, tx, admin, model.RoleAdmin); err != nil {
			return err
		}
		return iduc.seedServices(ctx, tx)
	})
}

// InitDev migrates the schema and creates the default admin and
// service staff accounts, the default services, some sample car parts,
// and the SAVE10 discount code.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(ctx, func(ctx context.Context, tx repo.Tx) error {
		if err := iduc.seedUser(ctx, tx, DevAdmin, model.RoleAdmin); err != nil {
			return err
		}
		if err := iduc.seedUser(ctx, tx, DevStaff, model.RoleService); err != nil {
			return err
		}
		if err := iduc.seedServices(ctx, tx); err != nil {
			return err
		}
		if err := iduc.seedParts(ctx, tx); err != nil {
			return err
		}
		return iduc.seedDiscount(ctx, tx)
	})
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context, seed func(context.Context, repo.Tx) error,
) error {
	if err := iduc.migrate.Up(ctx); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	err := iduc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, seed)
	})
	if err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	return nil
}

func (iduc *InitDBUseCase) seedUser(
	ctx context.Context, tx repo.Tx, a Account, r model.Role,
) error {
	q := iduc.repos.Users.Tx(tx)
	_, err := q.ByEmail(ctx, a.Email)
	switch {
	case err == nil:
		log.Info(ctx, "account exists", log.Email("email", a.Email))
		return nil
	case !cerr.IsNotFound(err):
		return fmt.Errorf("finding %q account: %w", a.Username, err)
	}
	hash, err := iduc.hasher.Hash(a.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = q.Create(ctx, &model.User{
		Username:      a.Username,
		Email:         a.Email,
		PasswordHash:  hash,
		Role:          r,
		Active:        true,
		EmailVerified: true,
	})
	if err != nil {
		return fmt.Errorf("creating %q account: %w", a.Username, err)
	}
	log.Info(
		ctx, "account created",
		log.Email("email", a.Email), slog.String("role", r.String()),
	)
	return nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultServices are the services which a new database offers.
var DefaultServices = []model.Service{
	{
		Name: "Pre-Depth Inspection (PDI)", Description: "Comprehensive vehicle inspection",
		Price: price("149.99"), Duration: 120, ServiceType: "inspection",
		Featured: true,
	},
	{
		Name: "Second-Hand Insurance (SCI)", Description: "Insurance for pre-owned vehicles",
		Price: price("299.99"), Duration: 60, ServiceType: "insurance",
		Featured: true,
	},
	{
		Name: "Basic Suspension Inspection (BSI)", Description: "Suspension component check",
		Price: price("89.99"), Duration: 45, ServiceType: "inspection",
	},
	{
		Name: "Detailing Package", Description: "Complete cleaning and waxing",
		Price: price("199.99"), Duration: 180, ServiceType: "detailing",
	},
	{
		Name: "HPA SOS (Battery & Tow)", Description: "Emergency services",
		Price: price("79.99"), Duration: 30, ServiceType: "emergency",
	},
}

func (iduc *InitDBUseCase) seedServices(ctx context.Context, tx repo.Tx) error {
	q := iduc.repos.Services.Tx(tx)
	ss, err := q.List(ctx, model.ServiceFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("listing services: %w", err)
	}
	if len(ss) > 0 {
		return nil
	}
	for _, s := range DefaultServices {
		s.Active = true
		if _, err := q.Create(ctx, &s); err != nil {
			return fmt.Errorf("creating %q service: %w", s.Name, err)
		}
	}
	log.Info(ctx, "default services created", slog.Int("count", len(DefaultServices)))
	return nil
}

// SampleParts are the car parts of a development database.
var SampleParts = []model.CarPart{
	{
		Name: "Engine Oil Filter", Description: "Spin-on oil filter",
		Price: price("12.99"), Stock: 40, Category: "Filters",
		Brand: "Bosch", PartNumber: "F026407", Compatibility: "Most petrol engines",
	},
	{
		Name: "Cabin Air Filter", Description: "Activated carbon cabin filter",
		Price: price("18.50"), Stock: 25, Category: "Filters",
		Brand: "Mann", PartNumber: "CUK2939",
	},
	{
		Name: "Front Brake Pads", Description: "Ceramic brake pad set",
		Price: price("54.00"), Stock: 12, Category: "Brakes",
		Brand: "Brembo", PartNumber: "P85020",
	},
	{
		Name: "Spark Plug Set", Description: "Iridium spark plugs, set of four",
		Price: price("39.90"), Stock: 4, Category: "Ignition",
		Brand: "NGK", PartNumber: "ILZKR7B11",
	},
	{
		Name: "Wiper Blades", Description: "All-season wiper blade pair",
		Price: price("22.00"), Stock: 30, Category: "Accessories",
		Brand: "Valeo",
	},
}

func (iduc *InitDBUseCase) seedParts(ctx context.Context, tx repo.Tx) error {
	q := iduc.repos.Parts.Tx(tx)
	pp, err := q.List(ctx, model.PartFilter{})
	if err != nil {
		return fmt.Errorf("listing parts: %w", err)
	}
	if len(pp) > 0 {
		return nil
	}
	for _, p := range SampleParts {
		p.Active = true
		if _, err := q.Create(ctx, &p); err != nil {
			return fmt.Errorf("creating %q part: %w", p.Name, err)
		}
	}
	return nil
}

func (iduc *InitDBUseCase) seedDiscount(ctx context.Context, tx repo.Tx) error {
	q := iduc.repos.Discounts.Tx(tx)
	_, err := q.ByCode(ctx, "SAVE10")
	switch {
	case err == nil:
		return nil
	case !cerr.IsNotFound(err):
		return fmt.Errorf("finding SAVE10: %w", err)
	}
	_, err = q.Create(ctx, &model.Discount{
		Code:   "SAVE10",
		Type:   model.DiscountPercentage,
		Value:  decimal.NewFromInt(10),
		Active: true,
	})
	if err != nil {
		return fmt.Errorf("creating SAVE10: %w", err)
	}
	return nil
}
