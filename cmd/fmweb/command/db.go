// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/catalogrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/ordersrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/usersrp"
	"github.com/futuremech/fmweb/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used. They apply all migrations and
then insert the initial records. For upgrade or downgrade of an
existing installation, the migrate may be used.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate up|down [steps]",
	Short: "Apply or revert the database schema migrations",
	Long: `Apply all pending migrations (up) or revert the given number
of the last applied migrations (down, one step by default).
A database whose last migration has failed is reported as dirty and
must be fixed manually before running the migrations again.`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"up", "down"},
	RunE:      migrate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the database schema version",
	Args:  cobra.NoArgs,
	RunE:  version,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data,
including well-known admin, service staff, and client accounts, some
services and car parts, and a discount code.
The database must be empty.`,
	Args: cobra.NoArgs,
	RunE: initDev,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data,
which is just one admin account with the given credentials.
The database must be empty.`,
	Args: cobra.NoArgs,
	RunE: initProd,
}

var admin migrationuc.Account

func withMigrator(
	ctx context.Context, f func(*migrationuc.MigrateDBUseCase) error,
) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	mig, err := c.Database.Migrator(ctx)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer mig.Close()
	return f(migrationuc.NewMigrateDB(mig))
}

func migrate(cmd *cobra.Command, args []string) error {
	return withMigrator(cmd.Context(), func(
		muc *migrationuc.MigrateDBUseCase,
	) error {
		switch args[0] {
		case "up":
			if len(args) > 1 {
				return errors.New("up does not take steps")
			}
			return muc.Up(cmd.Context())
		case "down":
			steps := 1
			if len(args) > 1 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("parsing steps: %w", err)
				}
				steps = n
			}
			return muc.Down(cmd.Context(), steps)
		default:
			return fmt.Errorf("unknown direction: %q", args[0])
		}
	})
}

func version(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd.Context(), func(
		muc *migrationuc.MigrateDBUseCase,
	) error {
		v, dirty, err := muc.Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %t\n", v, dirty)
		return nil
	})
}

func newInitDB(
	ctx context.Context,
	f func(context.Context, *migrationuc.InitDBUseCase) error,
) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	mig, err := c.Database.Migrator(ctx)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer mig.Close()
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	hasher, err := c.Passwords.NewHasher()
	if err != nil {
		return fmt.Errorf("creating password hasher: %w", err)
	}
	iduc := migrationuc.NewInitDB(mig, p, migrationuc.Repos{
		Users:     usersrp.New(),
		Services:  catalogrp.NewServices(),
		Parts:     catalogrp.NewParts(),
		Discounts: ordersrp.NewDiscounts(),
	}, hasher)
	return f(ctx, iduc)
}

func initDev(cmd *cobra.Command, _ []string) error {
	err := newInitDB(cmd.Context(), func(
		ctx context.Context, iduc *migrationuc.InitDBUseCase,
	) error {
		return iduc.InitDev(ctx)
	})
	if err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func initProd(cmd *cobra.Command, _ []string) error {
	err := newInitDB(cmd.Context(), func(
		ctx context.Context, iduc *migrationuc.InitDBUseCase,
	) error {
		return iduc.InitProd(ctx, admin)
	})
	if err != nil {
		return fmt.Errorf("initializing DB with prod data: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(migrateCmd, versionCmd, initDevCmd, initProdCmd)
	f := initProdCmd.Flags()
	f.StringVar(&admin.Username, "admin-username", "admin", "admin username")
	f.StringVar(&admin.Email, "admin-email", "", "admin email address")
	f.StringVar(&admin.Password, "admin-password", "", "admin password")
	_ = initProdCmd.MarkFlagRequired("admin-email")
	_ = initProdCmd.MarkFlagRequired("admin-password")
}
