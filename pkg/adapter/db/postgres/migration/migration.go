// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration implements the repo.Migrator interface using the
// golang-migrate library. The versioned SQL scripts are embedded in
// the binary from the sql directory, so the fmweb executable is able
// to create or upgrade its database schema without further files.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var scripts embed.FS

// MigrationsTable is the name of the table which keeps the current
// schema version and its dirty flag.
const MigrationsTable = "schema_migrations"

// Migrator wraps a migrate.Migrate instance which runs the embedded
// scripts against one database.
type Migrator struct {
	m *migrate.Migrate
}

// New creates a Migrator for the db database handle. The Migrator
// takes the ownership of db and closes it in its Close method.
func New(db *sql.DB) (*Migrator, error) {
	src, err := iofs.New(scripts, "sql")
	if err != nil {
		return nil, fmt.Errorf("opening embedded scripts: %w", err)
	}
	drv, err := pgx.WithInstance(db, &pgx.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}
	m.Log = logger{}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. An up-to-date schema is not an
// error.
func (mig *Migrator) Up(ctx context.Context) error {
	stop := mig.watch(ctx)
	defer stop()
	if err := mig.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

// Down reverts the last steps migrations.
func (mig *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid steps: %d", steps)
	}
	stop := mig.watch(ctx)
	defer stop()
	if err := mig.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating down %d steps: %w", steps, err)
	}
	return nil
}

// Version returns the current schema version. A database without any
// applied migration has the zero version.
func (mig *Migrator) Version(context.Context) (uint, bool, error) {
	v, dirty, err := mig.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading schema version: %w", err)
	}
	return v, dirty, nil
}

// Close releases the embedded source and the database handle.
func (mig *Migrator) Close() error {
	srcErr, dbErr := mig.m.Close()
	return errors.Join(srcErr, dbErr)
}

// watch asks the running migration to stop gracefully (after its
// current script) when ctx is cancelled. The returned function must
// be called after the migration returns.
func (mig *Migrator) watch(ctx context.Context) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			select {
			case mig.m.GracefulStop <- true:
			default:
			}
		case <-done:
		}
	}()
	return func() { close(done) }
}

type logger struct{}

func (logger) Printf(format string, v ...any) {
	log.Debug(context.Background(), fmt.Sprintf(format, v...))
}

func (logger) Verbose() bool {
	return false
}
