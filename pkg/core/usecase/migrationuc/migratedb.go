// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// MigrateDBUseCase represents the database schema migration use case.
// The migrations themselves are provided by the repo.Migrator which
// is usually backed by the SQL files which are embedded in the binary.
type MigrateDBUseCase struct {
	migrator repo.Migrator
}

// NewMigrateDB creates a MigrateDBUseCase instance which uses the mig
// migrator. Closing the migrator is left to the caller.
func NewMigrateDB(mig repo.Migrator) *MigrateDBUseCase {
	return &MigrateDBUseCase{migrator: mig}
}

// Up applies all pending migrations. An up-to-date schema is not an
// error. A dirty schema, left by a failed migration, must be fixed
// manually before the next attempt.
func (mduc *MigrateDBUseCase) Up(ctx context.Context) error {
	if err := mduc.checkClean(ctx); err != nil {
		return err
	}
	if err := mduc.migrator.Up(ctx); err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return mduc.logVersion(ctx, "database migrated up")
}

// Down reverts the last steps migrations. Reverting all migrations
// requires an explicit and positive number of steps, so a typo can
// not empty the database.
func (mduc *MigrateDBUseCase) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return cerr.BadRequestf("steps (%d) must be positive", steps)
	}
	if err := mduc.checkClean(ctx); err != nil {
		return err
	}
	if err := mduc.migrator.Down(ctx, steps); err != nil {
		return fmt.Errorf("migrating down %d steps: %w", steps, err)
	}
	return mduc.logVersion(ctx, "database migrated down")
}

// Version returns the current schema version and whether the last
// migration attempt has failed midway.
func (mduc *MigrateDBUseCase) Version(ctx context.Context) (uint, bool, error) {
	v, dirty, err := mduc.migrator.Version(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("reading schema version: %w", err)
	}
	return v, dirty, nil
}

func (mduc *MigrateDBUseCase) checkClean(ctx context.Context) error {
	v, dirty, err := mduc.Version(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", v)
	}
	return nil
}

func (mduc *MigrateDBUseCase) logVersion(ctx context.Context, msg string) error {
	v, _, err := mduc.Version(ctx)
	if err != nil {
		return err
	}
	log.Info(ctx, msg, slog.Uint64("version", uint64(v)))
	return nil
}
