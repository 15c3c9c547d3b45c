// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer starts disposable postgres:16 containers for the
// integration tests. A started database comes with a connection pool
// and a migrator for the embedded schema scripts, and all of them are
// released by the test cleanup functions.
//
// A container engine must be reachable through DOCKER_HOST, e.g.
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock for podman.
// Tests are skipped when it is not set.
package dbcontainer

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/migration"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PostgresVersion is the image tag of the started containers.
const PostgresVersion = "16"

// DB is a running test database.
type DB struct {
	URL      string
	Pool     *postgres.Pool
	Migrator *migration.Migrator
}

// Available reports whether a container engine is configured.
func Available() bool {
	return os.Getenv("DOCKER_HOST") != ""
}

// Start runs a fresh database and waits until it accepts connections.
// The timeout bounds the start up, while ctx is also used for the
// shutdown. The schema is left empty (see Migrate).
func Start(ctx context.Context, t *testing.T, timeout time.Duration) *DB {
	t.Helper()
	if !Available() {
		t.Skip("DOCKER_HOST is not set")
	}
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, PostgresVersion)
	require.NoError(t, err, "starting postgres container")
	t.Cleanup(func() {
		assert.NoError(t, pg.Shutdown(ctx), "shutting down postgres container")
	})

	db := &DB{URL: pg.ConnectionString()}
	db.Pool = connect(startCtx, t, db.URL)
	t.Cleanup(func() {
		assert.NoError(t, db.Pool.Close(), "closing the connections pool")
	})
	sqlDB, err := sql.Open("pgx", db.URL)
	require.NoError(t, err, "opening migration connection")
	db.Migrator, err = migration.New(sqlDB)
	require.NoError(t, err, "creating migrator")
	t.Cleanup(func() {
		assert.NoError(t, db.Migrator.Close(), "closing migrator")
	})
	return db
}

// Migrate applies all schema migrations.
func (db *DB) Migrate(ctx context.Context, t *testing.T) {
	t.Helper()
	require.NoError(t, db.Migrator.Up(ctx), "migrating test database")
}

func connect(ctx context.Context, t *testing.T, url string) *postgres.Pool {
	t.Helper()
	for {
		p, err := postgres.NewPool(ctx, url)
		if err == nil {
			return p
		}
		if ctx.Err() != nil || !starting(err) {
			require.NoError(t, err, "connecting to test database")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// starting reports whether err is expected while the server boots.
func starting(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "57P03"
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
