// Package pgmock creates postgres pools whose database is replaced by
// a sqlmock instance, so the repository packages can be tested without
// a PostgreSQL server.
package pgmock

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/stretchr/testify/require"
)

// New returns a mocked pool. All expectations must be met when the
// test finishes.
func New(t *testing.T) (*postgres.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock.New")
	p, err := postgres.NewPoolFromDB(context.Background(), db)
	require.NoError(t, err, "NewPoolFromDB")
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return p, mock
}

// Conn runs f with a connection of a mocked pool.
func Conn(t *testing.T, f func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock)) {
	t.Helper()
	p, mock := New(t)
	ctx := context.Background()
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		f(ctx, c.(*postgres.Conn), mock)
		return nil
	})
	require.NoError(t, err)
}
