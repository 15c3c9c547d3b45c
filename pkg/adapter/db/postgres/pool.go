package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/futuremech/fmweb/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool is a database connection pool.
type Pool struct {
	*gorm.DB
}

// PoolOptions tunes the connection pool and the query logging.
// Zero values keep the driver defaults.
type PoolOptions struct {
	MaxOpenConns  int
	MaxIdleConns  int
	SlowThreshold time.Duration
}

// NewPool connects to the url database and checks the connection.
func NewPool(ctx context.Context, url string, opts ...PoolOptions) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	return newPool(ctx, gdb, opts...)
}

// NewPoolFromDB wraps an opened *sql.DB, e.g., a mocked one.
func NewPoolFromDB(ctx context.Context, db *sql.DB, opts ...PoolOptions) (*Pool, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	return newPool(ctx, gdb, opts...)
}

func newPool(ctx context.Context, gdb *gorm.DB, opts ...PoolOptions) (*Pool, error) {
	var po PoolOptions
	if len(opts) > 0 {
		po = opts[0]
	}
	if po.SlowThreshold == 0 {
		po.SlowThreshold = 200 * time.Millisecond
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
				SlowThreshold:             po.SlowThreshold,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			}),
	})
	if db, err := gdb.DB(); err == nil {
		if po.MaxOpenConns > 0 {
			db.SetMaxOpenConns(po.MaxOpenConns)
		}
		if po.MaxIdleConns > 0 {
			db.SetMaxIdleConns(po.MaxIdleConns)
		}
	}
	pool := &Pool{DB: gdb}
	err := pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection and passes it to f. The connection is
// released when f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of the pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
