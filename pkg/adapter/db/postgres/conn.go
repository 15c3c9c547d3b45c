package postgres

import (
	"context"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn is a database connection which is acquired from a Pool.
// It may be used by one goroutine at a time.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx begins a transaction and passes it to f. The transaction is
// committed if f returns nil and rolled back if it fails or panics.
// Errors which are classified by the cerr package keep their status
// code after being wrapped here.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.DB.WithContext(ctx).Begin()
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		r := recover()
		if r == nil && err == nil {
			if err = tx.Commit().Error; err != nil {
				err = fmt.Errorf("commit: %w", err)
			}
			return
		}
		if r != nil {
			err = fmt.Errorf("panicked: %v", r)
		}
		if rbErr := tx.Rollback().Error; rbErr != nil {
			log.Error(ctx, "rollback failed", log.Err("err", rbErr))
			err = fmt.Errorf("%w, rollback: %w", err, rbErr)
			return
		}
		log.Debug(ctx, "transaction is rolled back", log.Err("cause", err))
	}()
	return f(ctx, &Tx{DB: tx})
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(c.DB.WithContext(ctx), sql, args)
}

func (c *Conn) IsConn() {
}

func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
