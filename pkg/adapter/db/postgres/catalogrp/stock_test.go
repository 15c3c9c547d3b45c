package catalogrp_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/dbcontainer"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/catalogrp"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentDecrementsNeverOversell(t *testing.T) {
	ctx := context.Background()
	db := dbcontainer.Start(ctx, t, time.Minute)
	db.Migrate(ctx, t)
	parts := catalogrp.NewParts()

	var id int64
	err := db.Pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err := parts.Conn(c).Create(ctx, &model.CarPart{
			Name: "Brake Pad", Price: decimal.RequireFromString("20.00"),
			Stock: 5, Active: true,
		})
		if err != nil {
			return err
		}
		id = p.ID
		return nil
	})
	require.NoError(t, err)

	const buyers = 8
	var (
		wg   sync.WaitGroup
		sold atomic.Int32
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
				return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
					ok, err := parts.Tx(tx).DecrementStock(ctx, id, 2)
					if ok {
						sold.Add(1)
					}
					return err
				})
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 2, sold.Load())

	err = db.Pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err := parts.Conn(c).ByID(ctx, id)
		if err != nil {
			return err
		}
		assert.Equal(t, 1, p.Stock)
		return nil
	})
	require.NoError(t, err)
}
