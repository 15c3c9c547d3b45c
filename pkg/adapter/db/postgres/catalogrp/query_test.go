package catalogrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/futuremech/fmweb/internal/test/pgmock"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/catalogrp"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrementStock(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectExec(`UPDATE car_parts`).WithArgs(
			2, int64(7), 2,
		).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE car_parts`).WithArgs(
			5, int64(7), 5,
		).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := catalogrp.DecrementStock(ctx, c, 7, 2)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = catalogrp.DecrementStock(ctx, c, 7, 5)
		require.NoError(t, err)
		assert.False(t, ok, "insufficient stock must not update the part")
	})
}

func TestListServicesFeaturedFirst(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "name", "price", "duration", "is_active", "is_featured",
			"created_at",
		}).AddRow(
			2, "Safety Check", "49.99", 60, true, true, now,
		).AddRow(
			1, "Oil Change", "29.50", 30, true, false, now,
		)
		mock.ExpectQuery(
			`SELECT \* FROM "services" WHERE is_active ORDER BY is_featured DESC,name LIMIT`,
		).WillReturnRows(rows)

		ss, err := catalogrp.ListServices(ctx, c, model.ServiceFilter{
			ActiveOnly: true, FeaturedFirst: true, Limit: 6,
		})
		require.NoError(t, err)
		require.Len(t, ss, 2)
		assert.Equal(t, "Safety Check", ss[0].Name)
		assert.True(t, ss[0].Featured)
		assert.Equal(t, "29.5", ss[1].Price.String())
	})
}

func TestServiceNotFound(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT \* FROM "services" WHERE id = \$1 LIMIT 1`).WithArgs(
			int64(9),
		).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := catalogrp.ServiceByID(ctx, c, 9)
		assert.True(t, cerr.IsNotFound(err), "got %v", err)
	})
}

func TestListPartsEscapesSearch(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectQuery(
			`SELECT \* FROM "car_parts" WHERE is_active AND category = \$1 AND \(name ILIKE \$2 OR description ILIKE \$3\) ORDER BY name`,
		).WithArgs(
			"Filters", `%50\%%`, `%50\%%`,
		).WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "price", "stock_quantity", "category", "is_active",
		}).AddRow(3, "Oil Filter 50%", "9.99", 4, "Filters", true))

		pp, err := catalogrp.ListParts(ctx, c, model.PartFilter{
			ActiveOnly: true, Category: "Filters", Search: "50%",
		})
		require.NoError(t, err)
		require.Len(t, pp, 1)
		assert.Equal(t, 4, pp[0].Stock)
	})
}

func TestDeleteMissingPart(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "car_parts" WHERE id = \$1`).WithArgs(
			int64(4),
		).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := catalogrp.NewParts().Conn(c).Delete(ctx, 4)
		assert.True(t, cerr.IsNotFound(err), "got %v", err)
	})
}
