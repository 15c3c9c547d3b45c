package ordersrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/futuremech/fmweb/internal/test/pgmock"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/ordersrp"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueOfPaidOrders(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(
			`SELECT coalesce\(sum\(total_price\), 0\) FROM "orders" WHERE payment_status = \$1$`,
		).WithArgs("paid").WillReturnRows(
			sqlmock.NewRows([]string{"coalesce"}).AddRow("125.50"),
		)
		mock.ExpectQuery(
			`SELECT coalesce\(sum\(total_price\), 0\) FROM "orders" WHERE payment_status = \$1 AND created_at >= \$2`,
		).WithArgs("paid", since).WillReturnRows(
			sqlmock.NewRows([]string{"coalesce"}).AddRow("0"),
		)

		sum, err := ordersrp.Revenue(ctx, c, nil)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("125.5").Equal(sum))

		sum, err = ordersrp.Revenue(ctx, c, &since)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}

func TestRedeemRechecksUsability(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		today := time.Date(2024, 5, 10, 16, 0, 0, 0, time.UTC)
		for _, n := range []int64{1, 0} {
			mock.ExpectBegin()
			mock.ExpectExec(
				`UPDATE "discount_codes" SET "used_count"=used_count \+ 1 WHERE .*usage_limit.*expiry_date >= \$1.* AND id = \$2`,
			).WithArgs(model.DateOf(today), int64(3)).WillReturnResult(
				sqlmock.NewResult(0, n),
			)
			mock.ExpectCommit()
		}

		ok, err := ordersrp.Redeem(ctx, c, 3, today)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = ordersrp.Redeem(ctx, c, 3, today)
		require.NoError(t, err)
		assert.False(t, ok, "an exhausted discount must not be redeemed")
	})
}

func TestDuplicateDiscountCode(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "discount_codes"`).WillReturnError(
			&pgconn.PgError{Code: postgres.UniqueViolation},
		)
		mock.ExpectRollback()

		_, err := ordersrp.CreateDiscount(ctx, c, &model.Discount{
			Code:  "SAVE10",
			Type:  model.DiscountPercentage,
			Value: decimal.NewFromInt(10),
		})
		assert.True(t, cerr.Is(err, 409), "got %v", err)
		assert.ErrorContains(t, err, "SAVE10")
	})
}

func TestCompleteSkipsFinishedPayment(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectQuery(
			`SELECT \* FROM "payments" WHERE order_id = \$1 ORDER BY id DESC LIMIT 1`,
		).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "amount", "payment_method", "status",
		}).AddRow(11, 5, "20.00", "stripe", "completed"))

		ok, err := ordersrp.Complete(ctx, c, model.PaymentTarget{
			Kind: model.TargetOrder, ID: 5,
		}, "pi_123")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPaymentUnknownTarget(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, _ sqlmock.Sqlmock) {
		_, err := ordersrp.PaymentByTarget(ctx, c, model.PaymentTarget{
			Kind: "invoice", ID: 1,
		})
		assert.ErrorIs(t, err, model.ErrUnknownTargetKind)
	})
}
