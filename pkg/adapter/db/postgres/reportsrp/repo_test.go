package reportsrp_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/futuremech/fmweb/internal/test/pgmock"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/reportsrp"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsPerTypeAndDay(t *testing.T) {
	pgmock.Conn(t, func(ctx context.Context, c *postgres.Conn, mock sqlmock.Sqlmock) {
		mock.ExpectQuery(
			`SELECT report_type, to_char\(created_at, 'YYYY-MM-DD'\) AS date, count\(\*\) AS count, ` +
				`count\(\*\) FILTER \(WHERE status = \$1\) AS generated, ` +
				`count\(\*\) FILTER \(WHERE status = \$2\) AS sent, ` +
				`count\(\*\) FILTER \(WHERE status = \$3\) AS downloaded ` +
				`FROM "reports" GROUP BY report_type, to_char\(created_at, 'YYYY-MM-DD'\) ` +
				`ORDER BY date DESC, report_type`,
		).WithArgs("generated", "sent", "downloaded").WillReturnRows(
			sqlmock.NewRows([]string{
				"report_type", "date", "count", "generated", "sent", "downloaded",
			}).AddRow(
				"service", "2024-03-05", 2, 0, 2, 0,
			).AddRow(
				"service", "2024-03-04", 3, 1, 1, 1,
			),
		)

		ss, err := reportsrp.Stats(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, []model.ReportStat{
			{Type: model.ServiceReportType, Date: "2024-03-05", Count: 2, Sent: 2},
			{
				Type: model.ServiceReportType, Date: "2024-03-04", Count: 3,
				Generated: 1, Sent: 1, Downloaded: 1,
			},
		}, ss)
	})
}
