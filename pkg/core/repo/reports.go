package repo

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// ReportsQueryer manages the generated report records.
type ReportsQueryer interface {
	// ServiceReport reads the joined booking, customer, vehicle, and
	// service data which is rendered as a service report.
	ServiceReport(ctx context.Context, bookingID int64) (
		*model.ServiceReport, error,
	)
	Create(ctx context.Context, r *model.Report) (*model.Report, error)
	SetStatus(ctx context.Context, id int64, s model.ReportStatus) error
	Stats(ctx context.Context) ([]model.ReportStat, error)
}

type Reports interface {
	Conn(Conn) ReportsQueryer
	Tx(Tx) ReportsQueryer
}
