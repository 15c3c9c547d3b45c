// Package reportsrp implements the repo.Reports repository.
package reportsrp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (reports *Repo) Conn(c repo.Conn) repo.ReportsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (reports *Repo) Tx(tx repo.Tx) repo.ReportsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (rq queryer[Q]) ServiceReport(ctx context.Context, bookingID int64) (*model.ServiceReport, error) {
	return ServiceReport(ctx, rq.q, bookingID)
}

func (rq queryer[Q]) Create(ctx context.Context, r *model.Report) (*model.Report, error) {
	return Create(ctx, rq.q, r)
}

func (rq queryer[Q]) SetStatus(ctx context.Context, id int64, s model.ReportStatus) error {
	return SetStatus(ctx, rq.q, id, s)
}

func (rq queryer[Q]) Stats(ctx context.Context) ([]model.ReportStat, error) {
	return Stats(ctx, rq.q)
}

type gReport struct {
	ID         int64 `gorm:"primaryKey"`
	BookingID  int64
	ReportType string
	FilePath   string
	Status     string
	CreatedAt  time.Time
}

func (gr *gReport) TableName() string {
	return "reports"
}

type gServiceReport struct {
	BookingID     int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceDate   time.Time
	ServiceName   string
	Description   string
	Price         decimal.Decimal
	Status        string
	Notes         string
	Vehicle       string
}

func ServiceReport[Q postgres.Queryer](ctx context.Context, q Q, bookingID int64) (*model.ServiceReport, error) {
	var g gServiceReport
	err := q.GORM(ctx).Table("bookings AS b").Select(`b.id AS booking_id,
	u.username AS customer_name,
	u.email AS customer_email,
	u.phone AS customer_phone,
	b.scheduled_date AS service_date,
	s.name AS service_name,
	s.description,
	s.price,
	b.status,
	b.notes,
	concat_ws(' ', v.make, v.model, '(' || v.registration_no || ')') AS vehicle`,
	).Joins(
		"JOIN users AS u ON u.id = b.user_id",
	).Joins(
		"JOIN services AS s ON s.id = b.service_id",
	).Joins(
		"JOIN vehicles AS v ON v.id = b.vehicle_id",
	).Where("b.id = ?", bookingID).Take(&g).Error
	if err != nil {
		return nil, postgres.Classify(err, fmt.Sprintf("booking %d", bookingID))
	}
	st, err := model.ParseBookingStatus(g.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	return &model.ServiceReport{
		BookingID:     g.BookingID,
		CustomerName:  g.CustomerName,
		CustomerEmail: g.CustomerEmail,
		CustomerPhone: g.CustomerPhone,
		ServiceDate:   g.ServiceDate,
		ServiceName:   g.ServiceName,
		Description:   g.Description,
		Price:         g.Price,
		Status:        st,
		Notes:         g.Notes,
		Vehicle:       strings.TrimSpace(g.Vehicle),
	}, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, r *model.Report) (*model.Report, error) {
	gr := &gReport{
		BookingID:  r.BookingID,
		ReportType: string(r.Type),
		FilePath:   r.Path,
		Status:     string(r.Status),
	}
	if err := q.GORM(ctx).Create(gr).Error; err != nil {
		return nil, postgres.Classify(err, "report")
	}
	return &model.Report{
		ID:        gr.ID,
		BookingID: gr.BookingID,
		Type:      model.ReportType(gr.ReportType),
		Path:      gr.FilePath,
		Status:    model.ReportStatus(gr.Status),
		CreatedAt: gr.CreatedAt,
	}, nil
}

func SetStatus[Q postgres.Queryer](ctx context.Context, q Q, id int64, s model.ReportStatus) error {
	res := q.GORM(ctx).Model(&gReport{}).Where("id = ?", id).Update(
		"status", string(s),
	)
	if err := res.Error; err != nil {
		return postgres.Classify(err, "report")
	}
	if res.RowsAffected != 1 {
		return cerr.NotFoundf("report %d not found", id)
	}
	return nil
}

const reportDay = "to_char(created_at, 'YYYY-MM-DD')"

// Stats counts the reports per type and creation day, newest days
// first, along with the number of reports in each delivery status.
func Stats[Q postgres.Queryer](ctx context.Context, q Q) ([]model.ReportStat, error) {
	var gg []struct {
		ReportType string
		Date       string
		Count      int64
		Generated  int64
		Sent       int64
		Downloaded int64
	}
	err := q.GORM(ctx).Model(&gReport{}).Select(
		"report_type, "+reportDay+" AS date, count(*) AS count, "+
			"count(*) FILTER (WHERE status = ?) AS generated, "+
			"count(*) FILTER (WHERE status = ?) AS sent, "+
			"count(*) FILTER (WHERE status = ?) AS downloaded",
		string(model.ReportGenerated), string(model.ReportSent),
		string(model.ReportDownloaded),
	).Group("report_type, " + reportDay).Order(
		"date DESC, report_type",
	).Scan(&gg).Error
	if err != nil {
		return nil, fmt.Errorf("counting reports: %w", err)
	}
	ss := make([]model.ReportStat, 0, len(gg))
	for _, g := range gg {
		ss = append(ss, model.ReportStat{
			Type:       model.ReportType(g.ReportType),
			Date:       g.Date,
			Count:      g.Count,
			Generated:  g.Generated,
			Sent:       g.Sent,
			Downloaded: g.Downloaded,
		})
	}
	return ss, nil
}
