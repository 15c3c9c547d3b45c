// Package reportuc contains the service report use cases.
package reportuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/render"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/futuremech/fmweb/pkg/core/storage"
)

// UseCase represents the report use cases.
type UseCase struct {
	pool     repo.Pool
	reports  repo.Reports
	renderer render.Renderer
	files    storage.FileStore
	mailer   notify.Mailer

	now func() time.Time
}

// Option is a functional option for the report use case.
type Option func(uc *UseCase) error

// WithClock option configures the time source which stamps reports.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock must be non-nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// New instantiates a report use case.
func New(
	p repo.Pool,
	reports repo.Reports,
	renderer render.Renderer,
	files storage.FileStore,
	mailer notify.Mailer,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		reports:  reports,
		renderer: renderer,
		files:    files,
		mailer:   mailer,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Generate renders the service report of the bookingID booking, keeps
// it in the reports bucket, and records it. The report is then emailed
// to the customer and, if the email could be sent, it is marked as
// sent. Failing to send the email does not fail the generation.
func (uc *UseCase) Generate(
	ctx context.Context, bookingID int64,
) (*model.Report, error) {
	var sr *model.ServiceReport
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		sr, err = uc.reports.Conn(c).ServiceReport(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading booking %d: %w", bookingID, err)
	}
	sr.GeneratedAt = uc.now()
	doc, err := uc.renderer.ServiceReport(sr)
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	path, err := uc.files.Save(ctx, storage.BucketReports, sr.FileName(), doc)
	if err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}
	var r *model.Report
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		r, err = uc.reports.Conn(c).Create(ctx, &model.Report{
			BookingID: bookingID,
			Type:      model.ServiceReportType,
			Path:      path,
			Status:    model.ReportGenerated,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recording report: %w", err)
	}
	log.Info(
		ctx, "service report generated",
		log.ID("booking", bookingID), slog.String("path", path),
	)
	if uc.send(ctx, sr, doc) {
		err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
			return uc.reports.Conn(c).SetStatus(ctx, r.ID, model.ReportSent)
		})
		if err != nil {
			log.Error(ctx, "marking report as sent failed", log.Err("err", err))
		} else {
			r.Status = model.ReportSent
		}
	}
	return r, nil
}

func (uc *UseCase) send(
	ctx context.Context, sr *model.ServiceReport, doc []byte,
) bool {
	if sr.CustomerEmail == "" {
		return false
	}
	e := notify.Compose(
		sr.CustomerEmail, "Service Report - Future Mech",
		"Your Service Report",
		"Dear "+sr.CustomerName+",",
		"Please find attached the report of your "+sr.ServiceName+
			" service ("+sr.ReportNumber()+").",
		"Thank you for choosing Future Mech.",
	)
	e.Attachment = &notify.Attachment{Name: sr.FileName(), Data: doc}
	if err := uc.mailer.Send(ctx, e); err != nil {
		log.Warn(
			ctx, "sending service report failed",
			log.ID("booking", sr.BookingID), log.Err("err", err),
		)
		return false
	}
	return true
}

// Stats counts the reports per type and creation day, newest first.
func (uc *UseCase) Stats(ctx context.Context) (st []model.ReportStat, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		st, err = uc.reports.Conn(c).Stats(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("counting reports: %w", err)
	}
	return st, nil
}
