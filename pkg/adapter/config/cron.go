package config

import (
	"context"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/config/settings"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/ratelimit"
	"github.com/futuremech/fmweb/pkg/adapter/scheduler"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/robfig/cron/v3"
)

// Cron contains the periodic jobs schedules, in the standard five
// fields cron format. A "-" schedule disables its job.
type Cron struct {
	Reminders string             `yaml:"reminders"`
	LowStock  string             `yaml:"low-stock"`
	Sweep     string             `yaml:"rate-limit-sweep"`
	Timeout   *settings.Duration `yaml:"timeout"`
}

func (c *Cron) ValidateAndNormalize() error {
	for _, s := range []struct {
		name string
		spec *string
		def  string
	}{
		{"reminders", &c.Reminders, "0 9 * * *"},
		{"low-stock", &c.LowStock, "0 8 * * *"},
		{"rate-limit-sweep", &c.Sweep, "*/15 * * * *"},
	} {
		switch *s.spec {
		case "":
			*s.spec = s.def
		case "-":
			continue
		}
		if _, err := cron.ParseStandard(*s.spec); err != nil {
			return fmt.Errorf("%s=%q: %w", s.name, *s.spec, err)
		}
	}
	settings.Nil2Default(&c.Timeout, settings.Duration(5*time.Minute))
	if err := settings.VerifyRange(
		&c.Timeout, settings.Ptr(settings.Duration(time.Second)), nil,
	); err != nil {
		return fmt.Errorf("timeout=%v: %w", err.Value, err)
	}
	return nil
}

func spec(s string) string {
	if s == "-" {
		return ""
	}
	return s
}

// NewScheduler creates a scheduler which runs the jobs of app. The use
// cases are fetched from app on each run, so a Reload is respected.
// The limiter may be nil.
func (c Cron) NewScheduler(
	app *appuc.UseCase, limiter *ratelimit.Limiter,
) (*scheduler.Scheduler, error) {
	s := scheduler.New(c.Timeout.Std())
	for _, j := range c.Jobs(app, limiter) {
		if err := s.Add(j); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Jobs lists the periodic jobs of app.
func (c Cron) Jobs(
	app *appuc.UseCase, limiter *ratelimit.Limiter,
) []scheduler.Job {
	jobs := []scheduler.Job{
		{
			Name: "booking-reminders",
			Spec: spec(c.Reminders),
			Run: func(ctx context.Context) (int, error) {
				return app.BookingUseCase().SendReminders(ctx)
			},
		},
		{
			Name: "low-stock-check",
			Spec: spec(c.LowStock),
			Run: func(ctx context.Context) (int, error) {
				return app.CatalogUseCase().LowStockCheck(ctx)
			},
		},
	}
	if limiter != nil {
		jobs = append(jobs, scheduler.Job{
			Name: "rate-limit-sweep",
			Spec: spec(c.Sweep),
			Run: func(context.Context) (int, error) {
				return limiter.Sweep(), nil
			},
		})
	}
	return jobs
}
