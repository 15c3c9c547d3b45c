// Package scheduler runs the periodic jobs (booking reminders and the
// low-stock check) using the robfig/cron library.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/robfig/cron/v3"
)

// Job is a named periodic task. Run returns the number of processed
// items, which is logged after each run.
type Job struct {
	Name string
	Spec string // cron expression, e.g., "0 9 * * *"
	Run  func(ctx context.Context) (int, error)
}

// Scheduler wraps a cron.Cron whose jobs are run with a timeout and
// are recovered from panics.
type Scheduler struct {
	c       *cron.Cron
	timeout time.Duration
}

// New creates a scheduler whose job runs are cancelled after timeout
// (if it is positive).
func New(timeout time.Duration) *Scheduler {
	l := logger{}
	return &Scheduler{
		c: cron.New(cron.WithLogger(l), cron.WithChain(
			cron.Recover(l), cron.SkipIfStillRunning(l),
		)),
		timeout: timeout,
	}
}

// Add registers j. A job with an empty spec is disabled and ignored.
func (s *Scheduler) Add(j Job) error {
	if j.Spec == "" {
		log.Info(context.Background(), "job is disabled", slog.String("job", j.Name))
		return nil
	}
	_, err := s.c.AddFunc(j.Spec, func() {
		s.RunNow(context.Background(), j)
	})
	if err != nil {
		return fmt.Errorf("scheduling %q with %q: %w", j.Name, j.Spec, err)
	}
	return nil
}

// RunNow runs j once in the current goroutine and logs its outcome.
func (s *Scheduler) RunNow(ctx context.Context, j Job) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	n, err := j.Run(ctx)
	if err != nil {
		log.Error(
			ctx, "job failed",
			slog.String("job", j.Name), log.Err("err", err),
		)
		return
	}
	log.Info(
		ctx, "job finished",
		slog.String("job", j.Name), slog.Int("count", n),
		slog.Duration("elapsed", time.Since(start)),
	)
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop prevents new runs and waits for the running jobs until ctx
// is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// logger adapts the cron.Logger interface to the slog based log
// package. The cron library logs each run at the info level, which
// is demoted to debug.
type logger struct{}

func (logger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (logger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
