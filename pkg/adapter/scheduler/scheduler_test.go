package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddValidatesSpec(t *testing.T) {
	s := scheduler.New(time.Second)
	noop := func(context.Context) (int, error) { return 0, nil }
	assert.Error(t, s.Add(scheduler.Job{Name: "bad", Spec: "every day", Run: noop}))
	assert.NoError(t, s.Add(scheduler.Job{Name: "off", Run: noop}))
	assert.NoError(t, s.Add(scheduler.Job{Name: "daily", Spec: "0 9 * * *", Run: noop}))
}

func TestRunNowAppliesTimeout(t *testing.T) {
	s := scheduler.New(10 * time.Millisecond)
	var sawDeadline atomic.Bool
	s.RunNow(context.Background(), scheduler.Job{
		Name: "slow",
		Run: func(ctx context.Context) (int, error) {
			<-ctx.Done()
			sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return 0, ctx.Err()
		},
	})
	assert.True(t, sawDeadline.Load())
}

func TestScheduledRuns(t *testing.T) {
	s := scheduler.New(time.Second)
	var runs atomic.Int32
	require.NoError(t, s.Add(scheduler.Job{
		Name: "tick",
		Spec: "@every 1s",
		Run: func(context.Context) (int, error) {
			runs.Add(1)
			return 1, nil
		},
	}))
	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}
