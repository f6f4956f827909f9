package services

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contargo/s3sync/internal/core/domain"
)

// countingRunner records RunSync invocations.
type countingRunner struct {
	mu    stdsync.Mutex
	calls int
	err   error
}

func (r *countingRunner) RunSync(_ context.Context) (*domain.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &domain.SyncRun{ID: "run", Status: domain.StatusSuccess}, nil
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestSchedulerFiresRepeatedly(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(runner, domain.Schedule{Interval: 20 * time.Millisecond, Enabled: true})

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return runner.count() >= 2
	}, time.Second, 5*time.Millisecond, "expected at least two firings")
}

func TestSchedulerStartRejectsInvalidInterval(t *testing.T) {
	scheduler := NewScheduler(&countingRunner{}, domain.Schedule{Interval: 0, Enabled: true})

	err := scheduler.Start()
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestSchedulerDisabledDoesNotFire(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(runner, domain.Schedule{Interval: 10 * time.Millisecond, Enabled: false})

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, runner.count())
}

func TestSchedulerSkipsWhenRunInProgress(t *testing.T) {
	runner := &countingRunner{err: domain.ErrSyncInProgress}
	scheduler := NewScheduler(runner, domain.Schedule{Interval: 10 * time.Millisecond, Enabled: true})

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	// The loop keeps ticking: a skipped firing never kills the timer.
	require.Eventually(t, func() bool {
		return runner.count() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerUpdateIntervalReschedulesImmediately(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(runner, domain.Schedule{Interval: time.Hour, Enabled: true})

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	require.NoError(t, scheduler.UpdateInterval(10*time.Millisecond))

	require.Eventually(t, func() bool {
		return runner.count() >= 1
	}, time.Second, 5*time.Millisecond, "new interval must take effect without waiting out the old one")

	schedule := scheduler.Schedule()
	assert.Equal(t, 10*time.Millisecond, schedule.Interval)
	assert.True(t, schedule.Enabled)
}

func TestSchedulerUpdateIntervalRejectsNonPositive(t *testing.T) {
	scheduler := NewScheduler(&countingRunner{}, domain.Schedule{Interval: time.Hour, Enabled: true})

	assert.ErrorIs(t, scheduler.UpdateInterval(0), domain.ErrInvalidInterval)
	assert.ErrorIs(t, scheduler.UpdateInterval(-time.Second), domain.ErrInvalidInterval)
}

func TestSchedulerUpdateIntervalReenables(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(runner, domain.Schedule{Interval: time.Hour, Enabled: false})

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	require.NoError(t, scheduler.UpdateInterval(10*time.Millisecond))
	assert.True(t, scheduler.Schedule().Enabled)

	require.Eventually(t, func() bool {
		return runner.count() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerDisableStopsFirings(t *testing.T) {
	runner := &countingRunner{}
	scheduler := NewScheduler(runner, domain.Schedule{Interval: 10 * time.Millisecond, Enabled: true})

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return runner.count() >= 1
	}, time.Second, 5*time.Millisecond)

	scheduler.Disable()
	assert.False(t, scheduler.Schedule().Enabled)

	settled := runner.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, runner.count(), "no firings after disable")
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	scheduler := NewScheduler(&countingRunner{}, domain.Schedule{Interval: 10 * time.Millisecond, Enabled: true})
	require.NoError(t, scheduler.Start())

	scheduler.Stop()
	scheduler.Stop()
}
