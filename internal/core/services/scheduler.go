package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driving"
	"github.com/contargo/s3sync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.ScheduleController = (*Scheduler)(nil)

// Scheduler manages periodic execution of the sync run.
// It supports enabling/disabling and live updates to the interval; an
// interval update replaces the pending timer immediately instead of
// waiting out the old period.
//
// Firings are strictly sequential within one timer loop. Overlap with a
// manual trigger is resolved by the orchestrator's in-flight guard: a
// firing that finds a run already executing is skipped with a warning,
// never queued.
type Scheduler struct {
	runner driving.SyncRunner

	mu       sync.Mutex
	schedule domain.Schedule
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler with the configured schedule.
func NewScheduler(runner driving.SyncRunner, schedule domain.Schedule) *Scheduler {
	return &Scheduler{runner: runner, schedule: schedule}
}

// Start validates the configuration and schedules the recurring timer
// if the scheduler is enabled. Disabled schedulers accept manual runs
// and later re-enabling through UpdateInterval.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule.Interval <= 0 {
		return domain.ErrInvalidInterval
	}
	if !s.schedule.Enabled {
		logger.Info("Sync scheduler disabled via configuration; manual runs only")
		return nil
	}

	s.rescheduleLocked()
	return nil
}

// Stop cancels any pending timer and waits for the timer loop to exit.
// A run already in flight is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

// Schedule returns the current interval and enabled flag.
func (s *Scheduler) Schedule() domain.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule
}

// UpdateInterval replaces the interval and reschedules immediately,
// re-enabling the scheduler if it was disabled.
func (s *Scheduler) UpdateInterval(interval time.Duration) error {
	if interval <= 0 {
		return domain.ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule.Interval = interval
	s.schedule.Enabled = true
	logger.Info("Updating sync schedule to every %s", s.schedule.HumanInterval())
	s.rescheduleLocked()
	return nil
}

// Disable stops future firings without interrupting an in-flight run.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Disabling scheduled sync")
	s.schedule.Enabled = false
	s.cancelLocked()
}

// rescheduleLocked cancels the pending timer and starts a new timer
// loop at the current interval. Caller must hold mu.
func (s *Scheduler) rescheduleLocked() {
	s.cancelLocked()

	stop := make(chan struct{})
	s.stopCh = stop
	s.wg.Add(1)
	go s.loop(s.schedule.Interval, stop)

	logger.Info("Scheduled sync task every %s", s.schedule.HumanInterval())
}

// cancelLocked cancels the pending timer, if any. Caller must hold mu.
func (s *Scheduler) cancelLocked() {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

// loop drives recurring firings until stop is closed.
func (s *Scheduler) loop(interval time.Duration, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.fire()
		}
	}
}

// fire executes one scheduled sync, logging failures without crashing
// the timer loop.
func (s *Scheduler) fire() {
	s.mu.Lock()
	enabled := s.schedule.Enabled
	s.mu.Unlock()
	if !enabled {
		return
	}

	logger.Info("Starting scheduled sync")
	run, err := s.runner.RunSync(context.Background())
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		logger.Warn("Previous sync still running; skipping this scheduled execution")
	case err != nil:
		logger.Error("Scheduled sync failed: %v", err)
	default:
		logSyncSummary(run)
	}
}

// logSyncSummary logs a concise summary of the batches produced by a
// scheduled run.
func logSyncSummary(run *domain.SyncRun) {
	if run == nil || len(run.Items) == 0 {
		logger.Info("Scheduled sync finished without data changes")
		return
	}

	details := make([]string, len(run.Items))
	for i, item := range run.Items {
		details[i] = fmt.Sprintf("%s/%s: %d row(s) -> %s",
			item.TableName, item.Country, item.RecordCount, item.ObjectKey)
	}

	logger.Info("Scheduled sync finished: %d batch(es), %d total row(s). Details: %s",
		len(run.Items), run.TotalRows(), strings.Join(details, "; "))
}
