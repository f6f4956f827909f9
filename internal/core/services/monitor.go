package services

import (
	"context"
	"fmt"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
	"github.com/contargo/s3sync/internal/core/ports/driving"
	"github.com/contargo/s3sync/internal/logger"
)

// defaultRunLimit caps how much run history a single query returns.
const defaultRunLimit = 20

// Ensure Monitor implements the interface.
var _ driving.SyncMonitor = (*Monitor)(nil)

// Monitor provides read-only access to run history and watermarks.
type Monitor struct {
	runs   driven.SyncRunStore
	states driven.SyncStateStore
}

// NewMonitor creates a new sync monitor.
func NewMonitor(runs driven.SyncRunStore, states driven.SyncStateStore) *Monitor {
	return &Monitor{runs: runs, states: states}
}

// RecentRuns returns up to limit runs, newest first. Non-positive or
// oversized limits are clamped to the default.
func (m *Monitor) RecentRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 || limit > defaultRunLimit {
		limit = defaultRunLimit
	}
	logger.Debug("Fetching up to %d recent sync runs", limit)

	runs, err := m.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return runs, nil
}

// SyncStates returns the current per-table watermarks.
func (m *Monitor) SyncStates(ctx context.Context) ([]domain.SyncState, error) {
	logger.Debug("Fetching sync state overview")

	states, err := m.states.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sync states: %w", err)
	}
	return states, nil
}
