package driving

import (
	"context"

	"github.com/contargo/s3sync/internal/core/domain"
)

// SyncRunner triggers export runs. Callers, scheduled and manual alike,
// share the orchestrator's single in-flight guard: a second invocation
// while a run executes fails with domain.ErrSyncInProgress.
type SyncRunner interface {
	// RunSync executes one full export pass and returns the recorded
	// run. When the run fails, the returned run carries the FAILED
	// status alongside the non-nil error, so callers can distinguish a
	// recorded failure from an error that prevented the run entirely.
	RunSync(ctx context.Context) (*domain.SyncRun, error)
}

// SyncMonitor exposes read-only run history and watermark state.
type SyncMonitor interface {
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// SyncStates returns the current per-table watermarks.
	SyncStates(ctx context.Context) ([]domain.SyncState, error)
}
