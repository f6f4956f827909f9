package driven

import (
	"context"
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
)

// SyncStateStore persists per-table watermarks.
type SyncStateStore interface {
	// Get retrieves the watermark for a logical table.
	// Returns domain.ErrNotFound when no watermark has been recorded.
	Get(ctx context.Context, tableName string) (*domain.SyncState, error)

	// Set stores or updates the watermark for a logical table.
	Set(ctx context.Context, tableName string, lastSync time.Time) error

	// List returns all recorded watermarks.
	List(ctx context.Context) ([]domain.SyncState, error)
}

// SyncRunStore persists run history. The orchestrator owns all
// decision-making; this is a plain persistence contract.
type SyncRunStore interface {
	// Create persists a freshly started run.
	Create(ctx context.Context, run *domain.SyncRun) error

	// AppendItems persists newly produced batch items for a run.
	AppendItems(ctx context.Context, runID string, items []domain.SyncRunItem) error

	// Finalize records the terminal status, error message and finish
	// time of a run.
	Finalize(ctx context.Context, runID string, status domain.SyncStatus, errorMessage string, finishedAt time.Time) error

	// ListRecent returns up to limit runs, newest first, with items.
	ListRecent(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
