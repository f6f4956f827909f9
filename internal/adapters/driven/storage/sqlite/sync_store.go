package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
)

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Get retrieves the watermark for a logical table.
func (s *syncStateStore) Get(ctx context.Context, tableName string) (*domain.SyncState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT table_name, last_successful_sync
		FROM sync_state WHERE table_name = ?
	`, tableName)

	var state domain.SyncState
	if err := row.Scan(&state.TableName, &state.LastSuccessfulSync); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	return &state, nil
}

// Set stores or updates the watermark for a logical table.
func (s *syncStateStore) Set(ctx context.Context, tableName string, lastSync time.Time) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_state (table_name, last_successful_sync)
		VALUES (?, ?)
		ON CONFLICT(table_name) DO UPDATE SET
			last_successful_sync = excluded.last_successful_sync
	`, tableName, lastSync.UTC())

	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// List returns all recorded watermarks.
func (s *syncStateStore) List(ctx context.Context) ([]domain.SyncState, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT table_name, last_successful_sync
		FROM sync_state
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sync states: %w", err)
	}
	defer rows.Close()

	var states []domain.SyncState //nolint:prealloc // size unknown from query
	for rows.Next() {
		var state domain.SyncState
		if err := rows.Scan(&state.TableName, &state.LastSuccessfulSync); err != nil {
			return nil, fmt.Errorf("scanning sync state: %w", err)
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync states: %w", err)
	}

	return states, nil
}

// ==================== Sync Run Store ====================

// syncRunStore implements driven.SyncRunStore. Items are append-only;
// run rows are mutated only by Finalize.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

// Create persists a freshly started run.
func (s *syncRunStore) Create(ctx context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_run (id, started_at, status)
		VALUES (?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), string(run.Status))

	if err != nil {
		return fmt.Errorf("creating sync run: %w", err)
	}
	return nil
}

// AppendItems persists newly produced batch items for a run.
func (s *syncRunStore) AppendItems(ctx context.Context, runID string, items []domain.SyncRunItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sync_run_item (run_id, table_name, country, record_count, object_key)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, runID, item.TableName, item.Country,
			item.RecordCount, item.ObjectKey); err != nil {
			return fmt.Errorf("saving run item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Finalize records the terminal status, error message and finish time.
func (s *syncRunStore) Finalize(
	ctx context.Context,
	runID string,
	status domain.SyncStatus,
	errorMessage string,
	finishedAt time.Time,
) error {
	var message sql.NullString
	if errorMessage != "" {
		message = sql.NullString{String: errorMessage, Valid: true}
	}

	result, err := s.store.db.ExecContext(ctx, `
		UPDATE sync_run
		SET status = ?, error_message = ?, finished_at = ?
		WHERE id = ?
	`, string(status), message, finishedAt.UTC(), runID)
	if err != nil {
		return fmt.Errorf("finalizing sync run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking finalized run: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListRecent returns up to limit runs, newest first, with items.
func (s *syncRunStore) ListRecent(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, error_message
		FROM sync_run
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.SyncRun
		var finishedAt sql.NullTime
		var errorMessage sql.NullString
		var status string
		if err := rows.Scan(&run.ID, &run.StartedAt, &finishedAt, &status, &errorMessage); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}

		run.Status = domain.SyncStatus(status)
		if finishedAt.Valid {
			run.FinishedAt = finishedAt.Time
		}
		run.ErrorMessage = errorMessage.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	for i := range runs {
		items, err := s.listItems(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Items = items
	}

	return runs, nil
}

// listItems returns the items of one run in insertion order.
func (s *syncRunStore) listItems(ctx context.Context, runID string) ([]domain.SyncRunItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT table_name, country, record_count, object_key
		FROM sync_run_item
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run items: %w", err)
	}
	defer rows.Close()

	var items []domain.SyncRunItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.SyncRunItem
		if err := rows.Scan(&item.TableName, &item.Country, &item.RecordCount, &item.ObjectKey); err != nil {
			return nil, fmt.Errorf("scanning run item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run items: %w", err)
	}

	return items, nil
}
