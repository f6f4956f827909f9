package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
	"github.com/contargo/s3sync/internal/core/ports/driving"
	"github.com/contargo/s3sync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncRunner = (*SyncOrchestrator)(nil)

// SyncOrchestrator coordinates one export pass over the source tables.
// It determines the effective change window per table, exports changed
// rows as country-partitioned CSV batches, advances the per-table
// watermarks, and records auditable run history.
//
// A single compare-and-swap guard makes the orchestrator the sole
// serialization point: every caller, scheduled or manual, receives
// domain.ErrSyncInProgress while a run is executing.
type SyncOrchestrator struct {
	customers driven.CustomerRepository
	orders    driven.OrderRepository
	states    driven.SyncStateStore
	runs      driven.SyncRunStore
	objects   driven.ObjectStore
	uploader  Uploader

	inFlight atomic.Bool
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	customers driven.CustomerRepository,
	orders driven.OrderRepository,
	states driven.SyncStateStore,
	runs driven.SyncRunStore,
	objects driven.ObjectStore,
	uploader Uploader,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		customers: customers,
		orders:    orders,
		states:    states,
		runs:      runs,
		objects:   objects,
		uploader:  uploader,
	}
}

// RunSync executes a single export pass: determines the change window,
// exports changed data per table, and records run status.
//
// The run row is persisted in RUNNING state before any work happens so a
// crash mid-run stays observable, and the terminal status with its
// finish timestamp is persisted on every exit path. A failed run is
// returned together with the error.
func (o *SyncOrchestrator) RunSync(ctx context.Context) (*domain.SyncRun, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.inFlight.Store(false)

	startedAt := time.Now().UTC()
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Status:    domain.StatusRunning,
	}
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	runErr := o.execute(ctx, run, startedAt)

	run.FinishedAt = time.Now().UTC()
	if runErr != nil {
		run.Status = domain.StatusFailed
		run.ErrorMessage = runErr.Error()
		logger.Error("Sync run %s failed: %v", run.ID, runErr)
	} else {
		run.Status = domain.StatusSuccess
		logger.Info("Sync run %s completed successfully with %d items", run.ID, len(run.Items))
	}
	if err := o.runs.Finalize(ctx, run.ID, run.Status, run.ErrorMessage, run.FinishedAt); err != nil {
		logger.Error("Failed to finalize sync run %s: %v", run.ID, err)
		if runErr == nil {
			runErr = fmt.Errorf("finalize run: %w", err)
		}
	}

	return run, runErr
}

// execute runs the per-table export work for a run.
func (o *SyncOrchestrator) execute(ctx context.Context, run *domain.SyncRun, startedAt time.Time) error {
	forceFullSync, err := o.objects.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("inspect bucket: %w", err)
	}
	if forceFullSync {
		logger.Info("Detected empty bucket; forcing full data export for this run")
	}

	logger.Info("Starting sync run %s", run.ID)
	if err := o.processCustomers(ctx, run, startedAt, forceFullSync); err != nil {
		return err
	}
	if err := o.processOrders(ctx, run, startedAt, forceFullSync); err != nil {
		return err
	}
	return nil
}

// processCustomers exports customer changes as country-partitioned CSV
// batches and advances the kunde watermark.
func (o *SyncOrchestrator) processCustomers(
	ctx context.Context,
	run *domain.SyncRun,
	startedAt time.Time,
	forceFullSync bool,
) error {
	since, err := o.effectiveSince(ctx, domain.TableCustomers, forceFullSync)
	if err != nil {
		return err
	}

	var customers []domain.Customer
	if since.IsZero() {
		customers, err = o.customers.FindAll(ctx)
	} else {
		customers, err = o.customers.FindUpdatedAfter(ctx, since)
	}
	if err != nil {
		return fmt.Errorf("fetch customers: %w", err)
	}

	if len(customers) == 0 {
		if forceFullSync {
			logger.Info("No customer records available to export during forced full sync")
		} else {
			logger.Info("No customer updates detected since %s", sinceLabel(since))
		}
		return o.updateState(ctx, domain.TableCustomers, startedAt)
	}

	logger.Info("Processing %d customer updates since %s", len(customers), sinceLabel(since))

	byCountry := make(map[string][]domain.Customer)
	var latest time.Time
	for _, c := range customers {
		country := c.Country
		if country == "" {
			country = domain.CountryUnknown
		}
		byCountry[country] = append(byCountry[country], c)
		if c.UpdatedAt.After(latest) {
			latest = c.UpdatedAt
		}
	}
	if latest.IsZero() {
		latest = startedAt
	}

	items := make([]domain.SyncRunItem, 0, len(byCountry))
	for _, country := range sortedCountries(byCountry) {
		group := byCountry[country]
		lines := make([]string, len(group))
		for i, c := range group {
			lines[i] = customerCSVLine(c)
		}

		key, err := o.uploader.Store(ctx, domain.TableCustomers, country, startedAt, strings.Join(lines, "\n"))
		if err != nil {
			return fmt.Errorf("store customer batch for %s: %w", country, err)
		}

		item := domain.SyncRunItem{
			TableName:   domain.TableCustomers,
			Country:     country,
			RecordCount: len(group),
			ObjectKey:   key,
		}
		run.AddItem(item)
		items = append(items, item)
	}

	if err := o.runs.AppendItems(ctx, run.ID, items); err != nil {
		return fmt.Errorf("append run items: %w", err)
	}
	return o.updateState(ctx, domain.TableCustomers, latest)
}

// processOrders exports order changes partitioned by the owning
// customer's country and advances the auftraege watermark.
func (o *SyncOrchestrator) processOrders(
	ctx context.Context,
	run *domain.SyncRun,
	startedAt time.Time,
	forceFullSync bool,
) error {
	since, err := o.effectiveSince(ctx, domain.TableOrders, forceFullSync)
	if err != nil {
		return err
	}

	var orders []domain.Order
	if since.IsZero() {
		orders, err = o.orders.FindAll(ctx)
	} else {
		orders, err = o.orders.FindChangedAfter(ctx, since)
	}
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}

	if len(orders) == 0 {
		if forceFullSync {
			logger.Info("No order records available to export during forced full sync")
		} else {
			logger.Info("No order updates detected since %s", sinceLabel(since))
		}
		return o.updateState(ctx, domain.TableOrders, startedAt)
	}

	logger.Info("Processing %d order updates since %s", len(orders), sinceLabel(since))

	byCountry := make(map[string][]domain.Order)
	var latest time.Time
	for _, ord := range orders {
		country := ord.PartitionCountry()
		byCountry[country] = append(byCountry[country], ord)
		if ord.LastChange.After(latest) {
			latest = ord.LastChange
		}
	}
	if latest.IsZero() {
		latest = startedAt
	}

	items := make([]domain.SyncRunItem, 0, len(byCountry))
	for _, country := range sortedCountries(byCountry) {
		group := byCountry[country]
		lines := make([]string, len(group))
		for i, ord := range group {
			lines[i] = orderCSVLine(ord)
		}

		key, err := o.uploader.Store(ctx, domain.TableOrders, country, startedAt, strings.Join(lines, "\n"))
		if err != nil {
			return fmt.Errorf("store order batch for %s: %w", country, err)
		}

		item := domain.SyncRunItem{
			TableName:   domain.TableOrders,
			Country:     country,
			RecordCount: len(group),
			ObjectKey:   key,
		}
		run.AddItem(item)
		items = append(items, item)
	}

	if err := o.runs.AppendItems(ctx, run.ID, items); err != nil {
		return fmt.Errorf("append run items: %w", err)
	}
	return o.updateState(ctx, domain.TableOrders, latest)
}

// effectiveSince resolves the change window lower bound for a table.
// A forced full sync overrides any persisted watermark with the zero
// time, which requests an unfiltered fetch.
func (o *SyncOrchestrator) effectiveSince(ctx context.Context, tableName string, forceFullSync bool) (time.Time, error) {
	state, err := o.states.Get(ctx, tableName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return time.Time{}, fmt.Errorf("get sync state for %s: %w", tableName, err)
	}

	var persisted time.Time
	if state != nil {
		persisted = state.LastSuccessfulSync
	}

	if forceFullSync {
		if persisted.IsZero() {
			logger.Info("Executing first-time full %s export", tableName)
		} else {
			logger.Info("Ignoring stored %s sync timestamp %s because the bucket is empty",
				tableName, persisted.Format(time.RFC3339))
		}
		return time.Time{}, nil
	}
	return persisted, nil
}

// updateState persists the watermark for a logical table.
func (o *SyncOrchestrator) updateState(ctx context.Context, tableName string, lastSync time.Time) error {
	if err := o.states.Set(ctx, tableName, lastSync); err != nil {
		return fmt.Errorf("update sync state for %s: %w", tableName, err)
	}
	return nil
}

// sortedCountries returns the partition keys in a stable upload order.
func sortedCountries[T any](groups map[string][]T) []string {
	countries := make([]string, 0, len(groups))
	for country := range groups {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// sinceLabel renders a change window lower bound for log output.
func sinceLabel(since time.Time) string {
	if since.IsZero() {
		return "the beginning"
	}
	return since.Format(time.RFC3339)
}
