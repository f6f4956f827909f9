package domain

import "time"

// Logical table names as they appear in the source database and in
// object keys. The German names are a fixed contract with the consumers
// of the exported files.
const (
	TableCustomers = "kunde"
	TableOrders    = "auftraege"
)

// CountryUnknown is the partition key used for rows without a country.
const CountryUnknown = "unknown"

// SyncStatus is the lifecycle state of a sync run.
type SyncStatus string

// Lifecycle states of a sync run. A run starts as StatusRunning and
// reaches exactly one terminal state.
const (
	StatusRunning SyncStatus = "RUNNING"
	StatusSuccess SyncStatus = "SUCCESS"
	StatusFailed  SyncStatus = "FAILED"
)

// Terminal reports whether the status is an end state.
func (s SyncStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// SyncRun records one execution of the full export pass.
type SyncRun struct {
	// ID is an opaque identity assigned when the run is created.
	ID string

	// StartedAt is when the run began, in UTC.
	StartedAt time.Time

	// FinishedAt is when the run reached a terminal state.
	// Zero while the run is still executing.
	FinishedAt time.Time

	// Status is the current lifecycle state.
	Status SyncStatus

	// ErrorMessage holds the causing error when Status is StatusFailed.
	ErrorMessage string

	// Items are the uploaded batches, in upload order.
	Items []SyncRunItem
}

// AddItem appends an uploaded batch to the run.
func (r *SyncRun) AddItem(item SyncRunItem) {
	r.Items = append(r.Items, item)
}

// TotalRows sums the record counts across all items.
func (r *SyncRun) TotalRows() int {
	total := 0
	for _, item := range r.Items {
		total += item.RecordCount
	}
	return total
}

// SyncRunItem is one (table, country) batch uploaded during a run.
// Immutable once created.
type SyncRunItem struct {
	// TableName is the logical source table.
	TableName string

	// Country is the partition key, CountryUnknown when absent.
	Country string

	// RecordCount is the number of rows in the uploaded batch.
	RecordCount int

	// ObjectKey is the destination key the batch was written to.
	ObjectKey string
}

// SyncState is the per-table watermark: the latest changed-at timestamp
// known to have been fully exported for a logical table.
type SyncState struct {
	// TableName is the logical table the watermark belongs to.
	TableName string

	// LastSuccessfulSync is the watermark value. The zero time means
	// "beginning of time" and requests an unfiltered export.
	LastSuccessfulSync time.Time
}
