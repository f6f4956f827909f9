// Package domain defines the core business entities for the sync service.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Customer, Order: The exported source rows
//   - SyncRun, SyncRunItem: Audit history of export runs
//   - SyncState: Per-table watermark of the last successful export
//   - Schedule: Live scheduler configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
