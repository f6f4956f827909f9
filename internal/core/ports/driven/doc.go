// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CustomerRepository, OrderRepository: Source row access
//   - SyncStateStore: Per-table watermark persistence
//   - SyncRunStore: Run history persistence
//   - ObjectStore: Destination bucket primitives
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
