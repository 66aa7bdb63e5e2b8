// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document and chunk persistence (SQLite)
//   - IndexStore: Per-owner index artifact persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain and index packages only
//   - Cannot Import: Any adapter package
package driven
