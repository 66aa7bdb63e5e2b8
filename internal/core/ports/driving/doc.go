// Package driving defines the interfaces through which the outside
// world drives the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI adapter calls these interfaces; core services implement them.
//
//   - Ingestor: Accepts uploads and runs the ingestion pipeline
//   - QueryEngine: Answers questions with ranked citations
//   - DocumentManager: Lists, inspects and deletes documents
//   - IndexManager: Rebuilds an owner's index on demand
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
