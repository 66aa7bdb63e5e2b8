// Package services implements the driving port interfaces.
// Services contain the core business logic: the ingestion pipeline and
// its lifecycle state machine, index rebuilds, and the query engine
// with confidence gating. They orchestrate calls to driven ports
// (adapters) and never touch storage directly.
package services
