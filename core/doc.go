// Package core provides the foundational domain types and contracts used by
// Realvia. It defines the core abstractions for:
//
//   - Sessions (append-only transcript containers keyed by conversation)
//   - Transcript entries (opaque per-invocation exchange records)
//   - Routing decisions over the closed handler label set
//   - Context windowing over recent transcript history
//   - Call budgets and the retry/backoff policy for upstream calls
//   - The Classifier and Handler collaborator interfaces
//
// The package intentionally keeps implementation concerns (stores, model
// backends, orchestration) out of scope, exposing small interfaces to enable
// custom backends and extensions.
package core
