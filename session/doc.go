// Package session houses concrete implementations of the core.Store. The
// interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (handlers, orchestrator) from depending on concrete
// storage.
//
// Add durable backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
