// Package middleware exposes HTTP middleware adapters that enforce
// goGuard.Engine decisions on inbound requests.
//
// # Guards
//
//   - [Guard] — evaluates a Requirement against the resolved caller.
//
// The guard resolves the caller identity, calls Engine.Check, and injects
// the decision into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// evaluate roles or pause state itself — all decisions are delegated to
// Engine.Check.
//
// # What this package must NOT do
//
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Check.
package middleware
