// Package goGuard provides an embeddable governance engine for smart
// contracts: bitmask-based role access control with super-admin bypass,
// feature-granular pausing with a wildcard and escape list, and a two-phase
// (stage, delay, commit) code upgrade protocol over a host-provided
// persistent key-value store.
//
// The package is designed for hosts that execute invocations strictly
// sequentially against one state snapshot: every check reads the store fresh
// and every mutation is a single atomic script, so a nested or re-entrant
// invocation can never observe a partially applied effect or a stale
// authorization.
//
// # Architecture boundaries
//
// goGuard is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Decision, Requirement, StagedInfo, etc.). Persistence
// mechanics live in state/, the bitset and predicate machinery in role/, and
// shared helpers under internal/.
//
// # What this package must NOT do
//
//   - Generate or inspect entry-point declarations. Hosts wrap their methods
//     with [Engine.Check] or [Engine.Guarded]; there is no code generation
//     and no reflection.
//   - Cache authorization or pause state across invocations. Guard checks
//     are re-evaluated fresh on every entry, nested entries included.
//   - Expose Redis clients, key layouts, or mask encodings in its public API.
package goGuard
