// Package state persists the contract governance records — account role
// bitsets, the per-bit reverse indexes, the paused feature set, the staged
// upgrade slot, and the live code record — in the host-provided key-value
// store (Redis).
//
// # Atomicity
//
// Every mutating operation is a single Lua script: the read-validate-write
// sequence executes server-side in one step, so either its full effect is
// durably written or none of it is. Grant and revoke scripts manipulate the
// persisted mask blob byte for byte in the exact layout produced by
// role.EncodeMask.
//
// # What this package must NOT do
//
//   - Make authorization decisions. Callers decide; this package records.
//   - Cache any record across calls. Every read hits the store.
//   - Import goGuard (no import cycles).
package state
