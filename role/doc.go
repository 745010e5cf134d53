// Package role provides fixed-size bitset types, a deployment-time role
// registry, and predicate expressions used by goGuard authorization checks.
//
// # Mask sizes
//
// Supported widths: 64 and 128 bits. A width is selected at registry
// construction time and is immutable thereafter. Every declared role occupies
// two bits — the grantee bit and the paired admin bit — and the highest bit of
// the mask is reserved for the super-admin flag. Bit positions are assigned by
// [Registry.Register] and are stable for the lifetime of the deployment.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides the
// codec (EncodeMask/DecodeMask) used by the state store for the persisted
// account records.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import goGuard or state.
//   - Dynamically resize masks after registry construction.
package role
