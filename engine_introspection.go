package goGuard

import (
	"context"
	"time"
)

// HealthStatus is an on-demand backend health result.
type HealthStatus struct {
	StoreAvailable bool
	StoreLatency   time.Duration
}

// RolesOf describes the rolesof operation and its observable behavior.
//
// RolesOf may return an error when input validation, dependency calls, or security checks fail.
// RolesOf does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RolesOf(ctx context.Context, account string) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	m, err := e.accountMask(ctx, account)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	out := make([]string, 0, e.registry.Count())
	for _, name := range e.registry.Names() {
		bit, _ := e.registry.Bit(name)
		if m.Has(bit) {
			out = append(out, name)
		}
	}
	return out, nil
}

// AdminRolesOf describes the adminrolesof operation and its observable behavior.
//
// AdminRolesOf may return an error when input validation, dependency calls, or security checks fail.
// AdminRolesOf does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AdminRolesOf(ctx context.Context, account string) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	m, err := e.accountMask(ctx, account)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	out := make([]string, 0, e.registry.Count())
	for _, name := range e.registry.Names() {
		bit, _ := e.registry.AdminBit(name)
		if m.Has(bit) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Grantees describes the grantees operation and its observable behavior.
//
// Grantees may return an error when input validation, dependency calls, or security checks fail.
// Grantees does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Grantees(ctx context.Context, roleName string, skip, limit int) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	bit, ok := e.registry.Bit(roleName)
	if !ok {
		return nil, ErrUnknownRole
	}
	return e.bitPage(ctx, bit, skip, limit)
}

// GranteeCount describes the granteecount operation and its observable behavior.
//
// GranteeCount may return an error when input validation, dependency calls, or security checks fail.
// GranteeCount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) GranteeCount(ctx context.Context, roleName string) (int64, error) {
	if e == nil || e.store == nil {
		return 0, ErrEngineNotReady
	}

	bit, ok := e.registry.Bit(roleName)
	if !ok {
		return 0, ErrUnknownRole
	}

	count, err := e.store.BitMemberCount(ctx, bit)
	if err != nil {
		return 0, mapStateErr(err)
	}
	return count, nil
}

// Admins describes the admins operation and its observable behavior.
//
// Admins may return an error when input validation, dependency calls, or security checks fail.
// Admins does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Admins(ctx context.Context, roleName string, skip, limit int) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	bit, ok := e.registry.AdminBit(roleName)
	if !ok {
		return nil, ErrUnknownRole
	}
	return e.bitPage(ctx, bit, skip, limit)
}

// SuperAdmins describes the superadmins operation and its observable behavior.
//
// SuperAdmins may return an error when input validation, dependency calls, or security checks fail.
// SuperAdmins does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SuperAdmins(ctx context.Context, skip, limit int) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	return e.bitPage(ctx, e.registry.SuperBit(), skip, limit)
}

// SuperAdminCount describes the superadmincount operation and its observable behavior.
//
// SuperAdminCount may return an error when input validation, dependency calls, or security checks fail.
// SuperAdminCount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SuperAdminCount(ctx context.Context) (int64, error) {
	if e == nil || e.store == nil {
		return 0, ErrEngineNotReady
	}

	count, err := e.store.BitMemberCount(ctx, e.registry.SuperBit())
	if err != nil {
		return 0, mapStateErr(err)
	}
	return count, nil
}

// bitPage returns a stable page of the reverse index for bit. Members
// are sorted lexicographically so repeated pagination is deterministic.
func (e *Engine) bitPage(ctx context.Context, bit, skip, limit int) ([]string, error) {
	members, err := e.store.BitMembers(ctx, bit)
	if err != nil {
		return nil, mapStateErr(err)
	}

	if skip < 0 {
		skip = 0
	}
	if skip >= len(members) {
		return []string{}, nil
	}
	members = members[skip:]
	if limit >= 0 && limit < len(members) {
		members = members[:limit]
	}
	return members, nil
}

// Health describes the health operation and its observable behavior.
//
// Health may return an error when input validation, dependency calls, or security checks fail.
// Health does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if e == nil || e.store == nil {
		return HealthStatus{}
	}

	start := time.Now()
	err := e.store.Ping(ctx)
	return HealthStatus{
		StoreAvailable: err == nil,
		StoreLatency:   time.Since(start),
	}
}
