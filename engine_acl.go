package goGuard

import (
	"context"

	"github.com/MrEthical07/goGuard/role"
)

/* ==== SUPER ADMIN ==== */

// IsSuperAdmin describes the issuperadmin operation and its observable behavior.
//
// IsSuperAdmin may return an error when input validation, dependency calls, or security checks fail.
// IsSuperAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsSuperAdmin(ctx context.Context, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	m, err := e.accountMask(ctx, account)
	if err != nil {
		return false, mapStateErr(err)
	}
	if m == nil {
		return false, nil
	}
	return m.Has(e.registry.SuperBit()), nil
}

// AddSuperAdmin describes the addsuperadmin operation and its observable behavior.
//
// AddSuperAdmin may return an error when input validation, dependency calls, or security checks fail.
// AddSuperAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AddSuperAdmin(ctx context.Context, caller, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	ok, err := e.IsSuperAdmin(ctx, caller)
	if err != nil {
		return false, mapStateErr(err)
	}
	if !ok {
		e.metricInc(MetricUnauthorizedAttempt)
		e.emitAudit(ctx, auditEventSuperAdminAdded, false, caller, account, "", "", ErrUnauthorized, nil)
		return false, ErrUnauthorized
	}

	changed, err := e.store.SetRoleBit(ctx, account, e.registry.SuperBit(), e.maskLen())
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricSuperAdminAdded)
		e.emitAudit(ctx, auditEventSuperAdminAdded, true, caller, account, "", "", nil, nil)
	}
	return changed, nil
}

// RevokeSuperAdmin describes the revokesuperadmin operation and its observable behavior.
//
// RevokeSuperAdmin may return an error when input validation, dependency calls, or security checks fail.
// RevokeSuperAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RevokeSuperAdmin(ctx context.Context, caller, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	ok, err := e.IsSuperAdmin(ctx, caller)
	if err != nil {
		return false, mapStateErr(err)
	}
	if !ok {
		e.metricInc(MetricUnauthorizedAttempt)
		e.emitAudit(ctx, auditEventSuperAdminRevoked, false, caller, account, "", "", ErrUnauthorized, nil)
		return false, ErrUnauthorized
	}

	return e.clearSuperAdmin(ctx, caller, account)
}

// RenounceSuperAdmin describes the renouncesuperadmin operation and its observable behavior.
//
// RenounceSuperAdmin may return an error when input validation, dependency calls, or security checks fail.
// RenounceSuperAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RenounceSuperAdmin(ctx context.Context, caller string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	return e.clearSuperAdmin(ctx, caller, caller)
}

// clearSuperAdmin removes the super-admin flag with the last-holder
// guard enforced inside the store script.
func (e *Engine) clearSuperAdmin(ctx context.Context, caller, account string) (bool, error) {
	changed, err := e.store.ClearRoleBit(ctx, account, e.registry.SuperBit(), e.maskLen(), true)
	if err != nil {
		code := mapStateErr(err)
		if code == ErrWouldLockOut {
			e.metricInc(MetricLockoutPrevented)
		}
		e.emitAudit(ctx, auditEventSuperAdminRevoked, false, caller, account, "", "", code, nil)
		return false, code
	}
	if changed {
		e.metricInc(MetricSuperAdminRevoked)
		e.emitAudit(ctx, auditEventSuperAdminRevoked, true, caller, account, "", "", nil, nil)
	}
	return changed, nil
}

/* ==== ROLE ADMINS ==== */

// IsRoleAdmin describes the isroleadmin operation and its observable behavior.
//
// IsRoleAdmin may return an error when input validation, dependency calls, or security checks fail.
// IsRoleAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsRoleAdmin(ctx context.Context, account, roleName string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	adminBit, ok := e.registry.AdminBit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	m, err := e.accountMask(ctx, account)
	if err != nil {
		return false, mapStateErr(err)
	}
	if m == nil {
		return false, nil
	}
	if m.Has(e.registry.SuperBit()) {
		return true, nil
	}
	return m.Has(adminBit), nil
}

// AddRoleAdmin describes the addroleadmin operation and its observable behavior.
//
// AddRoleAdmin may return an error when input validation, dependency calls, or security checks fail.
// AddRoleAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AddRoleAdmin(ctx context.Context, caller, roleName, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	adminBit, ok := e.registry.AdminBit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	if err := e.requireManage(ctx, caller, roleName); err != nil {
		e.emitAudit(ctx, auditEventAdminAdded, false, caller, account, roleName, "", err, nil)
		return false, err
	}

	changed, err := e.store.SetRoleBit(ctx, account, adminBit, e.maskLen())
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricAdminAdded)
		e.emitAudit(ctx, auditEventAdminAdded, true, caller, account, roleName, "", nil, nil)
	}
	return changed, nil
}

// RevokeRoleAdmin describes the revokeroleadmin operation and its observable behavior.
//
// RevokeRoleAdmin may return an error when input validation, dependency calls, or security checks fail.
// RevokeRoleAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RevokeRoleAdmin(ctx context.Context, caller, roleName, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	adminBit, ok := e.registry.AdminBit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	if err := e.requireManage(ctx, caller, roleName); err != nil {
		e.emitAudit(ctx, auditEventAdminRevoked, false, caller, account, roleName, "", err, nil)
		return false, err
	}

	return e.clearRoleAdmin(ctx, caller, roleName, account, adminBit)
}

// RenounceRoleAdmin describes the renounceroleadmin operation and its observable behavior.
//
// RenounceRoleAdmin may return an error when input validation, dependency calls, or security checks fail.
// RenounceRoleAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RenounceRoleAdmin(ctx context.Context, caller, roleName string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	adminBit, ok := e.registry.AdminBit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	return e.clearRoleAdmin(ctx, caller, roleName, caller, adminBit)
}

func (e *Engine) clearRoleAdmin(ctx context.Context, caller, roleName, account string, adminBit int) (bool, error) {
	changed, err := e.store.ClearRoleBit(ctx, account, adminBit, e.maskLen(), false)
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricAdminRevoked)
		e.emitAudit(ctx, auditEventAdminRevoked, true, caller, account, roleName, "", nil, nil)
	}
	return changed, nil
}

/* ==== GRANTEES ==== */

// HasRole describes the hasrole operation and its observable behavior.
//
// HasRole may return an error when input validation, dependency calls, or security checks fail.
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) HasRole(ctx context.Context, account, roleName string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	bit, ok := e.registry.Bit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	m, err := e.accountMask(ctx, account)
	if err != nil {
		return false, mapStateErr(err)
	}
	if m == nil {
		return false, nil
	}
	return m.Has(bit), nil
}

// GrantRole describes the grantrole operation and its observable behavior.
//
// GrantRole may return an error when input validation, dependency calls, or security checks fail.
// GrantRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) GrantRole(ctx context.Context, caller, roleName, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	bit, ok := e.registry.Bit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	if err := e.requireManage(ctx, caller, roleName); err != nil {
		e.emitAudit(ctx, auditEventRoleGranted, false, caller, account, roleName, "", err, nil)
		return false, err
	}

	changed, err := e.store.SetRoleBit(ctx, account, bit, e.maskLen())
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricRoleGranted)
		e.emitAudit(ctx, auditEventRoleGranted, true, caller, account, roleName, "", nil, nil)
	}
	return changed, nil
}

// RevokeRole describes the revokerole operation and its observable behavior.
//
// RevokeRole may return an error when input validation, dependency calls, or security checks fail.
// RevokeRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RevokeRole(ctx context.Context, caller, roleName, account string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	bit, ok := e.registry.Bit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	if err := e.requireManage(ctx, caller, roleName); err != nil {
		e.emitAudit(ctx, auditEventRoleRevoked, false, caller, account, roleName, "", err, nil)
		return false, err
	}

	return e.clearRole(ctx, caller, roleName, account, bit)
}

// RenounceRole describes the renouncerole operation and its observable behavior.
//
// RenounceRole may return an error when input validation, dependency calls, or security checks fail.
// RenounceRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RenounceRole(ctx context.Context, caller, roleName string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	bit, ok := e.registry.Bit(roleName)
	if !ok {
		return false, ErrUnknownRole
	}

	return e.clearRole(ctx, caller, roleName, caller, bit)
}

func (e *Engine) clearRole(ctx context.Context, caller, roleName, account string, bit int) (bool, error) {
	changed, err := e.store.ClearRoleBit(ctx, account, bit, e.maskLen(), false)
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricRoleRevoked)
		e.emitAudit(ctx, auditEventRoleRevoked, true, caller, account, roleName, "", nil, nil)
	}
	return changed, nil
}

/* ==== EVALUATION ==== */

// Require describes the require operation and its observable behavior.
//
// Require may return an error when input validation, dependency calls, or security checks fail.
// Require does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Require(ctx context.Context, caller string, pred role.Predicate) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	if err := pred.Validate(e.registry); err != nil {
		return ErrUnknownRole
	}
	if pred.IsNone() {
		return nil
	}

	m, err := e.accountMask(ctx, caller)
	if err != nil {
		return mapStateErr(err)
	}
	if pred.Eval(e.registry, m) {
		return nil
	}

	e.metricInc(MetricUnauthorizedAttempt)
	return ErrUnauthorized
}

// requireManage enforces role-management authorization for caller.
// Super admins always pass; role admins pass unless management is
// restricted to super admins by configuration.
func (e *Engine) requireManage(ctx context.Context, caller, roleName string) error {
	super, err := e.IsSuperAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if super {
		return nil
	}
	if e.config.Acl.SuperAdminOnlyManagement {
		e.metricInc(MetricUnauthorizedAttempt)
		return ErrUnauthorized
	}

	admin, err := e.IsRoleAdmin(ctx, caller, roleName)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}
	e.metricInc(MetricUnauthorizedAttempt)
	return ErrUnauthorized
}
