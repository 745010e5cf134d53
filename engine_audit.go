package goGuard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventSuperAdminAdded   = "super_admin_added"
	auditEventSuperAdminRevoked = "super_admin_revoked"
	auditEventAdminAdded        = "admin_added"
	auditEventAdminRevoked      = "admin_revoked"
	auditEventRoleGranted       = "role_granted"
	auditEventRoleRevoked       = "role_revoked"
	auditEventPaused            = "paused"
	auditEventUnpaused          = "unpaused"
	auditEventUpgradeStaged     = "upgrade_staged"
	auditEventUpgradeCommitted  = "upgrade_committed"
	auditEventUpgradeDiscarded  = "upgrade_discarded"
	auditEventGuardDenied       = "guard_denied"
	auditEventBootstrap         = "bootstrap"
)

// AuditErrorCode defines a public type used by goGuard APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthorized AuditErrorCode = "unauthorized"
	auditErrPaused       AuditErrorCode = "paused"
	auditErrWouldLockOut AuditErrorCode = "would_lock_out"
	auditErrUnknownRole  AuditErrorCode = "unknown_role"
	auditErrInvalidKey   AuditErrorCode = "invalid_pause_key"
	auditErrNotStaged    AuditErrorCode = "not_staged"
	auditErrTooEarly     AuditErrorCode = "too_early"
	auditErrHashMismatch AuditErrorCode = "hash_mismatch"
	auditErrDisabled     AuditErrorCode = "feature_disabled"
	auditErrInvalidCode  AuditErrorCode = "invalid_code"
	auditErrMigration    AuditErrorCode = "migration_failed"
	auditErrUnavailable  AuditErrorCode = "store_unavailable"
	auditErrInternal     AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	caller string,
	account string,
	roleName string,
	key string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventID:   uuid.NewString(),
		EventType: eventType,
		Caller:    caller,
		Account:   account,
		Role:      roleName,
		Key:       key,
		Origin:    originFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrPaused):
		return auditErrPaused
	case errors.Is(err, ErrWouldLockOut):
		return auditErrWouldLockOut
	case errors.Is(err, ErrUnknownRole):
		return auditErrUnknownRole
	case errors.Is(err, ErrInvalidPauseKey):
		return auditErrInvalidKey
	case errors.Is(err, ErrNotStaged):
		return auditErrNotStaged
	case errors.Is(err, ErrTooEarly):
		return auditErrTooEarly
	case errors.Is(err, ErrHashMismatch):
		return auditErrHashMismatch
	case errors.Is(err, ErrPausingDisabled),
		errors.Is(err, ErrUpgradesDisabled):
		return auditErrDisabled
	case errors.Is(err, ErrEmptyCode):
		return auditErrInvalidCode
	case errors.Is(err, ErrMigrationFailed):
		return auditErrMigration
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
