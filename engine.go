package goGuard

import (
	"context"
	"time"

	"github.com/MrEthical07/goGuard/role"
	"github.com/MrEthical07/goGuard/state"
)

// Engine defines a public type used by goGuard APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config             Config
	registry           *role.Registry
	store              *state.Store
	audit              *auditDispatcher
	metrics            *Metrics
	hook               MigrationHook
	now                TimeSource
	exempt             map[string]struct{}
	initialSuperAdmins []string
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Registry describes the registry operation and its observable behavior.
//
// Registry may return an error when input validation, dependency calls, or security checks fail.
// Registry does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Registry() *role.Registry {
	if e == nil {
		return nil
	}
	return e.registry
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) clock() time.Time {
	if e != nil && e.now != nil {
		return e.now()
	}
	return time.Now()
}

// Bootstrap describes the bootstrap operation and its observable behavior.
//
// Bootstrap may return an error when input validation, dependency calls, or security checks fail.
// Bootstrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	count, err := e.store.BitMemberCount(ctx, e.registry.SuperBit())
	if err != nil {
		return mapStateErr(err)
	}
	if count > 0 {
		return nil
	}

	for _, account := range e.initialSuperAdmins {
		if _, err := e.store.SetRoleBit(ctx, account, e.registry.SuperBit(), e.maskLen()); err != nil {
			return mapStateErr(err)
		}
		e.emitAudit(ctx, auditEventBootstrap, true, "", account, "", "", nil, nil)
		e.metricInc(MetricSuperAdminAdded)
	}
	return nil
}

func (e *Engine) maskLen() int {
	return e.config.Acl.MaxBits / 8
}

// accountMask loads the caller's role mask, returning nil when the
// account has no record.
func (e *Engine) accountMask(ctx context.Context, account string) (role.Mask, error) {
	blob, err := e.store.AccountMask(ctx, account)
	if err != nil {
		return nil, mapStateErr(err)
	}
	if blob == nil {
		return nil, nil
	}
	return role.DecodeMask(blob)
}
