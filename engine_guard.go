package goGuard

import (
	"context"
	"errors"
	"time"
)

// Check describes the check operation and its observable behavior.
//
// Check may return an error when input validation, dependency calls, or security checks fail.
// Check does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Check(ctx context.Context, caller string, req Requirement) (Decision, error) {
	if e == nil || e.store == nil {
		return Decision{}, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		e.metricObserve(MetricCheckLatency, time.Since(start))
	}()

	// Authorization is evaluated before pause state so an
	// unauthorized caller cannot learn which features are paused.
	if err := e.Require(ctx, caller, req.Predicate); err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			return Decision{}, err
		}
		e.metricInc(MetricCheckDenyUnauthorized)
		e.emitAudit(ctx, auditEventGuardDenied, false, caller, "", "", req.PauseKey, ErrUnauthorized, nil)
		return Decision{Allowed: false, Reason: ErrUnauthorized}, nil
	}

	if req.PauseKey != "" {
		paused, err := e.IsPaused(ctx, req.PauseKey)
		if err != nil {
			return Decision{}, err
		}
		if paused {
			e.metricInc(MetricCheckDenyPaused)
			e.emitAudit(ctx, auditEventGuardDenied, false, caller, "", "", req.PauseKey, ErrPaused, nil)
			return Decision{Allowed: false, Reason: ErrPaused}, nil
		}
	}

	e.metricInc(MetricCheckAllow)
	return Decision{Allowed: true}, nil
}

// Guarded describes the guarded operation and its observable behavior.
//
// Guarded may return an error when input validation, dependency calls, or security checks fail.
// Guarded does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Guarded(req Requirement, fn func(ctx context.Context) error) func(ctx context.Context, caller string) error {
	return func(ctx context.Context, caller string) error {
		decision, err := e.Check(ctx, caller, req)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			return decision.Reason
		}
		return fn(ctx)
	}
}
