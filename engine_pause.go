package goGuard

import (
	"context"

	"github.com/MrEthical07/goGuard/role"
)

// PauseAll is an exported constant or variable used by the governance engine.
//
// Pausing PauseAll halts every pause-guarded feature except keys listed
// in the deployment's wildcard-exempt set, which only react to an
// explicit pause of their own key.
const PauseAll = "*"

// Pause describes the pause operation and its observable behavior.
//
// Pause may return an error when input validation, dependency calls, or security checks fail.
// Pause does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Pause(ctx context.Context, caller, key string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	if !e.config.Pause.Enabled {
		return false, ErrPausingDisabled
	}
	if key == "" {
		e.emitAudit(ctx, auditEventPaused, false, caller, "", "", key, ErrInvalidPauseKey, nil)
		return false, ErrInvalidPauseKey
	}

	if err := e.Require(ctx, caller, role.Any(e.config.Pause.ManagerRole)); err != nil {
		e.emitAudit(ctx, auditEventPaused, false, caller, "", "", key, err, nil)
		return false, err
	}

	changed, err := e.store.AddPaused(ctx, key)
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricPauseSet)
		e.emitAudit(ctx, auditEventPaused, true, caller, "", "", key, nil, nil)
	}
	return changed, nil
}

// Unpause describes the unpause operation and its observable behavior.
//
// Unpause may return an error when input validation, dependency calls, or security checks fail.
// Unpause does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Unpause(ctx context.Context, caller, key string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	if !e.config.Pause.Enabled {
		return false, ErrPausingDisabled
	}
	if key == "" {
		e.emitAudit(ctx, auditEventUnpaused, false, caller, "", "", key, ErrInvalidPauseKey, nil)
		return false, ErrInvalidPauseKey
	}

	if err := e.Require(ctx, caller, role.Any(e.config.Pause.ManagerRole)); err != nil {
		e.emitAudit(ctx, auditEventUnpaused, false, caller, "", "", key, err, nil)
		return false, err
	}

	changed, err := e.store.RemovePaused(ctx, key)
	if err != nil {
		return false, mapStateErr(err)
	}
	if changed {
		e.metricInc(MetricPauseCleared)
		e.emitAudit(ctx, auditEventUnpaused, true, caller, "", "", key, nil, nil)
	}
	return changed, nil
}

// IsPaused describes the ispaused operation and its observable behavior.
//
// IsPaused may return an error when input validation, dependency calls, or security checks fail.
// IsPaused does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsPaused(ctx context.Context, key string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	if !e.config.Pause.Enabled {
		return false, nil
	}
	if key == "" {
		return false, ErrInvalidPauseKey
	}

	explicit, err := e.store.IsPausedKey(ctx, key)
	if err != nil {
		return false, mapStateErr(err)
	}
	if explicit {
		return true, nil
	}

	// Wildcard-exempt keys ignore the global pause.
	if _, exempt := e.exempt[key]; exempt {
		return false, nil
	}

	all, err := e.store.IsPausedKey(ctx, PauseAll)
	if err != nil {
		return false, mapStateErr(err)
	}
	return all, nil
}

// PausedKeys describes the pausedkeys operation and its observable behavior.
//
// PausedKeys may return an error when input validation, dependency calls, or security checks fail.
// PausedKeys does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) PausedKeys(ctx context.Context) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Pause.Enabled {
		return nil, nil
	}

	keys, err := e.store.PausedKeys(ctx)
	if err != nil {
		return nil, mapStateErr(err)
	}
	return keys, nil
}
