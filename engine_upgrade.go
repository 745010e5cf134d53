package goGuard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goGuard/internal"
	"github.com/MrEthical07/goGuard/role"
	"github.com/MrEthical07/goGuard/state"
)

// StageUpgrade describes the stageupgrade operation and its observable behavior.
//
// StageUpgrade may return an error when input validation, dependency calls, or security checks fail.
// StageUpgrade does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) StageUpgrade(ctx context.Context, caller string, code []byte) (*StagedInfo, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Upgrade.Enabled {
		return nil, ErrUpgradesDisabled
	}
	if len(code) == 0 {
		e.metricInc(MetricUpgradeRejected)
		e.emitAudit(ctx, auditEventUpgradeStaged, false, caller, "", "", "", ErrEmptyCode, nil)
		return nil, ErrEmptyCode
	}

	if err := e.Require(ctx, caller, role.Any(e.config.Upgrade.ManagerRole)); err != nil {
		e.emitAudit(ctx, auditEventUpgradeStaged, false, caller, "", "", "", err, nil)
		return nil, err
	}

	stagedAt := e.clock()
	rec := state.StagedRecord{
		StageID:    uuid.NewString(),
		CodeHash:   internal.HashCodeBlob(code),
		Blob:       code,
		StagedAtMs: stagedAt.UnixMilli(),
	}
	// Staging replaces any previous staged blob unconditionally.
	if err := e.store.StageCode(ctx, rec); err != nil {
		return nil, mapStateErr(err)
	}

	e.metricInc(MetricUpgradeStaged)
	e.emitAudit(ctx, auditEventUpgradeStaged, true, caller, "", "", rec.CodeHash, nil, func() map[string]string {
		return map[string]string{
			"stage_id":  rec.StageID,
			"code_size": strconv.Itoa(len(code)),
		}
	})

	return &StagedInfo{
		StageID:  rec.StageID,
		CodeHash: rec.CodeHash,
		StagedAt: time.UnixMilli(rec.StagedAtMs).UTC(),
	}, nil
}

// CommitUpgrade describes the commitupgrade operation and its observable behavior.
//
// CommitUpgrade may return an error when input validation, dependency calls, or security checks fail.
// CommitUpgrade does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CommitUpgrade(ctx context.Context, caller, expectedHash string) (*CodeInfo, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Upgrade.Enabled {
		return nil, ErrUpgradesDisabled
	}

	if err := e.Require(ctx, caller, role.Any(e.config.Upgrade.ManagerRole)); err != nil {
		e.emitAudit(ctx, auditEventUpgradeCommitted, false, caller, "", "", expectedHash, err, nil)
		return nil, err
	}

	nowMs := e.clock().UnixMilli()
	delayMs := e.config.Upgrade.MinimumDelay.Milliseconds()

	prevVersion, prevHash, err := e.store.CommitCode(ctx, expectedHash, nowMs, delayMs)
	if err != nil {
		mapped := mapStateErr(err)
		e.metricInc(MetricUpgradeRejected)
		e.emitAudit(ctx, auditEventUpgradeCommitted, false, caller, "", "", expectedHash, mapped, nil)
		return nil, mapped
	}
	newVersion := prevVersion + 1

	live, err := e.store.LiveCode(ctx)
	if err != nil {
		return nil, mapStateErr(err)
	}

	e.metricInc(MetricUpgradeCommitted)
	e.emitAudit(ctx, auditEventUpgradeCommitted, true, caller, "", "", expectedHash, nil, func() map[string]string {
		return map[string]string{
			"version":   strconv.FormatUint(newVersion, 10),
			"prev_hash": prevHash,
		}
	})

	info := &CodeInfo{
		CodeHash: expectedHash,
		Version:  newVersion,
	}
	if live != nil {
		info.Blob = live.Blob
	}

	// Migration runs after the swap is durable. A hook failure is
	// surfaced to the caller but never rolls the committed code back.
	if e.hook != nil {
		if hookErr := e.hook(ctx, prevVersion, prevHash); hookErr != nil {
			wrapped := fmt.Errorf("%w: %v", ErrMigrationFailed, hookErr)
			e.emitAudit(ctx, auditEventUpgradeCommitted, false, caller, "", "", expectedHash, wrapped, nil)
			return info, wrapped
		}
	}

	return info, nil
}

// DiscardUpgrade describes the discardupgrade operation and its observable behavior.
//
// DiscardUpgrade may return an error when input validation, dependency calls, or security checks fail.
// DiscardUpgrade does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) DiscardUpgrade(ctx context.Context, caller string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	if !e.config.Upgrade.Enabled {
		return false, ErrUpgradesDisabled
	}

	if err := e.Require(ctx, caller, role.Any(e.config.Upgrade.ManagerRole)); err != nil {
		e.emitAudit(ctx, auditEventUpgradeDiscarded, false, caller, "", "", "", err, nil)
		return false, err
	}

	existed, err := e.store.DiscardCode(ctx)
	if err != nil {
		return false, mapStateErr(err)
	}
	if existed {
		e.metricInc(MetricUpgradeDiscarded)
		e.emitAudit(ctx, auditEventUpgradeDiscarded, true, caller, "", "", "", nil, nil)
	}
	return existed, nil
}

// StagedUpgrade describes the stagedupgrade operation and its observable behavior.
//
// StagedUpgrade may return an error when input validation, dependency calls, or security checks fail.
// StagedUpgrade does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) StagedUpgrade(ctx context.Context) (*StagedInfo, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	rec, err := e.store.StagedCode(ctx)
	if err != nil {
		return nil, mapStateErr(err)
	}
	if rec == nil {
		return nil, nil
	}
	return &StagedInfo{
		StageID:  rec.StageID,
		CodeHash: rec.CodeHash,
		StagedAt: time.UnixMilli(rec.StagedAtMs).UTC(),
	}, nil
}

// LiveCode describes the livecode operation and its observable behavior.
//
// LiveCode may return an error when input validation, dependency calls, or security checks fail.
// LiveCode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) LiveCode(ctx context.Context) (*CodeInfo, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	rec, err := e.store.LiveCode(ctx)
	if err != nil {
		return nil, mapStateErr(err)
	}
	if rec == nil {
		return nil, nil
	}
	return &CodeInfo{
		CodeHash: rec.CodeHash,
		Version:  rec.Version,
		Blob:     rec.Blob,
	}, nil
}
