package goGuard

import (
	"context"
	"time"

	"github.com/MrEthical07/goGuard/role"
)

// Requirement declares what an entry point demands before its business logic
// may run: a role predicate over the caller and, optionally, a feature key
// that must not be paused. The zero value is the open requirement (no role,
// no pause key).
type Requirement struct {
	Predicate role.Predicate
	PauseKey  string
}

// Decision is returned by [Engine.Check]. When Allowed is false, Reason
// carries the first failing condition: [ErrUnauthorized] when the predicate
// failed, [ErrPaused] when the feature is paused.
type Decision struct {
	Allowed bool
	Reason  error
}

// StagedInfo describes the staged-upgrade slot. StageID is a fresh unique
// identifier per stage call, carried through audit events so observers can
// correlate a commit or discard with the staging that produced it.
type StagedInfo struct {
	StageID  string
	CodeHash string
	StagedAt time.Time
}

// CodeInfo describes the live contract code. Version is zero until the first
// committed upgrade and increments by one on every commit.
type CodeInfo struct {
	CodeHash string
	Version  uint64
	Blob     []byte
}

// MigrationHook runs after a committed upgrade has replaced the live code,
// receiving the previous code's version marker and hash. Hosts use it to
// migrate persistent state owned by the replaced code.
type MigrationHook func(ctx context.Context, prevVersion uint64, prevCodeHash string) error

// TimeSource supplies the current time to the upgrade protocol. Hosts
// normally wire the chain's block timestamp; it defaults to time.Now.
type TimeSource func() time.Time
