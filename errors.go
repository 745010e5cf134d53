package goGuard

import (
	"errors"

	"github.com/MrEthical07/goGuard/state"
)

var (
	// ErrUnauthorized is an exported constant or variable used by the governance engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPaused is an exported constant or variable used by the governance engine.
	ErrPaused = errors.New("feature paused")
	// ErrWouldLockOut is an exported constant or variable used by the governance engine.
	ErrWouldLockOut = errors.New("revoke would remove last super-admin")
	// ErrUnknownRole is an exported constant or variable used by the governance engine.
	ErrUnknownRole = errors.New("unknown role")
	// ErrInvalidPauseKey is an exported constant or variable used by the governance engine.
	ErrInvalidPauseKey = errors.New("invalid pause key")
	// ErrPausingDisabled is an exported constant or variable used by the governance engine.
	ErrPausingDisabled = errors.New("pausing disabled")
	// ErrUpgradesDisabled is an exported constant or variable used by the governance engine.
	ErrUpgradesDisabled = errors.New("upgrades disabled")
	// ErrNotStaged is an exported constant or variable used by the governance engine.
	ErrNotStaged = errors.New("no upgrade staged")
	// ErrTooEarly is an exported constant or variable used by the governance engine.
	ErrTooEarly = errors.New("upgrade staging delay not elapsed")
	// ErrHashMismatch is an exported constant or variable used by the governance engine.
	ErrHashMismatch = errors.New("staged code hash mismatch")
	// ErrEmptyCode is an exported constant or variable used by the governance engine.
	ErrEmptyCode = errors.New("empty code blob")
	// ErrMigrationFailed is an exported constant or variable used by the governance engine.
	ErrMigrationFailed = errors.New("migration hook failed")
	// ErrStoreUnavailable is an exported constant or variable used by the governance engine.
	ErrStoreUnavailable = errors.New("governance store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the governance engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// mapStateErr translates storage-layer sentinels into engine sentinels
// so callers only ever match against the errors this package exports.
func mapStateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, state.ErrWouldLockOut):
		return ErrWouldLockOut
	case errors.Is(err, state.ErrNotStaged):
		return ErrNotStaged
	case errors.Is(err, state.ErrTooEarly):
		return ErrTooEarly
	case errors.Is(err, state.ErrHashMismatch):
		return ErrHashMismatch
	case errors.Is(err, state.ErrStoreUnavailable):
		return ErrStoreUnavailable
	default:
		return err
	}
}
