package internaldefs

import (
	goGuard "github.com/MrEthical07/goGuard"
)

// CounterDef defines a public type used by goGuard APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goGuard APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the governance engine.
var CounterDefs = []CounterDef{
	{ID: goGuard.MetricCheckAllow, Name: "goguard_check_allow_total", Help: "Guard checks that allowed the call."},
	{ID: goGuard.MetricCheckDenyUnauthorized, Name: "goguard_check_deny_unauthorized_total", Help: "Guard checks denied by the role predicate."},
	{ID: goGuard.MetricCheckDenyPaused, Name: "goguard_check_deny_paused_total", Help: "Guard checks denied by a paused feature key."},
	{ID: goGuard.MetricRoleGranted, Name: "goguard_role_granted_total", Help: "Role grants that changed state."},
	{ID: goGuard.MetricRoleRevoked, Name: "goguard_role_revoked_total", Help: "Role revocations that changed state."},
	{ID: goGuard.MetricAdminAdded, Name: "goguard_admin_added_total", Help: "Role-admin grants that changed state."},
	{ID: goGuard.MetricAdminRevoked, Name: "goguard_admin_revoked_total", Help: "Role-admin revocations that changed state."},
	{ID: goGuard.MetricSuperAdminAdded, Name: "goguard_super_admin_added_total", Help: "Super-admin additions that changed state."},
	{ID: goGuard.MetricSuperAdminRevoked, Name: "goguard_super_admin_revoked_total", Help: "Super-admin revocations that changed state."},
	{ID: goGuard.MetricLockoutPrevented, Name: "goguard_lockout_prevented_total", Help: "Super-admin revocations refused to avoid lockout."},
	{ID: goGuard.MetricUnauthorizedAttempt, Name: "goguard_unauthorized_attempt_total", Help: "Operations rejected for missing authorization."},
	{ID: goGuard.MetricPauseSet, Name: "goguard_pause_set_total", Help: "Pause operations that added a key."},
	{ID: goGuard.MetricPauseCleared, Name: "goguard_pause_cleared_total", Help: "Unpause operations that removed a key."},
	{ID: goGuard.MetricUpgradeStaged, Name: "goguard_upgrade_staged_total", Help: "Staged code upgrades."},
	{ID: goGuard.MetricUpgradeCommitted, Name: "goguard_upgrade_committed_total", Help: "Committed code upgrades."},
	{ID: goGuard.MetricUpgradeDiscarded, Name: "goguard_upgrade_discarded_total", Help: "Discarded staged upgrades."},
	{ID: goGuard.MetricUpgradeRejected, Name: "goguard_upgrade_rejected_total", Help: "Upgrade operations rejected by protocol checks."},
}

// HistogramDefs is an exported constant or variable used by the governance engine.
var HistogramDefs = []HistogramDef{
	{ID: goGuard.MetricCheckLatency, Name: "goguard_check_latency_seconds", Help: "Guard check latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the governance engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the governance engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
