package goGuard

import (
	"errors"
	"time"
)

// Config defines a public type used by goGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Storage StorageConfig
	Acl     AclConfig
	Pause   PauseConfig
	Upgrade UpgradeConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by goGuard APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	RedisPrefix string
}

/*
====================================
ACL CONFIG
====================================
*/

// AclConfig defines a public type used by goGuard APIs.
//
// AclConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AclConfig struct {
	MaxBits int // mask width: 64 (default) or 128

	// SuperAdminOnlyManagement disables role-scoped admin bits for grant and
	// revoke authorization: only super-admins may manage roles. Default off,
	// meaning each role's paired admin bit authorizes management of that role.
	SuperAdminOnlyManagement bool
}

/*
====================================
PAUSE CONFIG
====================================
*/

// PauseConfig defines a public type used by goGuard APIs.
//
// PauseConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PauseConfig struct {
	Enabled     bool
	ManagerRole string

	// WildcardExempt lists feature keys that ignore the contract-wide
	// wildcard pause. An exempt key is paused only by an explicit pause of
	// that exact key. Fixed at deployment.
	WildcardExempt []string
}

/*
====================================
UPGRADE CONFIG
====================================
*/

// UpgradeConfig defines a public type used by goGuard APIs.
//
// UpgradeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UpgradeConfig struct {
	Enabled      bool
	ManagerRole  string
	MinimumDelay time.Duration

	// AllowZeroDelay permits MinimumDelay <= 0. Exists for tests and local
	// development only; a production deployment without a staging window
	// forfeits the observation period that is the point of the protocol.
	AllowZeroDelay bool
}

// AuditConfig defines a public type used by goGuard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goGuard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			RedisPrefix: "gv",
		},
		Acl: AclConfig{
			MaxBits:                  64,
			SuperAdminOnlyManagement: false,
		},
		Pause: PauseConfig{
			Enabled:     true,
			ManagerRole: "pause-manager",
		},
		Upgrade: UpgradeConfig{
			Enabled:      true,
			ManagerRole:  "upgrade-manager",
			MinimumDelay: 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Pause.WildcardExempt = append([]string(nil), cfg.Pause.WildcardExempt...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Storage
	if c.Storage.RedisPrefix == "" {
		return errors.New("Storage RedisPrefix must not be empty")
	}

	// Acl
	if c.Acl.MaxBits != 64 && c.Acl.MaxBits != 128 {
		return errors.New("Acl MaxBits must be 64 or 128")
	}

	// Pause
	if c.Pause.Enabled {
		if c.Pause.ManagerRole == "" {
			return errors.New("Pause ManagerRole must not be empty")
		}
		for _, key := range c.Pause.WildcardExempt {
			if key == "" {
				return errors.New("Pause WildcardExempt keys must not be empty")
			}
			if key == PauseAll {
				return errors.New("Pause WildcardExempt must not contain the wildcard key")
			}
		}
	}

	// Upgrade
	if c.Upgrade.Enabled {
		if c.Upgrade.ManagerRole == "" {
			return errors.New("Upgrade ManagerRole must not be empty")
		}
		if c.Upgrade.MinimumDelay <= 0 && !c.Upgrade.AllowZeroDelay {
			return errors.New("Upgrade MinimumDelay must be > 0")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}
