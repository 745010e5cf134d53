package goGuard

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGuard/role"
	"github.com/MrEthical07/goGuard/state"
)

// Builder defines a public type used by goGuard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	roles       []string
	superAdmins []string

	auditSink AuditSink
	hook      MigrationHook
	now       TimeSource

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithRoles describes the withroles operation and its observable behavior.
//
// WithRoles may return an error when input validation, dependency calls, or security checks fail.
// WithRoles does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRoles(names ...string) *Builder {
	b.roles = names
	return b
}

// WithSuperAdmins describes the withsuperadmins operation and its observable behavior.
//
// WithSuperAdmins may return an error when input validation, dependency calls, or security checks fail.
// WithSuperAdmins does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSuperAdmins(accounts ...string) *Builder {
	b.superAdmins = accounts
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMigrationHook describes the withmigrationhook operation and its observable behavior.
//
// WithMigrationHook may return an error when input validation, dependency calls, or security checks fail.
// WithMigrationHook does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMigrationHook(hook MigrationHook) *Builder {
	b.hook = hook
	return b
}

// WithTimeSource describes the withtimesource operation and its observable behavior.
//
// WithTimeSource may return an error when input validation, dependency calls, or security checks fail.
// WithTimeSource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTimeSource(now TimeSource) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(b.roles) == 0 {
		return nil, errors.New("roles must be provided")
	}

	if len(b.superAdmins) == 0 {
		return nil, errors.New("at least one initial super-admin required")
	}

	// -------- ROLE REGISTRY --------
	registry, err := role.NewRegistry(cfg.Acl.MaxBits)
	if err != nil {
		return nil, err
	}

	for _, name := range b.roles {
		if _, err := registry.Register(name); err != nil {
			return nil, err
		}
	}

	registry.Freeze()

	if cfg.Pause.Enabled {
		if _, ok := registry.Bit(cfg.Pause.ManagerRole); !ok {
			return nil, errors.New("Pause ManagerRole does not exist in registry")
		}
	}
	if cfg.Upgrade.Enabled {
		if _, ok := registry.Bit(cfg.Upgrade.ManagerRole); !ok {
			return nil, errors.New("Upgrade ManagerRole does not exist in registry")
		}
	}

	exempt := make(map[string]struct{}, len(cfg.Pause.WildcardExempt))
	for _, key := range cfg.Pause.WildcardExempt {
		exempt[key] = struct{}{}
	}

	engine := &Engine{
		config:             cfg,
		registry:           registry,
		store:              state.NewStore(b.redis, cfg.Storage.RedisPrefix),
		hook:               b.hook,
		now:                b.now,
		exempt:             exempt,
		initialSuperAdmins: append([]string(nil), b.superAdmins...),
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true
	return engine, nil
}
