package goGuard

import (
	"strings"
	"testing"
)

func TestBuildRequiresRedis(t *testing.T) {
	_, err := New().
		WithRoles("minter").
		WithSuperAdmins("root").
		Build()
	if err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("expected redis requirement error, got %v", err)
	}
}

func TestBuildRequiresRoles(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	_, err := New().
		WithRedis(rdb).
		WithSuperAdmins("root").
		Build()
	if err == nil || !strings.Contains(err.Error(), "roles") {
		t.Fatalf("expected roles requirement error, got %v", err)
	}
}

func TestBuildRequiresSuperAdmins(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	_, err := New().
		WithRedis(rdb).
		WithRoles("minter", "pause-manager", "upgrade-manager").
		Build()
	if err == nil || !strings.Contains(err.Error(), "super-admin") {
		t.Fatalf("expected super-admin requirement error, got %v", err)
	}
}

func TestBuildRequiresManagerRolesRegistered(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	// Default config enables pausing with role "pause-manager", which is
	// not in the declared role set.
	_, err := New().
		WithRedis(rdb).
		WithRoles("minter").
		WithSuperAdmins("root").
		Build()
	if err == nil || !strings.Contains(err.Error(), "ManagerRole") {
		t.Fatalf("expected manager role registration error, got %v", err)
	}
}

func TestBuildRejectsDuplicateRole(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	_, err := New().
		WithRedis(rdb).
		WithRoles("minter", "minter", "pause-manager", "upgrade-manager").
		WithSuperAdmins("root").
		Build()
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate role error, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	builder := New().
		WithRedis(rdb).
		WithRoles("minter", "pause-manager", "upgrade-manager").
		WithSuperAdmins("root")

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildFrozenRegistry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine, err := New().
		WithRedis(rdb).
		WithRoles("minter", "pause-manager", "upgrade-manager").
		WithSuperAdmins("root").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.Registry().Register("late"); err == nil {
		t.Fatal("expected registry to be frozen after Build")
	}
}

func TestBuild128BitWidth(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Acl.MaxBits = 128

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithRoles("minter", "pause-manager", "upgrade-manager").
		WithSuperAdmins("root").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.Registry().MaxBits() != 128 {
		t.Fatalf("expected 128-bit registry, got %d", engine.Registry().MaxBits())
	}
	if engine.Registry().SuperBit() != 127 {
		t.Fatalf("expected super bit 127, got %d", engine.Registry().SuperBit())
	}
}
