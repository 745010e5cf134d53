package goGuard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goGuard/internal"
)

func newUpgradeEngine(t *testing.T, cfg Config, opts ...func(*Builder)) (*Engine, *testClock, func()) {
	t.Helper()

	clock := newTestClock()
	opts = append(opts, func(b *Builder) {
		b.WithTimeSource(clock.Now)
	})

	engine, done := newGovEngine(t, cfg, opts...)

	ctx := context.Background()
	if _, err := engine.GrantRole(ctx, "root", "upgrade-manager", "deployer"); err != nil {
		done()
		t.Fatalf("GrantRole failed: %v", err)
	}
	return engine, clock, done
}

func TestStageCommitCycle(t *testing.T) {
	engine, clock, done := newUpgradeEngine(t, govTestConfig())
	defer done()
	ctx := context.Background()

	code := []byte("contract-v2")
	staged, err := engine.StageUpgrade(ctx, "deployer", code)
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	if staged.StageID == "" {
		t.Fatal("expected a stage id")
	}
	if staged.CodeHash != internal.HashCodeBlob(code) {
		t.Fatalf("unexpected staged hash %s", staged.CodeHash)
	}

	// Too early before the delay elapses.
	clock.Advance(time.Hour - time.Second)
	if _, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash); !errors.Is(err, ErrTooEarly) {
		t.Fatalf("expected ErrTooEarly, got %v", err)
	}

	// Boundary-inclusive: exactly the minimum delay commits.
	clock.Advance(time.Second)
	info, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash)
	if err != nil {
		t.Fatalf("CommitUpgrade failed: %v", err)
	}
	if info.Version != 1 {
		t.Fatalf("expected version 1, got %d", info.Version)
	}
	if info.CodeHash != staged.CodeHash {
		t.Fatalf("expected committed hash %s, got %s", staged.CodeHash, info.CodeHash)
	}

	live, err := engine.LiveCode(ctx)
	if err != nil {
		t.Fatalf("LiveCode failed: %v", err)
	}
	if live == nil || string(live.Blob) != "contract-v2" {
		t.Fatalf("unexpected live code: %+v", live)
	}

	// The slot is consumed: a second commit has nothing to deploy.
	if _, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash); !errors.Is(err, ErrNotStaged) {
		t.Fatalf("expected ErrNotStaged, got %v", err)
	}

	staged2, err := engine.StagedUpgrade(ctx)
	if err != nil {
		t.Fatalf("StagedUpgrade failed: %v", err)
	}
	if staged2 != nil {
		t.Fatal("expected empty staged slot after commit")
	}
}

func TestCommitHashMismatch(t *testing.T) {
	engine, clock, done := newUpgradeEngine(t, govTestConfig())
	defer done()
	ctx := context.Background()

	if _, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2")); err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	clock.Advance(2 * time.Hour)

	wrong := internal.HashCodeBlob([]byte("something-else"))
	if _, err := engine.CommitUpgrade(ctx, "deployer", wrong); !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}

	// The rejected commit keeps the slot so a correct hash still works.
	staged, err := engine.StagedUpgrade(ctx)
	if err != nil {
		t.Fatalf("StagedUpgrade failed: %v", err)
	}
	if staged == nil {
		t.Fatal("hash mismatch must not clear the staged slot")
	}
	if _, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash); err != nil {
		t.Fatalf("CommitUpgrade after mismatch failed: %v", err)
	}
}

func TestStageReplacesPendingAndResetsDelay(t *testing.T) {
	engine, clock, done := newUpgradeEngine(t, govTestConfig())
	defer done()
	ctx := context.Background()

	first, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}

	clock.Advance(2 * time.Hour)

	second, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v3"))
	if err != nil {
		t.Fatalf("StageUpgrade replace failed: %v", err)
	}
	if second.StageID == first.StageID {
		t.Fatal("restaging must mint a fresh stage id")
	}

	// The old hash is gone and the delay restarted at the second stage.
	if _, err := engine.CommitUpgrade(ctx, "deployer", first.CodeHash); !errors.Is(err, ErrTooEarly) {
		t.Fatalf("expected ErrTooEarly right after restage, got %v", err)
	}
	clock.Advance(time.Hour)
	if _, err := engine.CommitUpgrade(ctx, "deployer", first.CodeHash); !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch for replaced code, got %v", err)
	}
	if _, err := engine.CommitUpgrade(ctx, "deployer", second.CodeHash); err != nil {
		t.Fatalf("CommitUpgrade failed: %v", err)
	}
}

func TestStageEmptyCode(t *testing.T) {
	engine, _, done := newUpgradeEngine(t, govTestConfig())
	defer done()

	if _, err := engine.StageUpgrade(context.Background(), "deployer", nil); !errors.Is(err, ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
}

func TestUpgradeAuthorization(t *testing.T) {
	engine, clock, done := newUpgradeEngine(t, govTestConfig())
	defer done()
	ctx := context.Background()

	if _, err := engine.StageUpgrade(ctx, "mallory", []byte("evil")); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	staged, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	clock.Advance(2 * time.Hour)

	if _, err := engine.CommitUpgrade(ctx, "mallory", staged.CodeHash); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := engine.DiscardUpgrade(ctx, "mallory"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Super-admins bypass the manager-role requirement.
	if _, err := engine.CommitUpgrade(ctx, "root", staged.CodeHash); err != nil {
		t.Fatalf("CommitUpgrade by super-admin failed: %v", err)
	}
}

func TestDiscardUpgradeIdempotent(t *testing.T) {
	engine, _, done := newUpgradeEngine(t, govTestConfig())
	defer done()
	ctx := context.Background()

	existed, err := engine.DiscardUpgrade(ctx, "deployer")
	if err != nil {
		t.Fatalf("DiscardUpgrade on empty slot failed: %v", err)
	}
	if existed {
		t.Fatal("expected discard of empty slot to report false")
	}

	if _, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2")); err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}

	existed, err = engine.DiscardUpgrade(ctx, "deployer")
	if err != nil {
		t.Fatalf("DiscardUpgrade failed: %v", err)
	}
	if !existed {
		t.Fatal("expected discard to report an existing record")
	}

	staged, err := engine.StagedUpgrade(ctx)
	if err != nil {
		t.Fatalf("StagedUpgrade failed: %v", err)
	}
	if staged != nil {
		t.Fatal("expected empty slot after discard")
	}
}

func TestMigrationHookRunsAfterCommit(t *testing.T) {
	var gotPrevVersion uint64
	var gotPrevHash string
	hookRuns := 0

	cfg := govTestConfig()
	engine, clock, done := newUpgradeEngine(t, cfg, func(b *Builder) {
		b.WithMigrationHook(func(ctx context.Context, prevVersion uint64, prevCodeHash string) error {
			hookRuns++
			gotPrevVersion = prevVersion
			gotPrevHash = prevCodeHash
			return nil
		})
	})
	defer done()
	ctx := context.Background()

	staged, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	clock.Advance(2 * time.Hour)
	if _, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash); err != nil {
		t.Fatalf("CommitUpgrade failed: %v", err)
	}

	if hookRuns != 1 {
		t.Fatalf("expected one hook run, got %d", hookRuns)
	}
	if gotPrevVersion != 0 || gotPrevHash != "" {
		t.Fatalf("expected empty previous code, got version %d hash %q", gotPrevVersion, gotPrevHash)
	}

	// Second upgrade sees the first as the previous code.
	staged2, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v3"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	clock.Advance(2 * time.Hour)
	if _, err := engine.CommitUpgrade(ctx, "deployer", staged2.CodeHash); err != nil {
		t.Fatalf("CommitUpgrade failed: %v", err)
	}
	if gotPrevVersion != 1 || gotPrevHash != staged.CodeHash {
		t.Fatalf("expected previous version 1 hash %s, got %d %q", staged.CodeHash, gotPrevVersion, gotPrevHash)
	}
}

func TestMigrationHookFailureKeepsCommit(t *testing.T) {
	hookErr := errors.New("schema migration exploded")

	engine, clock, done := newUpgradeEngine(t, govTestConfig(), func(b *Builder) {
		b.WithMigrationHook(func(ctx context.Context, prevVersion uint64, prevCodeHash string) error {
			return hookErr
		})
	})
	defer done()
	ctx := context.Background()

	staged, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	clock.Advance(2 * time.Hour)

	info, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash)
	if !errors.Is(err, ErrMigrationFailed) {
		t.Fatalf("expected ErrMigrationFailed, got %v", err)
	}
	if info == nil || info.Version != 1 {
		t.Fatal("hook failure must still report the committed code")
	}

	// The swap itself is durable.
	live, err := engine.LiveCode(ctx)
	if err != nil {
		t.Fatalf("LiveCode failed: %v", err)
	}
	if live == nil || live.Version != 1 {
		t.Fatalf("expected committed live code despite hook failure, got %+v", live)
	}
}

func TestUpgradesDisabled(t *testing.T) {
	cfg := govTestConfig()
	cfg.Upgrade.Enabled = false

	engine, done := newGovEngine(t, cfg)
	defer done()
	ctx := context.Background()

	if _, err := engine.StageUpgrade(ctx, "root", []byte("code")); !errors.Is(err, ErrUpgradesDisabled) {
		t.Fatalf("expected ErrUpgradesDisabled, got %v", err)
	}
	if _, err := engine.CommitUpgrade(ctx, "root", "hash"); !errors.Is(err, ErrUpgradesDisabled) {
		t.Fatalf("expected ErrUpgradesDisabled, got %v", err)
	}
	if _, err := engine.DiscardUpgrade(ctx, "root"); !errors.Is(err, ErrUpgradesDisabled) {
		t.Fatalf("expected ErrUpgradesDisabled, got %v", err)
	}
}

func TestZeroDelayCommit(t *testing.T) {
	cfg := govTestConfig()
	cfg.Upgrade.MinimumDelay = 0
	cfg.Upgrade.AllowZeroDelay = true

	engine, _, done := newUpgradeEngine(t, cfg)
	defer done()
	ctx := context.Background()

	staged, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}
	if _, err := engine.CommitUpgrade(ctx, "deployer", staged.CodeHash); err != nil {
		t.Fatalf("zero-delay commit failed: %v", err)
	}
}
