package goGuard

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

func auditTestConfig() Config {
	cfg := govTestConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 64
	cfg.Audit.DropIfFull = true
	return cfg
}

func drainEventOfType(t *testing.T, sink *ChannelSink, eventType string) AuditEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-sink.Events():
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", eventType)
			return AuditEvent{}
		}
	}
}

func TestAuditEventForGrant(t *testing.T) {
	sink := NewChannelSink(64)
	engine, done := newGovEngine(t, auditTestConfig(), func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()

	ctx := WithOrigin(context.Background(), "tx-abc123")
	if _, err := engine.GrantRole(ctx, "root", "minter", "alice"); err != nil {
		t.Fatalf("GrantRole failed: %v", err)
	}

	event := drainEventOfType(t, sink, auditEventRoleGranted)
	if !event.Success {
		t.Fatal("expected success event")
	}
	if event.Caller != "root" || event.Account != "alice" || event.Role != "minter" {
		t.Fatalf("unexpected event fields: %+v", event)
	}
	if event.Origin != "tx-abc123" {
		t.Fatalf("expected origin from context, got %q", event.Origin)
	}
	if event.EventID == "" {
		t.Fatal("expected a unique event id")
	}
}

func TestAuditEventForDeniedGrant(t *testing.T) {
	sink := NewChannelSink(64)
	engine, done := newGovEngine(t, auditTestConfig(), func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()

	if _, err := engine.GrantRole(context.Background(), "mallory", "minter", "mallory"); err == nil {
		t.Fatal("expected denied grant")
	}

	event := drainEventOfType(t, sink, auditEventRoleGranted)
	if event.Success {
		t.Fatal("expected failure event")
	}
	if event.Error != string(auditErrUnauthorized) {
		t.Fatalf("expected unauthorized error code, got %q", event.Error)
	}
}

func TestAuditEventForLockout(t *testing.T) {
	sink := NewChannelSink(64)
	engine, done := newGovEngine(t, auditTestConfig(), func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()

	if _, err := engine.RenounceSuperAdmin(context.Background(), "root"); err == nil {
		t.Fatal("expected lockout refusal")
	}

	event := drainEventOfType(t, sink, auditEventSuperAdminRevoked)
	if event.Success {
		t.Fatal("expected failure event")
	}
	if event.Error != string(auditErrWouldLockOut) {
		t.Fatalf("expected would_lock_out error code, got %q", event.Error)
	}
}

func TestAuditEventForUpgradeStage(t *testing.T) {
	sink := NewChannelSink(64)
	engine, done := newGovEngine(t, auditTestConfig(), func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()
	ctx := context.Background()

	if _, err := engine.GrantRole(ctx, "root", "upgrade-manager", "deployer"); err != nil {
		t.Fatalf("GrantRole failed: %v", err)
	}
	staged, err := engine.StageUpgrade(ctx, "deployer", []byte("contract-v2"))
	if err != nil {
		t.Fatalf("StageUpgrade failed: %v", err)
	}

	event := drainEventOfType(t, sink, auditEventUpgradeStaged)
	if !event.Success {
		t.Fatal("expected success event")
	}
	if event.Key != staged.CodeHash {
		t.Fatalf("expected staged hash in event key, got %q", event.Key)
	}
	if event.Metadata["stage_id"] != staged.StageID {
		t.Fatalf("expected stage id in metadata, got %v", event.Metadata)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	sink := NewChannelSink(64)

	cfg := govTestConfig()
	cfg.Audit.Enabled = false

	engine, done := newGovEngine(t, cfg, func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()

	if _, err := engine.GrantRole(context.Background(), "root", "minter", "alice"); err != nil {
		t.Fatalf("GrantRole failed: %v", err)
	}

	select {
	case event := <-sink.Events():
		t.Fatalf("expected no events with audit disabled, got %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAuditDropsWhenFull(t *testing.T) {
	// A sink that never consumes: the dispatcher blocks on the first
	// event and the buffer (size 1) absorbs one more.
	sink := NewChannelSink(1)

	cfg := auditTestConfig()
	cfg.Audit.BufferSize = 1

	engine, done := newGovEngine(t, cfg, func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := engine.GrantRole(ctx, "root", "minter", "alice"); i == 0 && err != nil {
			t.Fatalf("GrantRole failed: %v", err)
		}
		if _, err := engine.RevokeRole(ctx, "root", "minter", "alice"); i == 0 && err != nil {
			t.Fatalf("RevokeRole failed: %v", err)
		}
	}

	if engine.AuditDropped() == 0 {
		t.Fatal("expected dropped events with a full buffer")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		EventType: auditEventPaused,
		Caller:    "guardian",
		Key:       "mint",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{
		EventType: auditEventUnpaused,
		Caller:    "guardian",
		Key:       "mint",
		Success:   true,
	})

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var event AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid JSON line: %v", err)
		}
		if event.Caller != "guardian" || event.Key != "mint" {
			t.Fatalf("unexpected event: %+v", event)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", lines)
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), AuditEvent{EventType: "first"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Full channel + cancelled context: Emit must return, not block.
	doneCh := make(chan struct{})
	go func() {
		sink.Emit(ctx, AuditEvent{EventType: "second"})
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a cancelled context")
	}
}

// stuckSink blocks inside Emit until the dispatcher context is cancelled,
// simulating a consumer that stopped reading.
type stuckSink struct {
	entered   chan struct{}
	enterOnce sync.Once
}

func (s *stuckSink) Emit(ctx context.Context, _ AuditEvent) {
	s.enterOnce.Do(func() { close(s.entered) })
	<-ctx.Done()
}

func TestDispatcherCloseWithStuckSink(t *testing.T) {
	sink := &stuckSink{entered: make(chan struct{})}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	ctx := context.Background()
	d.Emit(ctx, AuditEvent{EventType: "first"})

	select {
	case <-sink.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("sink never received the first event")
	}

	// Sink is now wedged; queue another event so the buffer is not empty
	// at shutdown either.
	d.Emit(ctx, AuditEvent{EventType: "second"})

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on a stuck sink")
	}
}

func TestPauseInvalidKeyAuditCode(t *testing.T) {
	sink := NewChannelSink(64)
	engine, done := newGovEngine(t, auditTestConfig(), func(b *Builder) {
		b.WithAuditSink(sink)
	})
	defer done()

	if _, err := engine.Pause(context.Background(), "root", ""); !errors.Is(err, ErrInvalidPauseKey) {
		t.Fatalf("expected ErrInvalidPauseKey, got %v", err)
	}

	event := drainEventOfType(t, sink, auditEventPaused)
	if event.Success {
		t.Fatal("expected failure event")
	}
	if event.Error != string(auditErrInvalidKey) {
		t.Fatalf("expected invalid_pause_key error code, got %q", event.Error)
	}
}
