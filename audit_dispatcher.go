package goGuard

import (
	"context"
	"sync/atomic"
)

// auditDispatcher decouples audit delivery from the governance hot path.
// Events are queued onto a buffered channel and forwarded to the sink by a
// single goroutine; Close drains whatever is still queued before returning.
// Sink calls receive a dispatcher-owned context that Close cancels, so a
// sink stuck in Emit cannot wedge shutdown.
type auditDispatcher struct {
	sink       AuditSink
	queue      chan AuditEvent
	quit       chan struct{}
	drained    chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	dropIfFull bool
	dropped    atomic.Uint64
	stopping   atomic.Bool
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &auditDispatcher{
		sink:       sink,
		queue:      make(chan AuditEvent, buffer),
		quit:       make(chan struct{}),
		drained:    make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		dropIfFull: cfg.DropIfFull,
	}

	go d.forward()

	return d
}

func (d *auditDispatcher) forward() {
	defer close(d.drained)

	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(d.ctx, event)
		case <-d.quit:
			d.flush()
			return
		}
	}
}

// flush delivers events still buffered at shutdown. Delivery is
// best-effort: once Close cancels the dispatcher context, a sink may
// discard the remainder instead of blocking.
func (d *auditDispatcher) flush() {
	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(d.ctx, event)
		default:
			return
		}
	}
}

// Emit describes the emit operation and its observable behavior.
//
// Emit may return an error when input validation, dependency calls, or security checks fail.
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.stopping.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close stops the forwarding goroutine after a best-effort drain of
// queued events. The dispatcher context is cancelled so an in-flight
// sink Emit unblocks; Close never hangs on a stuck sink. It is safe to
// call more than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	if d.stopping.CompareAndSwap(false, true) {
		close(d.quit)
		d.cancel()
	}
	<-d.drained
}

func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
