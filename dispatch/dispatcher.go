// Package dispatch runs commands over a connection: it gates privileged
// commands, frames the request, waits for the reply and classifies failure
// shapes before handing the envelope to the command's decoder.
package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/protocol"
)

// Transport is the framed stream a Dispatcher talks over.
type Transport interface {
	Send(ctx context.Context, msg []byte) error
	Receive(ctx context.Context) ([]byte, error)
}

// Gate reports whether the session behind a dispatcher completed the
// handshake. *auth.Authenticator implements it.
type Gate interface {
	Authenticated() bool
}

// Observer is called once per dispatched command with its wire tag, the
// elapsed time and the final error, if any.
type Observer func(tag string, elapsed time.Duration, err error)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for per-command debug output.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, o) }
}

// Dispatcher serializes request/reply exchanges on one transport. Only one
// command is in flight at a time.
type Dispatcher struct {
	mu   sync.Mutex
	t    Transport
	gate Gate
	log  *zap.SugaredLogger

	obsMu     sync.RWMutex
	observers []Observer
}

// New creates a Dispatcher. A nil gate treats the session as never
// authenticated.
func New(t Transport, gate Gate, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		t:    t,
		gate: gate,
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe adds an observer.
func (d *Dispatcher) Observe(o Observer) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	d.observers = append(d.observers, o)
}

func (d *Dispatcher) notify(tag string, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		d.log.Debugw("command failed", "command", tag, "elapsed", elapsed, "error", err)
	} else {
		d.log.Debugw("command done", "command", tag, "elapsed", elapsed)
	}

	d.obsMu.RLock()
	defer d.obsMu.RUnlock()
	for _, o := range d.observers {
		o(tag, elapsed, err)
	}
}

func (d *Dispatcher) authenticated() bool {
	return d.gate != nil && d.gate.Authenticated()
}

// Dispatch sends req and returns the reply envelope once failure shapes have
// been ruled out.
func (d *Dispatcher) Dispatch(ctx context.Context, req interfaces.Request) (*protocol.Node, error) {
	start := time.Now()
	reply, err := d.roundTrip(ctx, req)
	d.notify(req.Tag(), start, err)
	return reply, err
}

func (d *Dispatcher) roundTrip(ctx context.Context, req interfaces.Request) (*protocol.Node, error) {
	tag := req.Tag()

	if v, ok := req.(interfaces.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, protocol.WithOp(err, tag)
		}
	}
	if req.Privileged() && !d.authenticated() {
		return nil, protocol.NotAuthenticated(tag)
	}

	msg := protocol.EncodeRequest(tag, req.Encode)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.t.Send(ctx, msg); err != nil {
		return nil, protocol.WithOp(err, tag)
	}
	raw, err := d.t.Receive(ctx)
	if err != nil {
		return nil, protocol.WithOp(err, tag)
	}

	reply, err := protocol.OpenReply(raw)
	if err != nil {
		return nil, protocol.WithOp(err, tag)
	}
	return reply, nil
}

// Execute dispatches cmd and decodes its reply.
func Execute[R any](ctx context.Context, d *Dispatcher, cmd interfaces.Command[R]) (R, error) {
	start := time.Now()

	var out R
	reply, err := d.roundTrip(ctx, cmd)
	if err == nil {
		out, err = cmd.Decode(reply)
		err = protocol.WithOp(err, cmd.Tag())
	}
	d.notify(cmd.Tag(), start, err)
	if err != nil {
		var zero R
		return zero, err
	}
	return out, nil
}
