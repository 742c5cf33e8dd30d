// Package transport moves framed messages between the controller and the
// daemon. A frame is one markup document followed by a single terminator
// byte; the terminator never appears inside a document.
package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfulz/boincgeist/protocol"
)

// Option configures a Conn.
type Option func(*Conn)

// WithTerminator overrides the end-of-message byte.
func WithTerminator(b byte) Option {
	return func(c *Conn) { c.term = b }
}

// WithTimeout bounds dialing and every single send or receive.
func WithTimeout(d time.Duration) Option {
	return func(c *Conn) { c.timeout = d }
}

// WithLogger sets the logger used for frame-level debug output.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Conn) {
		if l != nil {
			c.log = l
		}
	}
}

// Conn is one stream connection to a daemon. It is not safe for concurrent
// Send or Receive calls; the dispatcher serializes them. Close may be called
// from any goroutine.
type Conn struct {
	rwc     io.ReadWriteCloser
	r       *bufio.Reader
	addr    string
	id      string
	term    byte
	timeout time.Duration
	log     *zap.SugaredLogger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

func newConn(opts []Option) *Conn {
	c := &Conn{
		id:   uuid.NewString(),
		term: protocol.Terminator,
		log:  zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Dial opens a TCP connection to address. Failures are ConnectFailed.
func Dial(ctx context.Context, address string, opts ...Option) (*Conn, error) {
	c := newConn(opts)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, protocol.ConnectFailed(address, err)
	}
	c.attach(nc, address)
	c.log.Debugw("connected", "conn", c.id, "addr", address)
	return c, nil
}

// New wraps an already established stream.
func New(rwc io.ReadWriteCloser, opts ...Option) *Conn {
	c := newConn(opts)
	addr := "stream"
	if nc, ok := rwc.(net.Conn); ok && nc.RemoteAddr() != nil {
		addr = nc.RemoteAddr().String()
	}
	c.attach(rwc, addr)
	return c
}

func (c *Conn) attach(rwc io.ReadWriteCloser, addr string) {
	c.rwc = rwc
	c.r = bufio.NewReader(rwc)
	c.addr = addr
	c.log = c.log.With("conn", c.id)
}

// ID returns the unique id of this connection, used in log fields.
func (c *Conn) ID() string { return c.id }

// Address returns the remote address.
func (c *Conn) Address() string { return c.addr }

// Terminator returns the configured end-of-message byte.
func (c *Conn) Terminator() byte { return c.term }

// Closed reports whether the connection has been closed.
func (c *Conn) Closed() bool { return c.closed.Load() }

// Close releases the socket. It is idempotent.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.rwc.Close()
		c.log.Debugw("closed", "addr", c.addr)
	})
	return c.closeErr
}

// arm maps the context and the per-operation timeout onto a stream deadline.
// Streams without deadline support are closed when the context ends.
func (c *Conn) arm(ctx context.Context, set func(time.Time) error) (context.Context, func()) {
	cancel := func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	if set == nil {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		return ctx, func() { stop(); cancel() }
	}

	dl, _ := ctx.Deadline()
	_ = set(dl)
	stop := context.AfterFunc(ctx, func() { _ = set(time.Unix(1, 0)) })
	return ctx, func() {
		stop()
		cancel()
		_ = set(time.Time{})
	}
}

// Send writes msg followed by the terminator. Short writes are retried until
// the whole frame is out; a real I/O error is returned as IoFailed and closes
// the connection.
func (c *Conn) Send(ctx context.Context, msg []byte) error {
	if c.Closed() {
		return protocol.Closed("send", net.ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return protocol.IoFailed("send", err)
	}

	var set func(time.Time) error
	if d, ok := c.rwc.(deadliner); ok {
		set = d.SetWriteDeadline
	}
	ctx, done := c.arm(ctx, set)
	defer done()

	frame := make([]byte, 0, len(msg)+1)
	frame = append(frame, msg...)
	frame = append(frame, c.term)

	for len(frame) > 0 {
		n, err := c.rwc.Write(frame)
		frame = frame[n:]
		if err == nil && n == 0 {
			err = io.ErrShortWrite
		}
		if err != nil {
			return c.fail(ctx, "send", err)
		}
	}
	c.log.Debugw("sent frame", "bytes", len(msg))
	return nil
}

// Receive reads one frame and returns it without the terminator. End of
// stream before a terminator is Closed; any other failure is IoFailed. Both
// close the connection.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	if c.Closed() {
		return nil, protocol.Closed("receive", net.ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return nil, protocol.IoFailed("receive", err)
	}

	var set func(time.Time) error
	if d, ok := c.rwc.(deadliner); ok {
		set = d.SetReadDeadline
	}
	ctx, done := c.arm(ctx, set)
	defer done()

	data, err := c.r.ReadBytes(c.term)
	if err != nil {
		return nil, c.fail(ctx, "receive", err)
	}
	data = data[:len(data)-1]
	c.log.Debugw("received frame", "bytes", len(data))
	return data, nil
}

func (c *Conn) fail(ctx context.Context, op string, err error) error {
	wasClosed := c.Closed()
	_ = c.Close()
	c.log.Debugw("frame i/o failed", "op", op, "error", err)

	switch {
	case ctx.Err() != nil:
		return protocol.IoFailed(op, errors.Join(ctx.Err(), err))
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrNoProgress):
		return protocol.Closed(op, err)
	case wasClosed, errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		return protocol.Closed(op, err)
	default:
		return protocol.IoFailed(op, err)
	}
}
