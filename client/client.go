// Package client is the entry point for controlling a daemon. A Client owns
// one connection, its authentication state and the dispatcher that runs
// commands over it.
package client

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfulz/boincgeist/commands"
	"github.com/mfulz/boincgeist/dispatch"
	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/internal/auth"
	"github.com/mfulz/boincgeist/internal/transport"
	"github.com/mfulz/boincgeist/protocol"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	term      byte
	timeout   time.Duration
	log       *zap.SugaredLogger
	observers []dispatch.Observer
}

// WithTerminator overrides the end-of-message byte, e.g. protocol.LegacyTerminator.
func WithTerminator(b byte) Option {
	return func(o *options) { o.term = b }
}

// WithTimeout bounds dialing and every single send or receive.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger passed down to the connection and dispatcher.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver registers an observer called once per command.
func WithObserver(obs dispatch.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// DialFunc opens the underlying stream of a session.
type DialFunc func(ctx context.Context) (io.ReadWriteCloser, error)

// Client is a session with one daemon. It is safe for concurrent use;
// commands are executed one at a time.
type Client struct {
	opts options
	dial func(ctx context.Context) (*transport.Conn, error)

	mu   sync.RWMutex
	conn *transport.Conn
	auth *auth.Authenticator
	d    *dispatch.Dispatcher
}

// Address joins host and port, falling back to the daemon defaults.
func Address(host string, port int) string {
	if host == "" {
		host = protocol.DefaultHost
	}
	if port == 0 {
		port = protocol.DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func newClient(opts []Option) *Client {
	c := &Client{opts: options{term: protocol.Terminator, log: zap.NewNop().Sugar()}}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

func (c *Client) connOptions() []transport.Option {
	return []transport.Option{
		transport.WithTerminator(c.opts.term),
		transport.WithTimeout(c.opts.timeout),
		transport.WithLogger(c.opts.log),
	}
}

// Dial connects to the daemon at address (host:port).
func Dial(ctx context.Context, address string, opts ...Option) (*Client, error) {
	c := newClient(opts)
	c.dial = func(ctx context.Context) (*transport.Conn, error) {
		return transport.Dial(ctx, address, c.connOptions()...)
	}
	if err := c.Reconnect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Open starts a session over a stream produced by dial. Reconnect calls
// dial again.
func Open(ctx context.Context, dial DialFunc, opts ...Option) (*Client, error) {
	c := newClient(opts)
	c.dial = func(ctx context.Context) (*transport.Conn, error) {
		rwc, err := dial(ctx)
		if err != nil {
			return nil, protocol.ConnectFailed("stream", err)
		}
		return transport.New(rwc, c.connOptions()...), nil
	}
	if err := c.Reconnect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reconnect closes the current connection, if any, and opens a fresh one.
// Authentication has to be repeated afterwards.
func (c *Client) Reconnect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	a := auth.New()
	log := c.opts.log.With("session", conn.ID())

	c.mu.Lock()
	dopts := []dispatch.Option{dispatch.WithLogger(log)}
	for _, o := range c.opts.observers {
		dopts = append(dopts, dispatch.WithObserver(o))
	}
	old := c.conn
	c.conn, c.auth, c.d = conn, a, dispatch.New(conn, a, dopts...)
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	log.Debugw("session opened", "address", conn.Address())
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) session() (*dispatch.Dispatcher, *auth.Authenticator) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.d, c.auth
}

// SessionID identifies the current connection in logs.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn.ID()
}

// AuthState returns the handshake state of the current connection.
func (c *Client) AuthState() auth.State {
	_, a := c.session()
	return a.State()
}

// Authenticate runs the challenge handshake with secret. It is a no-op on an
// already authenticated connection.
func (c *Client) Authenticate(ctx context.Context, secret string) error {
	d, a := c.session()
	return a.Handshake(ctx, exchanger{d}, secret)
}

// Observe adds an observer to the current and all future connections.
func (c *Client) Observe(obs dispatch.Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.observers = append(c.opts.observers, obs)
	c.d.Observe(obs)
}

// Execute runs cmd on the client's current connection.
func Execute[R any](ctx context.Context, c *Client, cmd interfaces.Command[R]) (R, error) {
	d, _ := c.session()
	return dispatch.Execute(ctx, d, cmd)
}

// exchanger runs the handshake commands for the authenticator.
type exchanger struct {
	d *dispatch.Dispatcher
}

func (e exchanger) Nonce(ctx context.Context) (string, error) {
	return dispatch.Execute(ctx, e.d, commands.Auth1{})
}

func (e exchanger) Prove(ctx context.Context, digest string) (bool, error) {
	return dispatch.Execute(ctx, e.d, commands.Auth2{Digest: digest})
}
