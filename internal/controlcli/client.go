package controlcli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mfulz/boincgeist/client"
	"github.com/mfulz/boincgeist/internal/logging"
)

// Runner opens sessions to one target.
type Runner struct {
	Target Target
	// Dial replaces the TCP dial, e.g. with an in-memory pipe.
	Dial client.DialFunc
	// Options are appended to the per-session client options.
	Options []client.Option
	Log     *zap.SugaredLogger
}

// NewRunner returns a runner for t logging under "controlcli".
func NewRunner(t Target, opts ...client.Option) *Runner {
	return &Runner{Target: t, Options: opts, Log: logging.Named("controlcli")}
}

func (r *Runner) logger() *zap.SugaredLogger {
	if r.Log == nil {
		return zap.NewNop().Sugar()
	}
	return r.Log
}

// Connect opens a session and authenticates when a secret is configured.
func (r *Runner) Connect(ctx context.Context) (*client.Client, error) {
	h := r.Target.Host
	term, err := h.TerminatorByte()
	if err != nil {
		return nil, err
	}
	secret, err := h.Secret()
	if err != nil {
		return nil, err
	}

	opts := append([]client.Option{
		client.WithTerminator(term),
		client.WithTimeout(h.Timeout),
		client.WithLogger(r.logger()),
	}, r.Options...)

	var c *client.Client
	if r.Dial != nil {
		c, err = client.Open(ctx, r.Dial, opts...)
	} else {
		c, err = client.Dial(ctx, h.Addr(), opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to '%s': %w", r.Target.Name, err)
	}

	if secret != "" {
		if err := c.Authenticate(ctx, secret); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("authenticating to '%s': %w", r.Target.Name, err)
		}
	}
	r.logger().Debugw("session open", "target", r.Target.Name, "session", c.SessionID(), "auth", c.AuthState())
	return c, nil
}

// execWithAuth runs fn in a fresh authenticated session and closes it. fn
// has the shape of a client method expression, e.g. (*client.Client).CCStatus.
func execWithAuth[T any](ctx context.Context, r *Runner, fn func(*client.Client, context.Context) (T, error)) (T, error) {
	var zero T
	c, err := r.Connect(ctx)
	if err != nil {
		return zero, err
	}
	defer c.Close()

	v, err := fn(c, ctx)
	if err != nil {
		r.logger().Debugw("command failed", "target", r.Target.Name, "error", err)
		return zero, err
	}
	return v, nil
}

// do runs an acknowledged action and logs successMsg on success.
func do(ctx context.Context, r *Runner, successMsg string, fn func(*client.Client, context.Context) error) error {
	_, err := execWithAuth(ctx, r, func(c *client.Client, ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(c, ctx)
	})
	if err == nil && successMsg != "" {
		r.logger().Infow(successMsg, "target", r.Target.Name)
	}
	return err
}
