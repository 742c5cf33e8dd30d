package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfulz/boincgeist/protocol"
)

type fakeExchanger struct {
	nonce    string
	nonceErr error
	accept   bool
	proveErr error

	nonceCalls int
	digests    []string
}

func (f *fakeExchanger) Nonce(context.Context) (string, error) {
	f.nonceCalls++
	return f.nonce, f.nonceErr
}

func (f *fakeExchanger) Prove(_ context.Context, digest string) (bool, error) {
	f.digests = append(f.digests, digest)
	return f.accept, f.proveErr
}

func TestDigestReferenceValue(t *testing.T) {
	assert.Equal(t, "116534190f72c67eabcbbba491d8c8ba", Digest("abc123", "s3cret"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Digest("", ""))
}

func TestHandshakeSuccess(t *testing.T) {
	a := New()
	ex := &fakeExchanger{nonce: "abc123", accept: true}

	require.NoError(t, a.Handshake(context.Background(), ex, "s3cret"))
	assert.Equal(t, Authenticated, a.State())
	assert.Equal(t, []string{"116534190f72c67eabcbbba491d8c8ba"}, ex.digests)

	// sticky: a second handshake sends nothing
	require.NoError(t, a.Handshake(context.Background(), ex, "s3cret"))
	assert.Equal(t, 1, ex.nonceCalls)
}

func TestHandshakeRejected(t *testing.T) {
	a := New()
	ex := &fakeExchanger{nonce: "abc123", accept: false}

	err := a.Handshake(context.Background(), ex, "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrAuthFailed))
	assert.Equal(t, Unauthenticated, a.State())
	assert.Empty(t, a.Nonce())
}

func TestHandshakeUnauthorizedReplyIsAuthFailed(t *testing.T) {
	a := New()
	ex := &fakeExchanger{nonce: "abc123", proveErr: protocol.NotAuthenticated(protocol.CmdAuth2)}

	err := a.Handshake(context.Background(), ex, "wrong")
	assert.True(t, errors.Is(err, protocol.ErrAuthFailed))
	assert.Equal(t, Unauthenticated, a.State())
}

func TestHandshakeTransportErrorPassesThrough(t *testing.T) {
	a := New()
	ex := &fakeExchanger{nonceErr: protocol.Closed("receive", nil)}

	err := a.Handshake(context.Background(), ex, "s3cret")
	assert.True(t, errors.Is(err, protocol.ErrClosed))
	assert.Equal(t, Unauthenticated, a.State())
}

func TestHandshakeEmptySecretSendsNothing(t *testing.T) {
	a := New()
	ex := &fakeExchanger{nonce: "abc123", accept: true}

	err := a.Handshake(context.Background(), ex, "")
	assert.True(t, errors.Is(err, protocol.ErrAuthFailed))
	assert.Zero(t, ex.nonceCalls)
}

func TestStateTransitions(t *testing.T) {
	a := New()
	assert.Equal(t, Unauthenticated, a.State())

	_, err := a.Respond("x")
	assert.Error(t, err, "respond without challenge")
	assert.Error(t, a.Accept(), "accept without challenge")

	require.NoError(t, a.Challenge("n1"))
	assert.Equal(t, ChallengeIssued, a.State())
	assert.Equal(t, "n1", a.Nonce())

	d, err := a.Respond("pw")
	require.NoError(t, err)
	assert.Equal(t, Digest("n1", "pw"), d)

	require.NoError(t, a.Accept())
	assert.True(t, a.Authenticated())
	assert.Error(t, a.Challenge("n2"))

	a.Reset()
	assert.Equal(t, Unauthenticated, a.State())
	assert.Error(t, a.Challenge(""))
}

// gatedExchanger hands out a fresh nonce per call and blocks the first Prove
// until release is closed.
type gatedExchanger struct {
	mu      sync.Mutex
	nonces  int
	proving chan struct{}
	release chan struct{}
}

func (g *gatedExchanger) Nonce(context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nonces++
	if g.nonces == 1 {
		return "abc123", nil
	}
	return "other", nil
}

func (g *gatedExchanger) Prove(_ context.Context, digest string) (bool, error) {
	close(g.proving)
	<-g.release
	return digest == Digest("abc123", "s3cret"), nil
}

func TestHandshakeSerializesConcurrentCallers(t *testing.T) {
	a := New()
	ex := &gatedExchanger{proving: make(chan struct{}), release: make(chan struct{})}

	first := make(chan error, 1)
	go func() { first <- a.Handshake(context.Background(), ex, "s3cret") }()
	<-ex.proving

	second := make(chan error, 1)
	go func() { second <- a.Handshake(context.Background(), ex, "s3cret") }()
	close(ex.release)

	require.NoError(t, <-first)
	require.NoError(t, <-second)
	assert.Equal(t, Authenticated, a.State())
	assert.Equal(t, 1, ex.nonces)
}
