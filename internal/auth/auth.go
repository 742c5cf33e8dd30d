// Package auth implements the nonce challenge handshake that unlocks
// privileged commands on a connection.
package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/mfulz/boincgeist/protocol"
)

// State is the authentication state of one connection.
type State int

const (
	Unauthenticated State = iota
	ChallengeIssued
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case ChallengeIssued:
		return "challenge issued"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Digest computes the challenge response: lowercase hex MD5 of the nonce
// immediately followed by the secret.
func Digest(nonce, secret string) string {
	sum := md5.Sum([]byte(nonce + secret))
	return hex.EncodeToString(sum[:])
}

// Exchanger performs the two round trips of the handshake.
type Exchanger interface {
	// Nonce requests a fresh challenge.
	Nonce(ctx context.Context) (string, error)
	// Prove submits the digest and reports whether the daemon accepted it.
	Prove(ctx context.Context, digest string) (bool, error)
}

// Authenticator tracks the state machine for one connection. Authenticated
// is sticky until Reset. Concurrent Handshake calls are serialized.
type Authenticator struct {
	hsMu sync.Mutex

	mu    sync.Mutex
	state State
	nonce string
}

func New() *Authenticator { return &Authenticator{} }

func (a *Authenticator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Authenticator) Authenticated() bool { return a.State() == Authenticated }

// Nonce returns the held challenge while in ChallengeIssued.
func (a *Authenticator) Nonce() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nonce
}

// Challenge records a server-issued nonce.
func (a *Authenticator) Challenge(nonce string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == Authenticated {
		return protocol.AuthFailed("already authenticated")
	}
	if nonce == "" {
		a.state, a.nonce = Unauthenticated, ""
		return protocol.AuthFailed("empty nonce")
	}
	a.state, a.nonce = ChallengeIssued, nonce
	return nil
}

// Respond computes the digest for the held nonce.
func (a *Authenticator) Respond(secret string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != ChallengeIssued {
		return "", protocol.AuthFailed("no challenge issued")
	}
	return Digest(a.nonce, secret), nil
}

// Accept completes the handshake.
func (a *Authenticator) Accept() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != ChallengeIssued {
		return protocol.AuthFailed("no challenge issued")
	}
	a.state, a.nonce = Authenticated, ""
	return nil
}

// Reject drops the challenge after a refused digest.
func (a *Authenticator) Reject() { a.Reset() }

// Reset returns to Unauthenticated, e.g. after reconnecting.
func (a *Authenticator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state, a.nonce = Unauthenticated, ""
}

// Handshake runs the challenge exchange with secret. It is a no-op when the
// connection is already authenticated. A rejected digest leaves the state at
// Unauthenticated and returns AuthFailed; transport errors are returned as is.
func (a *Authenticator) Handshake(ctx context.Context, ex Exchanger, secret string) error {
	if a.Authenticated() {
		return nil
	}

	a.hsMu.Lock()
	defer a.hsMu.Unlock()
	// another caller may have finished while we waited
	if a.Authenticated() {
		return nil
	}
	if secret == "" {
		return protocol.AuthFailed("empty password")
	}

	nonce, err := ex.Nonce(ctx)
	if err != nil {
		a.Reject()
		return err
	}
	if err := a.Challenge(nonce); err != nil {
		return err
	}

	digest, err := a.Respond(secret)
	if err != nil {
		return err
	}
	ok, err := ex.Prove(ctx, digest)
	if err != nil {
		a.Reject()
		return rejected(err)
	}
	if !ok {
		a.Reject()
		return protocol.AuthFailed("password rejected")
	}
	return a.Accept()
}

// rejected maps daemon-side refusals of the digest onto AuthFailed.
func rejected(err error) error {
	if errors.Is(err, protocol.ErrNotAuthenticated) || errors.Is(err, protocol.ErrCommandFailed) {
		return &protocol.Error{Kind: protocol.KindAuthFailed, Op: protocol.CmdAuth2, Message: "password rejected", Err: err}
	}
	return err
}
