package protocol

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. Callers branch on the kind to decide whether to
// reconnect, retry or give up.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectFailed
	KindIoFailed
	KindClosed
	KindMalformed
	KindMissingField
	KindAuthFailed
	KindNotAuthenticated
	KindCommandFailed
)

func (k Kind) String() string {
	switch k {
	case KindConnectFailed:
		return "connect failed"
	case KindIoFailed:
		return "i/o failed"
	case KindClosed:
		return "connection closed"
	case KindMalformed:
		return "malformed reply"
	case KindMissingField:
		return "missing field"
	case KindAuthFailed:
		return "authentication failed"
	case KindNotAuthenticated:
		return "not authenticated"
	case KindCommandFailed:
		return "command failed"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrConnectFailed    = &Error{Kind: KindConnectFailed}
	ErrIoFailed         = &Error{Kind: KindIoFailed}
	ErrClosed           = &Error{Kind: KindClosed}
	ErrMalformed        = &Error{Kind: KindMalformed}
	ErrMissingField     = &Error{Kind: KindMissingField}
	ErrAuthFailed       = &Error{Kind: KindAuthFailed}
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated}
	ErrCommandFailed    = &Error{Kind: KindCommandFailed}
)

// Error is the single error type surfaced by the protocol engine.
type Error struct {
	Kind Kind
	// Op names the operation or command tag that failed, e.g. "get_cc_status".
	Op string
	// Field is the dotted path of the offending field for Malformed and
	// MissingField errors.
	Field string
	// Code and Message carry the daemon-reported reason for CommandFailed.
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	switch {
	case e.Kind == KindCommandFailed:
		msg = fmt.Sprintf("%s (%d): %s", msg, e.Code, e.Message)
	case e.Field != "" && e.Message != "":
		msg = fmt.Sprintf("%s: %s: %s", msg, e.Field, e.Message)
	case e.Field != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	case e.Message != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so errors.Is(err, ErrMalformed) holds for every
// malformed error regardless of its details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsCommandFailed unpacks a daemon-reported failure.
func IsCommandFailed(err error) (code int, message string, ok bool) {
	var pe *Error
	if errors.As(err, &pe) && pe.Kind == KindCommandFailed {
		return pe.Code, pe.Message, true
	}
	return 0, "", false
}

// Temporary reports whether the session can be reused after err without
// reconnecting. Transport failures close the connection; everything else
// leaves the session intact.
func Temporary(err error) bool {
	switch KindOf(err) {
	case KindConnectFailed, KindIoFailed, KindClosed:
		return false
	default:
		return true
	}
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ConnectFailed reports that addr could not be reached.
func ConnectFailed(addr string, err error) *Error {
	return &Error{Kind: KindConnectFailed, Op: "dial " + addr, Err: err}
}

// IoFailed wraps a read or write failure during op.
func IoFailed(op string, err error) *Error { return newError(KindIoFailed, op, err) }

// Closed reports that the peer closed the stream during op.
func Closed(op string, err error) *Error { return newError(KindClosed, op, err) }

// Malformed reports an element that could not be parsed or encoded.
func Malformed(field, reason string, err error) *Error {
	return &Error{Kind: KindMalformed, Field: field, Message: reason, Err: err}
}

// MissingField reports a required element absent from a reply.
func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field}
}

// AuthFailed reports a failed handshake.
func AuthFailed(reason string) *Error {
	return &Error{Kind: KindAuthFailed, Message: reason}
}

// NotAuthenticated reports a privileged op attempted without a handshake.
func NotAuthenticated(op string) *Error {
	return &Error{Kind: KindNotAuthenticated, Op: op}
}

// CommandFailed carries an error reply from the daemon.
func CommandFailed(op string, code int, message string) *Error {
	return &Error{Kind: KindCommandFailed, Op: op, Code: code, Message: message}
}

// WithOp stamps the command tag on errors produced below the dispatch layer.
func WithOp(err error, op string) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Op == "" {
		cp := *pe
		cp.Op = op
		return &cp
	}
	return err
}
