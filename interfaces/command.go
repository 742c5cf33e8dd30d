// Package interfaces defines the capability set every RPC command provides
// to the dispatcher. Each command knows its wire tag, whether it needs an
// authenticated connection, how to write its request body and how to read
// its reply.
package interfaces

import "github.com/mfulz/boincgeist/protocol"

// Request is the untyped half of a command: everything the dispatcher needs
// before a reply arrives.
type Request interface {
	// Tag is the wire name of the command element, e.g. "get_cc_status".
	Tag() string

	// Privileged reports whether the command requires a completed handshake.
	// Privileged commands are refused locally on unauthenticated connections.
	Privileged() bool

	// Encode writes the body of the command element. Commands without
	// parameters write nothing.
	Encode(w *protocol.Writer)
}

// Command pairs a Request with the decoder for its success reply.
type Command[R any] interface {
	Request

	// Decode projects the reply envelope onto the response type. It is only
	// called after failure shapes have been ruled out; a reply that does not
	// match the expected success shape is Malformed.
	Decode(reply *protocol.Node) (R, error)
}

// Validator is implemented by commands whose parameters can be out of range.
// The dispatcher calls Validate before anything is sent.
type Validator interface {
	Validate() error
}
