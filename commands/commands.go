// Package commands is the closed set of GUI RPC commands. Every command is a
// small immutable value implementing interfaces.Command for its reply type;
// execute them with dispatch.Execute or through the client facade.
package commands

import (
	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/protocol"
)

// Ack is the reply type of commands that only acknowledge with <success/>.
type Ack struct{}

type open struct{}

func (open) Privileged() bool { return false }

type privileged struct{}

func (privileged) Privileged() bool { return true }

type noBody struct{}

func (noBody) Encode(*protocol.Writer) {}

type ack struct{}

func (ack) Decode(reply *protocol.Node) (Ack, error) {
	return Ack{}, protocol.ExpectSuccess(reply)
}

// Auth1 requests a challenge nonce.
type Auth1 struct {
	open
	noBody
}

func (Auth1) Tag() string { return protocol.CmdAuth1 }

func (Auth1) Decode(reply *protocol.Node) (string, error) {
	n := reply.Child(protocol.TagNonce)
	if n == nil {
		return "", protocol.MissingField(protocol.ReplyTag + "." + protocol.TagNonce)
	}
	return n.Value(), nil
}

// Auth2 submits the challenge response.
type Auth2 struct {
	open
	Digest string
}

func (Auth2) Tag() string { return protocol.CmdAuth2 }

func (c Auth2) Encode(w *protocol.Writer) { w.Text(protocol.TagNonceHash, c.Digest) }

func (Auth2) Decode(reply *protocol.Node) (bool, error) {
	if !reply.Has(protocol.TagAuthorized) {
		return false, protocol.Malformed(protocol.ReplyTag, "expected <"+protocol.TagAuthorized+"/>", nil)
	}
	return true, nil
}

// ExchangeVersions announces our version and returns the daemon's.
type ExchangeVersions struct {
	open
	Version protocol.Version
}

func (ExchangeVersions) Tag() string { return protocol.CmdExchangeVersions }

func (c ExchangeVersions) Encode(w *protocol.Writer) { c.Version.Encode(w) }

func (ExchangeVersions) Decode(reply *protocol.Node) (protocol.Version, error) {
	return protocol.VersionSchema.DecodeChild(reply)
}

var (
	_ interfaces.Command[string]           = Auth1{}
	_ interfaces.Command[bool]             = Auth2{}
	_ interfaces.Command[protocol.Version] = ExchangeVersions{}
)
