package commands

import (
	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/protocol"
)

// GetGlobalPrefsOverride reads the override preference document.
type GetGlobalPrefsOverride struct {
	privileged
	noBody
}

func (GetGlobalPrefsOverride) Tag() string { return protocol.CmdGetGlobalPrefsOverride }

func (GetGlobalPrefsOverride) Decode(reply *protocol.Node) (protocol.GlobalPreferences, error) {
	return protocol.GlobalPreferencesSchema.DecodeChild(reply)
}

// SetGlobalPrefsOverride writes the override preference document. The daemon
// only applies it after ReadGlobalPrefsOverride.
type SetGlobalPrefsOverride struct {
	privileged
	ack
	Prefs protocol.GlobalPreferences
}

func (SetGlobalPrefsOverride) Tag() string { return protocol.CmdSetGlobalPrefsOverride }

func (c SetGlobalPrefsOverride) Encode(w *protocol.Writer) { c.Prefs.Encode(w) }

// ReadGlobalPrefsOverride makes the daemon reload the override file.
type ReadGlobalPrefsOverride struct {
	privileged
	noBody
	ack
}

func (ReadGlobalPrefsOverride) Tag() string { return protocol.CmdReadGlobalPrefsOverride }

var (
	_ interfaces.Command[protocol.GlobalPreferences] = GetGlobalPrefsOverride{}
	_ interfaces.Command[Ack]                        = SetGlobalPrefsOverride{}
	_ interfaces.Command[Ack]                        = ReadGlobalPrefsOverride{}
)
