package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mfulz/boincgeist/protocol"
)

// DecodePrefs parses a preference document. format is "yaml", "toml" or
// "json"; unknown keys are rejected so typos do not silently drop a setting.
func DecodePrefs(data []byte, format string) (protocol.GlobalPreferences, error) {
	var p protocol.GlobalPreferences
	switch strings.ToLower(format) {
	case "toml":
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return p, fmt.Errorf("toml decode: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return p, fmt.Errorf("unknown preference %q", undecoded[0].String())
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("json decode: %w", err)
		}
	case "yaml", "yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("yaml decode: %w", err)
		}
	default:
		return p, fmt.Errorf("unsupported preference format %q", format)
	}
	return p, nil
}

// ReadPrefs reads a preference document, choosing the format by extension.
func ReadPrefs(path string) (protocol.GlobalPreferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return protocol.GlobalPreferences{}, fmt.Errorf("reading preferences: %w", err)
	}
	return DecodePrefs(data, strings.TrimPrefix(filepath.Ext(path), "."))
}
