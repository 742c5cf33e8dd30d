// Package controlcli resolves boincctl connection targets and runs GUI RPC
// commands against them, one short session per invocation.
package controlcli

import (
	"fmt"
	"time"

	"github.com/mfulz/boincgeist/internal/configcli"
)

// Overrides are connection settings given on the command line. Zero values
// keep the configured ones.
type Overrides struct {
	Address  string
	Port     int
	Password string
	Timeout  time.Duration
}

// Target is a resolved daemon: its config name and connection settings.
type Target struct {
	Name string
	Host configcli.Host
}

// DefaultTimeout applies when neither the config nor the flags set one.
const DefaultTimeout = 10 * time.Second

// ResolveTarget picks the named host from cfg and applies the overrides.
// An explicit address without a name bypasses the configured hosts.
func ResolveTarget(cfg *configcli.Config, name string, o Overrides) (Target, error) {
	var (
		h   configcli.Host
		err error
	)
	switch {
	case name == "" && o.Address != "":
		name = o.Address
	default:
		if h, err = cfg.Resolve(name); err != nil {
			return Target{}, err
		}
		if name == "" {
			name = cfg.Default
		}
	}

	if o.Address != "" {
		h.Address = o.Address
	}
	if o.Port != 0 {
		h.Port = o.Port
	}
	if o.Password != "" {
		h.Password = o.Password
		h.PasswordFile = ""
	}
	if o.Timeout != 0 {
		h.Timeout = o.Timeout
	}
	if h.Timeout == 0 {
		h.Timeout = DefaultTimeout
	}
	if _, err := h.TerminatorByte(); err != nil {
		return Target{}, fmt.Errorf("host '%s': %w", name, err)
	}
	return Target{Name: name, Host: h}, nil
}
