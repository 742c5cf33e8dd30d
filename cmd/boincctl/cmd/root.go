// Package cmd implements the boincctl command tree. Every command opens its
// own short session to the selected daemon and renders the reply in the
// format chosen with --output.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mfulz/boincgeist/client"
	"github.com/mfulz/boincgeist/internal/configcli"
	"github.com/mfulz/boincgeist/internal/configloader"
	"github.com/mfulz/boincgeist/internal/controlcli"
	"github.com/mfulz/boincgeist/internal/logging"
	"github.com/mfulz/boincgeist/internal/view"
)

// BuildVersion is reported by `boincctl version`.
var BuildVersion = "dev"

var (
	configPath string
	targetName string
	overrides  controlcli.Overrides
	outputFlag string
	format     view.Format
)

// RootCmd is the boincctl entry point.
var RootCmd = &cobra.Command{
	Use:           "boincctl",
	Short:         "Query and control BOINC clients",
	Long:          `boincctl talks to BOINC clients over the GUI RPC protocol. Hosts and passwords are read from boincctl.yaml; flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configcli.LoadConfig(configPath)
		if err != nil {
			return err
		}
		logging.Init(cfg.Log)
		logging.Log.Debugf("[boincctl] log config: %+v", cfg.Log)

		format, err = view.ParseFormat(outputFlag)
		return err
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default: $BOINCGEIST_CONFIG, ~/.boincgeist/boincctl.yaml, /etc/boincgeist/boincctl.yaml)")
	pf.StringVarP(&targetName, "target", "t", "", "configured host to talk to (default: the config's default)")
	pf.StringVarP(&overrides.Address, "host", "H", "", "daemon address, overrides the target's")
	pf.IntVar(&overrides.Port, "port", 0, "daemon port (default 31416)")
	pf.StringVar(&overrides.Password, "passwd", "", "GUI RPC password")
	pf.DurationVar(&overrides.Timeout, "timeout", 0, "dial and per-message timeout (default 10s)")
	pf.StringVarP(&outputFlag, "output", "o", string(view.Text), "output format: "+formatList())
}

func formatList() string {
	names := make([]string, len(view.Formats))
	for i, f := range view.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}

// runner resolves the selected target and returns a session runner for it.
func runner(opts ...client.Option) (*controlcli.Runner, error) {
	cfg := configloader.MustGetConfig[*configcli.Config]()
	t, err := controlcli.ResolveTarget(cfg, targetName, overrides)
	if err != nil {
		return nil, err
	}
	return controlcli.NewRunner(t, opts...), nil
}

// show renders v to the command's output. Colors are dropped when stdout
// is not a terminal.
func show(cmd *cobra.Command, v any) error {
	r := view.New(format)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		r.Profile = termenv.Ascii
		r.Style = "notty"
	}
	return r.Render(cmd.OutOrStdout(), v)
}

// parseSeqno reads an optional sequence number argument.
func parseSeqno(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid sequence number %q", args[0])
	}
	return n, nil
}

// parseDuration accepts plain seconds or a Go duration such as "1h30m".
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
