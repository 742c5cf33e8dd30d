package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfulz/boincgeist/internal/configcli"
	"github.com/mfulz/boincgeist/internal/configloader"
	"github.com/mfulz/boincgeist/internal/controlcli"
	"github.com/mfulz/boincgeist/protocol"
)

var activeOnly bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the boincctl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boincctl %s (GUI RPC %s)\n", BuildVersion, protocol.ClientVersion)
	},
}

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List configured hosts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configloader.MustGetConfig[*configcli.Config]()
		for _, name := range cfg.Names() {
			marker := " "
			if name == cfg.Default {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, name, cfg.Hosts[name].Addr())
		}
	},
}

var clientVersionCmd = &cobra.Command{
	Use:   "client-version",
	Short: "Show the daemon's version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		v, err := controlcli.Version(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, v)
	},
}

var ccStatusCmd = &cobra.Command{
	Use:   "cc-status",
	Short: "Show run modes and suspend reasons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		st, err := controlcli.Status(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, st)
	},
}

var hostInfoCmd = &cobra.Command{
	Use:   "host-info",
	Short: "Show hardware and OS of the host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		h, err := controlcli.HostInfo(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, h)
	},
}

var diskUsageCmd = &cobra.Command{
	Use:   "disk-usage",
	Short: "Show disk usage per project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		d, err := controlcli.DiskUsage(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, d)
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List attached projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		ps, err := controlcli.Projects(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, ps)
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		ts, err := controlcli.Tasks(cmd.Context(), r, activeOnly)
		if err != nil {
			return err
		}
		return show(cmd, ts)
	},
}

var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "List file transfers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		xs, err := controlcli.FileTransfers(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, xs)
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages [seqno]",
	Short: "Show event log messages after seqno",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seqno, err := parseSeqno(args)
		if err != nil {
			return err
		}
		r, err := runner()
		if err != nil {
			return err
		}
		ms, err := controlcli.Messages(cmd.Context(), r, seqno)
		if err != nil {
			return err
		}
		return show(cmd, ms)
	},
}

var noticesCmd = &cobra.Command{
	Use:   "notices [seqno]",
	Short: "Show notices after seqno",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seqno, err := parseSeqno(args)
		if err != nil {
			return err
		}
		r, err := runner()
		if err != nil {
			return err
		}
		ns, err := controlcli.Notices(cmd.Context(), r, seqno)
		if err != nil {
			return err
		}
		return show(cmd, ns)
	},
}

func init() {
	tasksCmd.Flags().BoolVar(&activeOnly, "active-only", false, "only tasks holding a process slot")

	RootCmd.AddCommand(versionCmd, hostsCmd, clientVersionCmd, ccStatusCmd, hostInfoCmd,
		diskUsageCmd, projectsCmd, tasksCmd, transfersCmd, messagesCmd, noticesCmd)
}
