package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfulz/boincgeist/commands"
	"github.com/mfulz/boincgeist/internal/controlcli"
	"github.com/mfulz/boincgeist/protocol"
)

// oneOf checks s against the allowed operations.
func oneOf[T ~string](what, s string, allowed []T) (T, error) {
	if slices.Contains(allowed, T(s)) {
		return T(s), nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unknown %s operation %q (want %s)", what, s, strings.Join(names, ", "))
}

var projectCmd = &cobra.Command{
	Use:   "project <url> <op>",
	Short: "Run an operation on a project",
	Long:  "Operations: suspend, resume, detach, reset, update, nomorework, allowmorework, detach_when_done, dont_detach_when_done.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := oneOf("project", args[1], commands.ProjectOperations)
		if err != nil {
			return err
		}
		r, err := runner()
		if err != nil {
			return err
		}
		return controlcli.ProjectOp(cmd.Context(), r, args[0], op)
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <url> <authenticator> [name]",
	Short: "Attach to a project with an account key",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 3 {
			name = args[2]
		}
		r, err := runner()
		if err != nil {
			return err
		}
		return controlcli.Attach(cmd.Context(), r, args[0], args[1], name)
	},
}

var taskCmd = &cobra.Command{
	Use:   "task <url> <name> <op>",
	Short: "Suspend, resume or abort a task",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := oneOf("task", args[2], commands.TaskOperations)
		if err != nil {
			return err
		}
		r, err := runner()
		if err != nil {
			return err
		}
		return controlcli.TaskOp(cmd.Context(), r, args[0], args[1], op)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <url> <file> <op>",
	Short: "Retry or abort a file transfer",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := oneOf("transfer", args[2], commands.TransferOperations)
		if err != nil {
			return err
		}
		r, err := runner()
		if err != nil {
			return err
		}
		return controlcli.TransferOp(cmd.Context(), r, args[0], args[1], op)
	},
}

// modeCmd builds run-mode, gpu-mode and network-mode.
func modeCmd(res commands.Resource, use, what string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <always|auto|never|restore> [duration]",
		Short: "Set the " + what + " mode, optionally for a limited time",
		Long:  "Duration is seconds or a Go duration such as 1h30m. Without it the change is permanent.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := protocol.ParseRunMode(args[0])
			if err != nil {
				return err
			}
			var d time.Duration
			if len(args) == 2 {
				if d, err = parseDuration(args[1]); err != nil {
					return err
				}
			}
			r, err := runner()
			if err != nil {
				return err
			}
			return controlcli.SetMode(cmd.Context(), r, res, mode, d)
		},
	}
}

// simpleCmd builds a command that triggers one acknowledged action.
func simpleCmd(use, short string, action func(*cobra.Command, *controlcli.Runner) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runner()
			if err != nil {
				return err
			}
			return action(cmd, r)
		},
	}
}

func init() {
	RootCmd.AddCommand(
		projectCmd, attachCmd, taskCmd, transferCmd,
		modeCmd(commands.ResourceRun, "run-mode", "computing"),
		modeCmd(commands.ResourceGPU, "gpu-mode", "GPU"),
		modeCmd(commands.ResourceNetwork, "network-mode", "network"),
		simpleCmd("read-cc-config", "Have the daemon reread cc_config.xml", func(cmd *cobra.Command, r *controlcli.Runner) error {
			return controlcli.ReadCCConfig(cmd.Context(), r)
		}),
		simpleCmd("network-available", "Retry deferred network communication now", func(cmd *cobra.Command, r *controlcli.Runner) error {
			return controlcli.NetworkAvailable(cmd.Context(), r)
		}),
		simpleCmd("run-benchmarks", "Run the CPU benchmarks", func(cmd *cobra.Command, r *controlcli.Runner) error {
			return controlcli.RunBenchmarks(cmd.Context(), r)
		}),
		simpleCmd("quit", "Shut the daemon down", func(cmd *cobra.Command, r *controlcli.Runner) error {
			return controlcli.Quit(cmd.Context(), r)
		}),
	)
}
