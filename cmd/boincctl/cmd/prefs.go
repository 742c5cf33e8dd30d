package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mfulz/boincgeist/internal/controlcli"
	"github.com/mfulz/boincgeist/internal/view"
)

var prefsFile string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and change the global preference override",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the preference override",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		p, err := controlcli.Prefs(cmd.Context(), r)
		if err != nil {
			return err
		}
		return show(cmd, p)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set --file prefs.yaml",
	Short: "Replace the preference override from a YAML, TOML or JSON file",
	Long:  "Only the keys present in the file are written. The daemon rereads the override afterwards.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := view.ReadPrefs(prefsFile)
		if err != nil {
			return err
		}
		r, err := runner()
		if err != nil {
			return err
		}
		return controlcli.SetPrefs(cmd.Context(), r, p)
	},
}

var readPrefsCmd = &cobra.Command{
	Use:   "read-prefs",
	Short: "Have the daemon reread the preference override",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runner()
		if err != nil {
			return err
		}
		return controlcli.ReadPrefs(cmd.Context(), r)
	},
}

func init() {
	prefsSetCmd.Flags().StringVarP(&prefsFile, "file", "f", "", "preference document (.yaml, .toml or .json)")
	_ = prefsSetCmd.MarkFlagRequired("file")

	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	RootCmd.AddCommand(prefsCmd, readPrefsCmd)
}
