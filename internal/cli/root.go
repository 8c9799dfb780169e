// Package cli wires configuration, logging, notification backends and the
// alarm scheduler behind the alarmdemo command line.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	backend    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "alarmdemo",
		Short: "Schedule a one-shot notification",
		Long: `alarmdemo schedules a single notification for a date and time.

Without a subcommand it opens an interactive form. Use "alarmdemo set" to
schedule from scripts or a systemd unit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/alarmdemo/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "notification backend: auto, desktop, telegram, terminal, none")

	cmd.AddCommand(newSetCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}
