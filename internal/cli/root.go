package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	// Open builds the App a command runs against. Tests swap it for an
	// in-memory store.
	Open func(opts *RootOptions) (*App, error)
}

// NewRootCommand creates the bakehouse client command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Open: OpenApp})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bakehouse",
		Short: "Bakery order client",
		Long: `Place and track bakery orders against the local order store.

Orders are written locally first and mirrored to the remote order store in
the background. "run" keeps the local store in step with the remote one.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (environment is used when empty)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewPlaceCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewTrackCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
