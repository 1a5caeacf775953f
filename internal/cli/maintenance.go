package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local store with the remote store once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, func(app *App) error {
				result, err := app.Orders.Sync.Sync(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if result.RemoteUnavailable {
					fmt.Fprintln(out, "Remote store unavailable, local orders left unchanged")
					return nil
				}
				fmt.Fprintf(out, "Imported %d, adopted %d remote ids, pushed %d, skipped %d\n",
					result.Imported, result.Adopted, result.Pushed, result.Skipped)
				return nil
			})
		},
	}
}

func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Drop orders older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, func(app *App) error {
				removed, err := app.Orders.Sweeper.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orders older than %s\n",
					removed, app.Config.Schedule.RetentionWindow)
				return nil
			})
		},
	}
}
