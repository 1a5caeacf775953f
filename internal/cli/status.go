package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status",
		Long: `Set the status of a local order and mirror it to the remote store.

Statuses: pending, confirmed, preparing, ready, delivered.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, func(app *App) error {
				updated, err := app.Orders.Lifecycle.UpdateStatus(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order #%d is %s (%s)\n",
					updated.ID, updated.Status.Label(), updated.EstimatedTime)
				return nil
			})
		},
	}
}
