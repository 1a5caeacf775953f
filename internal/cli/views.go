package cli

import (
	"github.com/spf13/cobra"

	"bakehouse/internal/view"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every order, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, func(app *App) error {
				orders, err := app.Orders.Store.Load(cmd.Context())
				if err != nil {
					return err
				}
				return renderReceipts(cmd.OutOrStdout(), view.Receipts(orders), app.Loc)
			})
		},
	}
}

func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Show order progress until delivered orders are swept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, func(app *App) error {
				orders, err := app.Orders.Store.Load(cmd.Context())
				if err != nil {
					return err
				}
				return renderTracking(cmd.OutOrStdout(), view.Tracking(orders))
			})
		},
	}
}

func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show order counts and upcoming deliveries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, func(app *App) error {
				orders, err := app.Orders.Store.Load(cmd.Context())
				if err != nil {
					return err
				}
				return renderDashboard(cmd.OutOrStdout(), view.BuildDashboard(orders, app.Now(), app.Loc))
			})
		},
	}
}
