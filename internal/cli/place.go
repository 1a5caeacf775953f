package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bakehouse/internal/domain"
)

type PlaceOptions struct {
	*RootOptions
	Name    string
	Phone   string
	Address string
	Date    string
	Time    string
	Notes   string
	Email   string
	Items   []string
}

func NewPlaceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlaceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place a delivery order",
		Long: `Place a delivery order from a cart of items.

Each --item is name:unitPrice:quantity with an optional :flavour suffix.

Example:
  bakehouse place --name Asha --phone 9876543210 --address "12 MG Road" \
    --date 2026-10-20 --time 18:00 --email asha@example.com \
    --item "Chocolate Cake:500:2" --item "Red Velvet:650:1:eggless"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := parseItems(opts.Items)
			if err != nil {
				return err
			}
			details := domain.DeliveryDetails{
				Name:           opts.Name,
				Phone:          opts.Phone,
				Address:        opts.Address,
				DeliveryDate:   opts.Date,
				DeliveryTime:   opts.Time,
				Customizations: opts.Notes,
			}

			return withApp(opts.RootOptions, func(app *App) error {
				placed, err := app.Orders.Lifecycle.CreateOrder(cmd.Context(), cart, details, opts.Email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order #%d placed, total %s\n", placed.ID, formatAmount(placed.Total))
				return renderReceipts(cmd.OutOrStdout(), []domain.Order{placed}, app.Loc)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&opts.Address, "address", "", "delivery address")
	cmd.Flags().StringVar(&opts.Date, "date", "", "delivery date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "delivery time slot (HH:MM)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "customization notes")
	cmd.Flags().StringVar(&opts.Email, "email", "", "customer email")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "cart item name:price:qty[:flavour] (repeatable)")

	return cmd
}

// parseItems reads the --item values. Names may contain colons; the numeric
// fields are taken from the right.
func parseItems(raw []string) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(raw))
	for _, value := range raw {
		item, err := parseItem(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --item %q: %w", value, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(value string) (domain.LineItem, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 3 {
		return domain.LineItem{}, fmt.Errorf("want name:price:qty[:flavour]")
	}

	var flavour string
	if len(parts) >= 4 {
		if _, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err != nil {
			flavour = strings.TrimSpace(parts[len(parts)-1])
			parts = parts[:len(parts)-1]
		}
	}

	n := len(parts)
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[n-2]), 64)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("price: %w", err)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[n-1]))
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("quantity: %w", err)
	}

	return domain.LineItem{
		Name:      strings.TrimSpace(strings.Join(parts[:n-2], ":")),
		UnitPrice: price,
		Quantity:  qty,
		Flavour:   flavour,
	}, nil
}
