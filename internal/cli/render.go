package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"bakehouse/internal/domain"
	"bakehouse/internal/view"
)

func formatAmount(v float64) string {
	return fmt.Sprintf("₹%.0f", v)
}

func placedAt(o domain.Order, loc *time.Location) string {
	if o.Date != "" {
		return o.Date
	}
	if o.PlacedAt == 0 {
		return ""
	}
	return time.UnixMilli(o.PlacedAt).In(loc).Format(domain.DisplayTimeLayout)
}

func itemLines(items []domain.LineItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		name := item.Name
		if item.Flavour != "" {
			name += " (" + item.Flavour + ")"
		}
		lines[i] = fmt.Sprintf("%s x%d %s", name, item.Quantity, formatAmount(item.Subtotal()))
	}
	return strings.Join(lines, "\n")
}

func delivery(o domain.Order) string {
	return strings.TrimSpace(o.Details.DeliveryDate + " " + o.Details.DeliveryTime)
}

func progressLine(steps []domain.ProgressStep) string {
	parts := make([]string, len(steps))
	for i, step := range steps {
		mark := "[ ]"
		switch step.State {
		case domain.StepCompleted:
			mark = "[x]"
		case domain.StepActive:
			mark = "[>]"
		}
		parts[i] = mark + " " + step.Status.Label()
	}
	return strings.Join(parts, "  ")
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}

	table := tablewriter.NewWriter(w)
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	return table.Render()
}

func renderReceipts(w io.Writer, orders []domain.Order, loc *time.Location) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders yet")
		return err
	}

	rows := make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			o.IDString(),
			placedAt(o, loc),
			o.Details.Name,
			delivery(o),
			itemLines(o.Items),
			formatAmount(o.Total),
			o.Status.Label(),
		}
	}
	return renderTable(w, []string{"Order", "Placed", "Customer", "Delivery", "Items", "Total", "Status"}, rows)
}

func renderTracking(w io.Writer, entries []view.TrackingEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No orders to track")
		return err
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.Order.IDString(),
			e.Order.Details.Name,
			delivery(e.Order),
			e.Order.EstimatedTime,
			progressLine(e.Progress),
		}
	}
	return renderTable(w, []string{"Order", "Customer", "Delivery", "Estimate", "Progress"}, rows)
}

func renderDashboard(w io.Writer, d view.Dashboard) error {
	summary := [][]string{
		{"Total orders", fmt.Sprint(d.Total)},
		{"Delivered", fmt.Sprint(d.Delivered)},
		{"Due in next 24h", fmt.Sprint(d.Next24h)},
	}
	if err := renderTable(w, []string{"Metric", "Count"}, summary); err != nil {
		return err
	}

	buckets := []struct {
		title  string
		orders []domain.Order
	}{
		{"Today", d.Today},
		{"Tomorrow", d.Tomorrow},
		{"Later this month", d.Upcoming},
	}
	for _, b := range buckets {
		if _, err := fmt.Fprintf(w, "\n%s (%d)\n", b.title, len(b.orders)); err != nil {
			return err
		}
		if len(b.orders) == 0 {
			continue
		}
		rows := make([][]string, len(b.orders))
		for i, o := range b.orders {
			rows[i] = []string{o.IDString(), o.Details.Name, delivery(o), o.Status.Label(), formatAmount(o.Total)}
		}
		if err := renderTable(w, []string{"Order", "Customer", "Delivery", "Status", "Total"}, rows); err != nil {
			return err
		}
	}
	return nil
}
