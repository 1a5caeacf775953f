// Package view derives the read-only projections the client renders from the
// local order list. Nothing here mutates its input.
package view

import (
	"sort"
	"strings"
	"time"

	"bakehouse/internal/domain"
)

type TrackingEntry struct {
	Order    domain.Order
	Progress []domain.ProgressStep
}

// Tracking lists every stored order newest first with its progress steps.
// Delivered orders stay visible until the sweeper removes them.
func Tracking(orders []domain.Order) []TrackingEntry {
	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sortNewestFirst(sorted)

	entries := make([]TrackingEntry, len(sorted))
	for i, o := range sorted {
		entries[i] = TrackingEntry{Order: o, Progress: o.Status.Progress()}
	}
	return entries
}

// Receipts lists every order, newest first.
func Receipts(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	copy(out, orders)
	sortNewestFirst(out)
	return out
}

type Dashboard struct {
	Total     int
	Delivered int
	// Next24h counts orders due between now and 24 hours from now.
	Next24h  int
	Today    []domain.Order
	Tomorrow []domain.Order
	// Upcoming runs from the day after tomorrow to the end of the month.
	Upcoming []domain.Order
}

func BuildDashboard(orders []domain.Order, now time.Time, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)
	endOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, loc)
	horizon := now.Add(24 * time.Hour)

	d := Dashboard{Total: len(orders)}
	for _, o := range orders {
		if o.IsDelivered() {
			d.Delivered++
		}

		date, ok := deliveryDay(o, loc)
		if !ok {
			continue
		}

		if due := deliveryInstant(o, date, loc); !due.Before(now) && !due.After(horizon) {
			d.Next24h++
		}

		switch {
		case date.Equal(today):
			if !o.IsDelivered() {
				d.Today = append(d.Today, o)
			}
		case date.Equal(tomorrow):
			d.Tomorrow = append(d.Tomorrow, o)
		case !date.Before(dayAfter) && !date.After(endOfMonth):
			d.Upcoming = append(d.Upcoming, o)
		}
	}

	sortByDelivery(d.Today)
	sortByDelivery(d.Tomorrow)
	sortByDelivery(d.Upcoming)
	return d
}

func deliveryDay(o domain.Order, loc *time.Location) (time.Time, bool) {
	date, err := time.ParseInLocation(domain.DeliveryDateLayout, strings.TrimSpace(o.Details.DeliveryDate), loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// deliveryInstant combines the delivery day with its time slot, or midnight
// when the slot is missing or unreadable.
func deliveryInstant(o domain.Order, day time.Time, loc *time.Location) time.Time {
	slot, err := time.ParseInLocation("15:04", strings.TrimSpace(o.Details.DeliveryTime), loc)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), slot.Hour(), slot.Minute(), 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sortNewestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].PlacedAt != orders[j].PlacedAt {
			return orders[i].PlacedAt > orders[j].PlacedAt
		}
		return orders[i].ID > orders[j].ID
	})
}

func sortByDelivery(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a := orders[i].Details.DeliveryDate + " " + orders[i].Details.DeliveryTime
		b := orders[j].Details.DeliveryDate + " " + orders[j].Details.DeliveryTime
		return a < b
	})
}
