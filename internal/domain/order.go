package domain

import (
	"strconv"
	"strings"
)

const OrderTypeDelivery = "delivery"

const (
	EstimateAwaitingConfirmation = "Awaiting confirmation"
	EstimateDelivered            = "Delivered"
	EstimateReady                = "Ready for pickup/delivery"
)

// EstimateClockLayout formats the time-of-day estimates set on confirm and
// prepare.
const EstimateClockLayout = "3:04 PM"

type Order struct {
	ID            int64           `json:"id"`
	RemoteID      string          `json:"remoteId,omitempty"`
	Items         []LineItem      `json:"items"`
	Total         float64         `json:"total"`
	Type          string          `json:"type,omitempty"`
	Details       DeliveryDetails `json:"details"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Date          string          `json:"date,omitempty"`
	Status        Status          `json:"status"`
	EstimatedTime string          `json:"estimatedTime"`
	PlacedAt      int64           `json:"placedAt"`
	DeliveredAt   *int64          `json:"deliveredAt,omitempty"`
}

type LineItem struct {
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	Flavour       string  `json:"flavour,omitempty"`
	Weight        string  `json:"weight,omitempty"`
	Tiers         int     `json:"tiers,omitempty"`
	Instructions  string  `json:"instructions,omitempty"`
	Customization string  `json:"customization,omitempty"`
}

type DeliveryDetails struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	DeliveryDate   string `json:"deliveryDate"`
	DeliveryTime   string `json:"deliveryTime"`
	Customizations string `json:"customizations,omitempty"`
}

func (i LineItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

func CalculateTotal(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// CopyItems detaches a cart from the stored order.
func CopyItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func (o Order) IDString() string {
	return strconv.FormatInt(o.ID, 10)
}

// MatchesID compares identifiers by their string form, since ids arrive as
// numbers from the local store and as strings from the remote store.
func (o Order) MatchesID(id string) bool {
	return o.IDString() == strings.TrimSpace(id)
}

func (o Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}

// RetentionAnchor is the instant the retention window counts from, in epoch
// millis: deliveredAt, falling back to placedAt, then zero.
func (o Order) RetentionAnchor() int64 {
	if o.DeliveredAt != nil {
		return *o.DeliveredAt
	}
	return o.PlacedAt
}

func FindByID(orders []Order, id string) (int, bool) {
	for i := range orders {
		if orders[i].MatchesID(id) {
			return i, true
		}
	}
	return -1, false
}
