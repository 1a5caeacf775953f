package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	DisplayTimeLayout  = "2006-01-02 15:04"
	DeliveryDateLayout = "2006-01-02"
	GuestName          = "Guest"
)

// RemoteOrder is an order as held by the remote order store.
type RemoteOrder struct {
	ID            string
	OrderID       string
	Customer      Customer
	Items         []LineItem
	Total         float64
	DeliveryDate  string
	DeliveryTime  string
	Status        Status
	EstimatedTime string
	OrderDate     time.Time
	DeliveredAt   *time.Time
}

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewRemoteOrder shapes a local order for a mirror write.
func NewRemoteOrder(o Order) RemoteOrder {
	r := RemoteOrder{
		OrderID: o.IDString(),
		Customer: Customer{
			Name:    o.Details.Name,
			Email:   o.CustomerEmail,
			Phone:   o.Details.Phone,
			Address: o.Details.Address,
		},
		Items:         CopyItems(o.Items),
		Total:         o.Total,
		DeliveryDate:  o.Details.DeliveryDate,
		DeliveryTime:  o.Details.DeliveryTime,
		Status:        o.Status,
		EstimatedTime: o.EstimatedTime,
		OrderDate:     time.UnixMilli(o.PlacedAt).UTC(),
	}
	if o.DeliveredAt != nil {
		deliveredAt := time.UnixMilli(*o.DeliveredAt).UTC()
		r.DeliveredAt = &deliveredAt
	}
	return r
}

// ToOrder converts a remote record into the local order shape. Records whose
// orderId is not an integer cannot be keyed locally and are rejected.
func (r RemoteOrder) ToOrder(loc *time.Location) (Order, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.OrderID), 10, 64)
	if err != nil {
		return Order{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	name := r.Customer.Name
	if name == "" {
		name = EmailLocalPart(r.Customer.Email)
	}

	status := r.Status
	if status == "" {
		status = StatusPending
	}

	estimate := r.EstimatedTime
	if estimate == "" && status == StatusPending {
		estimate = EstimateAwaitingConfirmation
	}

	o := Order{
		ID:       id,
		RemoteID: r.ID,
		Items:    CopyItems(r.Items),
		Total:    r.Total,
		Type:     OrderTypeDelivery,
		Details: DeliveryDetails{
			Name:         name,
			Phone:        r.Customer.Phone,
			Address:      r.Customer.Address,
			DeliveryDate: r.DeliveryDate,
			DeliveryTime: r.DeliveryTime,
		},
		CustomerEmail: r.Customer.Email,
		Status:        status,
		EstimatedTime: estimate,
	}

	if !r.OrderDate.IsZero() {
		o.PlacedAt = r.OrderDate.UnixMilli()
		o.Date = r.OrderDate.In(loc).Format(DisplayTimeLayout)
	}

	if status == StatusDelivered {
		deliveredAt := o.PlacedAt
		if r.DeliveredAt != nil {
			deliveredAt = r.DeliveredAt.UnixMilli()
		}
		o.DeliveredAt = &deliveredAt
	}

	return o, true
}

func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return GuestName
	}
	return local
}
