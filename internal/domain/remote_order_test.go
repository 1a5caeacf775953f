package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteOrder_ToOrder(t *testing.T) {
	orderDate := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	remote := RemoteOrder{
		ID:      "6f1c2a9e-2b51-4c43-9f0a-2d5d2b0c8e11",
		OrderID: "1760607000000",
		Customer: Customer{
			Email:   "priya.k@example.com",
			Phone:   "9876543210",
			Address: "4 Park Street",
		},
		Items:        []LineItem{{Name: "Red Velvet", UnitPrice: 650, Quantity: 1}},
		Total:        650,
		DeliveryDate: "2026-10-17",
		DeliveryTime: "11:00",
		OrderDate:    orderDate,
	}

	order, ok := remote.ToOrder(time.UTC)
	require.True(t, ok)

	assert.Equal(t, int64(1760607000000), order.ID)
	assert.Equal(t, remote.ID, order.RemoteID)
	assert.Equal(t, "priya.k", order.Details.Name)
	assert.Equal(t, "4 Park Street", order.Details.Address)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, EstimateAwaitingConfirmation, order.EstimatedTime)
	assert.Equal(t, orderDate.UnixMilli(), order.PlacedAt)
	assert.Equal(t, "2026-10-16 09:30", order.Date)
	assert.Equal(t, OrderTypeDelivery, order.Type)
	assert.Nil(t, order.DeliveredAt)
}

func TestRemoteOrder_ToOrder_PrefersStoredName(t *testing.T) {
	remote := RemoteOrder{OrderID: "42", Customer: Customer{Name: "Priya", Email: "priya.k@example.com"}}

	order, ok := remote.ToOrder(nil)
	require.True(t, ok)
	assert.Equal(t, "Priya", order.Details.Name)
}

func TestRemoteOrder_ToOrder_RejectsNonNumericID(t *testing.T) {
	_, ok := RemoteOrder{OrderID: "ORD_20261016_001"}.ToOrder(time.UTC)
	assert.False(t, ok)
}

func TestRemoteOrder_ToOrder_DeliveredKeepsInvariant(t *testing.T) {
	orderDate := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	deliveredAt := orderDate.Add(3 * time.Hour)

	withTimestamp, ok := RemoteOrder{OrderID: "7", Status: StatusDelivered, OrderDate: orderDate, DeliveredAt: &deliveredAt}.ToOrder(time.UTC)
	require.True(t, ok)
	require.NotNil(t, withTimestamp.DeliveredAt)
	assert.Equal(t, deliveredAt.UnixMilli(), *withTimestamp.DeliveredAt)

	withoutTimestamp, ok := RemoteOrder{OrderID: "8", Status: StatusDelivered, OrderDate: orderDate}.ToOrder(time.UTC)
	require.True(t, ok)
	require.NotNil(t, withoutTimestamp.DeliveredAt)
	assert.Equal(t, orderDate.UnixMilli(), *withoutTimestamp.DeliveredAt)
}

func TestNewRemoteOrder(t *testing.T) {
	deliveredAt := int64(1760610000000)
	order := Order{
		ID:            1760607000000,
		Items:         []LineItem{{Name: "Chocolate Cake", UnitPrice: 500, Quantity: 2}},
		Total:         1000,
		Details:       DeliveryDetails{Name: "Asha", Phone: "9876543210", Address: "12 MG Road", DeliveryDate: "2026-10-16", DeliveryTime: "18:00"},
		CustomerEmail: "asha@example.com",
		Status:        StatusDelivered,
		EstimatedTime: EstimateDelivered,
		PlacedAt:      1760607000000,
		DeliveredAt:   &deliveredAt,
	}

	remote := NewRemoteOrder(order)

	assert.Equal(t, "1760607000000", remote.OrderID)
	assert.Equal(t, "Asha", remote.Customer.Name)
	assert.Equal(t, "asha@example.com", remote.Customer.Email)
	assert.Equal(t, 1000.0, remote.Total)
	assert.Equal(t, "18:00", remote.DeliveryTime)
	assert.Equal(t, int64(1760607000000), remote.OrderDate.UnixMilli())
	require.NotNil(t, remote.DeliveredAt)
	assert.Equal(t, deliveredAt, remote.DeliveredAt.UnixMilli())
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "ravi", EmailLocalPart("ravi@example.com"))
	assert.Equal(t, "plain", EmailLocalPart("plain"))
	assert.Equal(t, GuestName, EmailLocalPart(""))
	assert.Equal(t, GuestName, EmailLocalPart("@example.com"))
}
