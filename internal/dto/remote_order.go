package dto

import (
	"time"

	"bakehouse/internal/domain"
)

// RemoteOrder is the JSON shape of an order on the remote order API.
type RemoteOrder struct {
	ID            string      `json:"_id,omitempty"`
	OrderID       string      `json:"orderId"`
	Customer      Customer    `json:"customer"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	DeliveryDate  string      `json:"deliveryDate"`
	DeliveryTime  string      `json:"deliveryTime"`
	Status        string      `json:"status,omitempty"`
	EstimatedTime string      `json:"estimatedTime,omitempty"`
	OrderDate     *time.Time  `json:"orderDate,omitempty"`
	DeliveredAt   *time.Time  `json:"deliveredAt,omitempty"`
}

type Customer struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderItem struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Flavour       string  `json:"flavour,omitempty"`
	Weight        string  `json:"weight,omitempty"`
	Tiers         int     `json:"tiers,omitempty"`
	Instructions  string  `json:"instructions,omitempty"`
	Customization string  `json:"customization,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func FromRemoteOrder(r domain.RemoteOrder) RemoteOrder {
	out := RemoteOrder{
		ID:      r.ID,
		OrderID: r.OrderID,
		Customer: Customer{
			Name:    r.Customer.Name,
			Email:   r.Customer.Email,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
		},
		Items:         make([]OrderItem, len(r.Items)),
		Total:         r.Total,
		DeliveryDate:  r.DeliveryDate,
		DeliveryTime:  r.DeliveryTime,
		Status:        string(r.Status),
		EstimatedTime: r.EstimatedTime,
		DeliveredAt:   r.DeliveredAt,
	}
	for i, item := range r.Items {
		out.Items[i] = OrderItem{
			Name:          item.Name,
			Price:         item.UnitPrice,
			Quantity:      item.Quantity,
			Flavour:       item.Flavour,
			Weight:        item.Weight,
			Tiers:         item.Tiers,
			Instructions:  item.Instructions,
			Customization: item.Customization,
		}
	}
	if !r.OrderDate.IsZero() {
		orderDate := r.OrderDate
		out.OrderDate = &orderDate
	}
	return out
}

func (r RemoteOrder) ToDomain() domain.RemoteOrder {
	out := domain.RemoteOrder{
		ID:      r.ID,
		OrderID: r.OrderID,
		Customer: domain.Customer{
			Name:    r.Customer.Name,
			Email:   r.Customer.Email,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
		},
		Items:         make([]domain.LineItem, len(r.Items)),
		Total:         r.Total,
		DeliveryDate:  r.DeliveryDate,
		DeliveryTime:  r.DeliveryTime,
		Status:        domain.Status(r.Status),
		EstimatedTime: r.EstimatedTime,
		DeliveredAt:   r.DeliveredAt,
	}
	for i, item := range r.Items {
		out.Items[i] = domain.LineItem{
			Name:          item.Name,
			UnitPrice:     item.Price,
			Quantity:      item.Quantity,
			Flavour:       item.Flavour,
			Weight:        item.Weight,
			Tiers:         item.Tiers,
			Instructions:  item.Instructions,
			Customization: item.Customization,
		}
	}
	if r.OrderDate != nil {
		out.OrderDate = *r.OrderDate
	}
	return out
}
