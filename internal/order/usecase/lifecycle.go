package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bakehouse/internal/domain"
	apperrors "bakehouse/internal/errors"
	"bakehouse/internal/store"
)

const (
	confirmedLeadTime = 45 * time.Minute
	preparingLeadTime = 30 * time.Minute
)

type OrderStore interface {
	Update(ctx context.Context, fn store.Mutation) ([]domain.Order, error)
}

// Mirror copies local writes to the remote store without being waited on.
type Mirror interface {
	Create(order domain.Order) bool
	UpdateStatus(order domain.Order) bool
}

type LifecycleUseCase struct {
	store  OrderStore
	mirror Mirror
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewLifecycleUseCase(
	store OrderStore,
	mirror Mirror,
	loc *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *LifecycleUseCase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &LifecycleUseCase{
		store:  store,
		mirror: mirror,
		loc:    loc,
		now:    now,
		logger: logger,
	}
}

// CreateOrder validates the checkout, appends a pending order to the local
// store and queues the remote mirror write. The returned order is the one
// stored; cart is copied and may be reused by the caller.
func (uc *LifecycleUseCase) CreateOrder(
	ctx context.Context,
	cart []domain.LineItem,
	details domain.DeliveryDetails,
	customerEmail string,
) (domain.Order, error) {
	now := uc.now()

	if err := uc.validateCheckout(cart, details, now); err != nil {
		return domain.Order{}, err
	}

	items := domain.CopyItems(cart)
	order := domain.Order{
		Items:         items,
		Total:         domain.CalculateTotal(items),
		Type:          domain.OrderTypeDelivery,
		Details:       details,
		CustomerEmail: strings.TrimSpace(customerEmail),
		Date:          now.In(uc.loc).Format(domain.DisplayTimeLayout),
		Status:        domain.StatusPending,
		EstimatedTime: domain.EstimateAwaitingConfirmation,
	}

	_, err := uc.store.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
		order.ID = nextOrderID(orders, now.UnixMilli())
		order.PlacedAt = order.ID
		return append(orders, order), true, nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("storing order: %w", err)
	}

	uc.logger.Info("order created",
		zap.Int64("orderId", order.ID),
		zap.Int("itemCount", len(order.Items)),
		zap.Float64("total", order.Total),
	)

	if uc.mirror != nil {
		uc.mirror.Create(order)
	}

	return order, nil
}

// UpdateStatus sets the status of a local order and derives its estimate.
// Setting delivered again keeps the original deliveredAt.
func (uc *LifecycleUseCase) UpdateStatus(ctx context.Context, orderID string, newStatus string) (domain.Order, error) {
	status, ok := domain.ParseStatus(newStatus)
	if !ok {
		return domain.Order{}, apperrors.NewFieldError("status", fmt.Sprintf("unknown status %q", newStatus))
	}

	now := uc.now()

	var updated domain.Order
	_, err := uc.store.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
		i, found := domain.FindByID(orders, orderID)
		if !found {
			return nil, false, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", strings.TrimSpace(orderID)))
		}
		orders[i] = uc.applyStatus(orders[i], status, now)
		updated = orders[i]
		return orders, true, nil
	})
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("storing status: %w", err)
	}

	uc.logger.Info("order status updated",
		zap.Int64("orderId", updated.ID),
		zap.String("status", string(updated.Status)),
	)

	if uc.mirror != nil {
		uc.mirror.UpdateStatus(updated)
	}

	return updated, nil
}

func (uc *LifecycleUseCase) applyStatus(o domain.Order, status domain.Status, now time.Time) domain.Order {
	o.Status = status
	switch status {
	case domain.StatusDelivered:
		if o.DeliveredAt == nil {
			deliveredAt := now.UnixMilli()
			o.DeliveredAt = &deliveredAt
		}
		o.EstimatedTime = domain.EstimateDelivered
	case domain.StatusConfirmed:
		o.EstimatedTime = now.Add(confirmedLeadTime).In(uc.loc).Format(domain.EstimateClockLayout)
	case domain.StatusPreparing:
		o.EstimatedTime = now.Add(preparingLeadTime).In(uc.loc).Format(domain.EstimateClockLayout)
	case domain.StatusReady:
		o.EstimatedTime = domain.EstimateReady
	}
	return o
}

// validateCheckout reports the first problem found, in field order.
func (uc *LifecycleUseCase) validateCheckout(cart []domain.LineItem, details domain.DeliveryDetails, now time.Time) error {
	if len(cart) == 0 {
		return apperrors.NewFieldError("cart", "cart is empty")
	}

	for i, item := range cart {
		if strings.TrimSpace(item.Name) == "" {
			return apperrors.NewFieldError(fmt.Sprintf("items[%d].name", i), "name is required")
		}
		if item.Quantity < 1 {
			return apperrors.NewFieldError(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		}
		if item.UnitPrice <= 0 {
			return apperrors.NewFieldError(fmt.Sprintf("items[%d].unitPrice", i), "unitPrice must be positive")
		}
	}

	required := []struct {
		field string
		value string
	}{
		{"name", details.Name},
		{"phone", details.Phone},
		{"address", details.Address},
		{"deliveryDate", details.DeliveryDate},
		{"deliveryTime", details.DeliveryTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.NewFieldError(r.field, "is required")
		}
	}

	date, err := time.ParseInLocation(domain.DeliveryDateLayout, strings.TrimSpace(details.DeliveryDate), uc.loc)
	if err != nil {
		return apperrors.NewFieldError("deliveryDate", "must be a YYYY-MM-DD date")
	}

	local := now.In(uc.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.loc)
	if date.Before(today) {
		return apperrors.NewFieldError("deliveryDate", "must not be in the past")
	}

	return nil
}

// nextOrderID returns candidate, moved forward a millisecond at a time past
// any id already in orders.
func nextOrderID(orders []domain.Order, candidate int64) int64 {
	taken := make(map[int64]struct{}, len(orders))
	for _, o := range orders {
		taken[o.ID] = struct{}{}
	}
	for {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		candidate++
	}
}
