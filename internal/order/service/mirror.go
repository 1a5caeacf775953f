package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bakehouse/internal/domain"
)

// MirrorService copies local writes to the remote store as detached tasks.
// Nothing it does is reported back to the caller.
type MirrorService struct {
	store      OrderStore
	remote     RemoteStore
	dispatcher Dispatcher
	logger     *zap.Logger

	mu sync.Mutex
	// creating holds ids whose create is queued or running.
	creating map[int64]struct{}
}

func NewMirrorService(store OrderStore, remote RemoteStore, dispatcher Dispatcher, logger *zap.Logger) *MirrorService {
	return &MirrorService{
		store:      store,
		remote:     remote,
		dispatcher: dispatcher,
		logger:     logger,
		creating:   make(map[int64]struct{}),
	}
}

// Create mirrors a new order. The remote id it is assigned is written back
// to the local copy. An order with a create already queued or running, or one
// that gained a remote id since the caller read it, is not sent again.
func (s *MirrorService) Create(order domain.Order) bool {
	if !s.claim(order.ID) {
		s.logger.Debug("mirror create already pending", zap.Int64("orderId", order.ID))
		return false
	}

	payload := domain.NewRemoteOrder(order)
	submitted := s.dispatcher.Submit("mirror-create", func(ctx context.Context) error {
		defer s.release(order.ID)

		mirrored, err := s.hasRemoteID(ctx, order.ID)
		if err != nil {
			return err
		}
		if mirrored {
			return nil
		}

		created, err := s.remote.Create(ctx, payload)
		if err != nil {
			return fmt.Errorf("mirroring order %d: %w", order.ID, err)
		}
		if created.ID == "" {
			return nil
		}
		return s.adoptRemoteID(ctx, order.ID, created.ID)
	})
	if !submitted {
		s.release(order.ID)
	}
	return submitted
}

func (s *MirrorService) claim(orderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creating[orderID]; ok {
		return false
	}
	s.creating[orderID] = struct{}{}
	return true
}

func (s *MirrorService) release(orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creating, orderID)
}

func (s *MirrorService) hasRemoteID(ctx context.Context, orderID int64) (bool, error) {
	orders, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("checking order %d before mirroring: %w", orderID, err)
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o.RemoteID != "", nil
		}
	}
	return false, nil
}

// UpdateStatus mirrors a status change. Orders never mirrored are skipped.
func (s *MirrorService) UpdateStatus(order domain.Order) bool {
	if order.RemoteID == "" {
		s.logger.Debug("status mirror skipped, order has no remote id", zap.Int64("orderId", order.ID))
		return false
	}

	remoteID, status := order.RemoteID, order.Status
	return s.dispatcher.Submit("mirror-status", func(ctx context.Context) error {
		if _, err := s.remote.UpdateStatus(ctx, remoteID, status); err != nil {
			return fmt.Errorf("mirroring status of order %d: %w", order.ID, err)
		}
		return nil
	})
}

func (s *MirrorService) adoptRemoteID(ctx context.Context, orderID int64, remoteID string) error {
	_, err := s.store.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
		for i := range orders {
			if orders[i].ID == orderID && orders[i].RemoteID == "" {
				orders[i].RemoteID = remoteID
				return orders, true, nil
			}
		}
		return orders, false, nil
	})
	if err != nil {
		return fmt.Errorf("recording remote id for order %d: %w", orderID, err)
	}

	s.logger.Info("order mirrored", zap.Int64("orderId", orderID), zap.String("remoteId", remoteID))
	return nil
}
