package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bakehouse/internal/domain"
)

const DefaultRetentionWindow = 24 * time.Hour

// Sweep drops delivered orders whose retention anchor is at least window
// before now. Orders in any other status are always kept.
func Sweep(orders []domain.Order, now time.Time, window time.Duration) ([]domain.Order, int) {
	cutoff := now.UnixMilli() - window.Milliseconds()

	kept := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsDelivered() && o.RetentionAnchor() <= cutoff {
			continue
		}
		kept = append(kept, o)
	}
	return kept, len(orders) - len(kept)
}

type SweeperService struct {
	store  OrderStore
	window time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewSweeperService(store OrderStore, window time.Duration, now func() time.Time, logger *zap.Logger) *SweeperService {
	if window <= 0 {
		window = DefaultRetentionWindow
	}
	if now == nil {
		now = time.Now
	}
	return &SweeperService{
		store:  store,
		window: window,
		now:    now,
		logger: logger,
	}
}

// Run sweeps the local store and returns how many orders were removed. The
// store is only written when something was removed.
func (s *SweeperService) Run(ctx context.Context) (int, error) {
	now := s.now()

	removed := 0
	_, err := s.store.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
		var kept []domain.Order
		kept, removed = Sweep(orders, now, s.window)
		return kept, removed > 0, nil
	})
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Info("delivered orders swept", zap.Int("removed", removed))
	}
	return removed, nil
}
