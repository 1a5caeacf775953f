package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bakehouse/internal/domain"
	apperrors "bakehouse/internal/errors"
)

type SyncResult struct {
	Imported int
	Adopted  int
	Skipped  int
	Pushed   int
	// RemoteUnavailable is set when the remote snapshot could not be fetched
	// and local state was left alone.
	RemoteUnavailable bool
}

// SyncService reconciles the local store with the remote store.
type SyncService struct {
	store  OrderStore
	remote RemoteStore
	mirror *MirrorService
	loc    *time.Location
	logger *zap.Logger
}

func NewSyncService(store OrderStore, remote RemoteStore, mirror *MirrorService, loc *time.Location, logger *zap.Logger) *SyncService {
	if loc == nil {
		loc = time.Local
	}
	return &SyncService{
		store:  store,
		remote: remote,
		mirror: mirror,
		loc:    loc,
		logger: logger,
	}
}

// Sync pulls the remote snapshot and merges it into the local store, then
// pushes local orders the remote store has never seen. An unreachable remote
// store is logged and reported in the result, never returned as an error.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	remoteOrders, err := s.remote.List(ctx)
	if err != nil {
		if _, ok := apperrors.IsRemoteUnavailableError(err); !ok {
			err = apperrors.NewRemoteUnavailableError("list", 0, err)
		}
		s.logger.Warn("sync skipped, remote store unavailable", zap.Error(err))
		return SyncResult{RemoteUnavailable: true}, nil
	}

	var merge MergeResult
	orders, err := s.store.Update(ctx, func(local []domain.Order) ([]domain.Order, bool, error) {
		merge = Merge(local, remoteOrders, s.loc)
		return merge.Orders, merge.Changed(), nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{
		Imported: merge.Imported,
		Adopted:  merge.Adopted,
		Skipped:  merge.Skipped,
	}

	if s.mirror != nil {
		known := make(map[string]struct{}, len(remoteOrders))
		for _, r := range remoteOrders {
			known[r.OrderID] = struct{}{}
		}
		for _, o := range orders {
			if o.RemoteID != "" {
				continue
			}
			if _, ok := known[o.IDString()]; ok {
				continue
			}
			if s.mirror.Create(o) {
				result.Pushed++
			}
		}
	}

	s.logger.Info("sync completed",
		zap.Int("imported", result.Imported),
		zap.Int("adopted", result.Adopted),
		zap.Int("skipped", result.Skipped),
		zap.Int("pushed", result.Pushed),
	)
	return result, nil
}
