package service

import (
	"context"

	"bakehouse/internal/domain"
	"bakehouse/internal/store"
)

type OrderStore interface {
	Load(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, fn store.Mutation) ([]domain.Order, error)
}

type RemoteStore interface {
	List(ctx context.Context) ([]domain.RemoteOrder, error)
	Create(ctx context.Context, order domain.RemoteOrder) (domain.RemoteOrder, error)
	UpdateStatus(ctx context.Context, remoteID string, status domain.Status) (domain.RemoteOrder, error)
}

// Dispatcher runs a task detached from the caller.
type Dispatcher interface {
	Submit(name string, fn func(ctx context.Context) error) bool
}
