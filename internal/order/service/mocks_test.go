package service

import (
	"context"
	"sync"

	"bakehouse/internal/domain"
)

type mockRemoteStore struct {
	ListFunc         func(ctx context.Context) ([]domain.RemoteOrder, error)
	CreateFunc       func(ctx context.Context, order domain.RemoteOrder) (domain.RemoteOrder, error)
	UpdateStatusFunc func(ctx context.Context, remoteID string, status domain.Status) (domain.RemoteOrder, error)
}

func (m *mockRemoteStore) List(ctx context.Context) ([]domain.RemoteOrder, error) {
	return m.ListFunc(ctx)
}

func (m *mockRemoteStore) Create(ctx context.Context, order domain.RemoteOrder) (domain.RemoteOrder, error) {
	return m.CreateFunc(ctx, order)
}

func (m *mockRemoteStore) UpdateStatus(ctx context.Context, remoteID string, status domain.Status) (domain.RemoteOrder, error) {
	return m.UpdateStatusFunc(ctx, remoteID, status)
}

// inlineDispatcher runs tasks immediately and records their outcome.
type inlineDispatcher struct {
	mu     sync.Mutex
	names  []string
	errors []error
}

func (d *inlineDispatcher) Submit(name string, fn func(ctx context.Context) error) bool {
	err := fn(context.Background())
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
	d.errors = append(d.errors, err)
	return true
}

// deferredDispatcher holds tasks until runAll, like a queue whose worker is
// busy elsewhere.
type deferredDispatcher struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context) error
}

func (d *deferredDispatcher) Submit(name string, fn func(ctx context.Context) error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, fn)
	return true
}

func (d *deferredDispatcher) runAll(ctx context.Context) []error {
	d.mu.Lock()
	tasks := d.tasks
	d.tasks = nil
	d.mu.Unlock()

	errs := make([]error, len(tasks))
	for i, fn := range tasks {
		errs[i] = fn(ctx)
	}
	return errs
}
