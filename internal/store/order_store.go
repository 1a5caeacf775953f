package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bakehouse/internal/domain"
	apperrors "bakehouse/internal/errors"
)

// OrdersKey is the single key the order list lives under.
const OrdersKey = "orders"

// Event is a store-changed notification. NewValue is the serialized order
// list and must be re-read through Load rather than trusted.
type Event struct {
	Key      string `json:"key"`
	NewValue string `json:"newValue"`
	Origin   string `json:"origin"`
}

type Listener func(Event)

// Mutation transforms the current order list. Returning changed=false skips
// the write and the notification; a non-nil error aborts with nothing written.
type Mutation func(orders []domain.Order) (next []domain.Order, changed bool, err error)

// OrderStore keeps the whole order list under OrdersKey and serializes every
// read-modify-write through Update.
type OrderStore struct {
	kv     KV
	origin string
	logger *zap.Logger

	mu sync.Mutex

	subsMu    sync.RWMutex
	listeners map[uint64]Listener
	nextSubID uint64
}

func NewOrderStore(kv KV, origin string, logger *zap.Logger) *OrderStore {
	return &OrderStore{
		kv:        kv,
		origin:    origin,
		logger:    logger,
		listeners: make(map[uint64]Listener),
	}
}

// Origin identifies this process on broadcast events.
func (s *OrderStore) Origin() string {
	return s.origin
}

// Load returns the stored orders. An absent or unparseable value reads as an
// empty list; backend failures are returned.
func (s *OrderStore) Load(ctx context.Context) ([]domain.Order, error) {
	raw, found, err := s.kv.Get(ctx, OrdersKey)
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}
	if !found {
		return []domain.Order{}, nil
	}
	return s.decode(raw), nil
}

// Decode parses a serialized snapshot with the same recovery rules as Load.
func (s *OrderStore) Decode(raw string) []domain.Order {
	return s.decode(raw)
}

func (s *OrderStore) decode(raw string) []domain.Order {
	var orders []domain.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		s.logger.Warn("local store unreadable, treating as empty",
			zap.Error(apperrors.NewStoreCorruptError(OrdersKey, err)),
		)
		return []domain.Order{}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders
}

// Save replaces the full order list and notifies listeners.
func (s *OrderStore) Save(ctx context.Context, orders []domain.Order) error {
	s.mu.Lock()
	raw, err := s.write(ctx, orders)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.Notify(Event{Key: OrdersKey, NewValue: raw, Origin: s.origin})
	return nil
}

// Update runs fn against the current list and persists its result. Calls are
// serialized, so concurrent updates never drop each other's changes.
func (s *OrderStore) Update(ctx context.Context, fn Mutation) ([]domain.Order, error) {
	orders, raw, written, err := s.apply(ctx, fn)
	if err != nil {
		return nil, err
	}
	if written {
		s.Notify(Event{Key: OrdersKey, NewValue: raw, Origin: s.origin})
	}
	return orders, nil
}

// apply holds the store lock for one read-modify-write. The lock is released
// even when fn panics.
func (s *OrderStore) apply(ctx context.Context, fn Mutation) ([]domain.Order, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Load(ctx)
	if err != nil {
		return nil, "", false, err
	}

	next, changed, err := fn(current)
	if err != nil {
		return nil, "", false, err
	}
	if !changed {
		return current, "", false, nil
	}

	raw, err := s.write(ctx, next)
	if err != nil {
		return nil, "", false, err
	}
	return next, raw, true, nil
}

func (s *OrderStore) write(ctx context.Context, orders []domain.Order) (string, error) {
	if orders == nil {
		orders = []domain.Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return "", fmt.Errorf("encoding orders: %w", err)
	}
	if err := s.kv.Put(ctx, OrdersKey, string(data)); err != nil {
		return "", fmt.Errorf("saving orders: %w", err)
	}
	return string(data), nil
}

// Subscribe registers l for every store-changed event and returns a function
// that removes it.
func (s *OrderStore) Subscribe(l Listener) func() {
	s.subsMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = l
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.listeners, id)
		s.subsMu.Unlock()
	}
}

// Notify delivers e to every listener. Events received from other processes
// are re-emitted through here.
func (s *OrderStore) Notify(e Event) {
	s.subsMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subsMu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
