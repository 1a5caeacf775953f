package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bakehouse/internal/domain"
	"bakehouse/internal/infrastructure/sqlite"
)

type mockKV struct {
	GetFunc func(ctx context.Context, key string) (string, bool, error)
	PutFunc func(ctx context.Context, key, value string) error
}

func (m *mockKV) Get(ctx context.Context, key string) (string, bool, error) {
	return m.GetFunc(ctx, key)
}

func (m *mockKV) Put(ctx context.Context, key, value string) error {
	return m.PutFunc(ctx, key, value)
}

func sampleOrders() []domain.Order {
	deliveredAt := int64(1760610000000)
	return []domain.Order{
		{
			ID:            1760607000000,
			RemoteID:      "6f1c2a9e-2b51-4c43-9f0a-2d5d2b0c8e11",
			Items:         []domain.LineItem{{Name: "Chocolate Cake", UnitPrice: 500, Quantity: 2, Flavour: "Dark", Weight: "1kg"}},
			Total:         1000,
			Type:          domain.OrderTypeDelivery,
			Details:       domain.DeliveryDetails{Name: "Asha", Phone: "9876543210", Address: "12 MG Road", DeliveryDate: "2026-10-16", DeliveryTime: "18:00"},
			CustomerEmail: "asha@example.com",
			Date:          "2026-10-16 09:30",
			Status:        domain.StatusDelivered,
			EstimatedTime: domain.EstimateDelivered,
			PlacedAt:      1760607000000,
			DeliveredAt:   &deliveredAt,
		},
		{
			ID:            1760607100000,
			Items:         []domain.LineItem{{Name: "Cupcake", UnitPrice: 80, Quantity: 6, Tiers: 1, Instructions: "no nuts"}},
			Total:         480,
			Details:       domain.DeliveryDetails{Name: "Ravi", Phone: "9123456780", Address: "3 Lake View", DeliveryDate: "2026-10-17", DeliveryTime: "10:00", Customizations: "Happy birthday"},
			Status:        domain.StatusPending,
			EstimatedTime: domain.EstimateAwaitingConfirmation,
			PlacedAt:      1760607100000,
		},
	}
}

func TestOrderStore_RoundTrip(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	s := NewOrderStore(NewSQLiteKV(db), "test", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleOrders()))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(), loaded)
}

func TestOrderStore_LoadAbsentIsEmpty(t *testing.T) {
	s := NewOrderStore(NewMemoryKV(), "test", zap.NewNop())

	orders, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderStore_LoadCorruptIsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), OrdersKey, "{not json"))

	s := NewOrderStore(kv, "test", zap.New(core))

	orders, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 1, logs.FilterMessage("local store unreadable, treating as empty").Len())
}

func TestOrderStore_LoadNullIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), OrdersKey, "null"))

	orders, err := NewOrderStore(kv, "test", zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderStore_LoadPropagatesBackendError(t *testing.T) {
	kv := &mockKV{
		GetFunc: func(ctx context.Context, key string) (string, bool, error) {
			return "", false, errors.New("disk I/O error")
		},
	}

	_, err := NewOrderStore(kv, "test", zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestOrderStore_SaveNotifies(t *testing.T) {
	s := NewOrderStore(NewMemoryKV(), "origin-a", zap.NewNop())

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.Save(context.Background(), sampleOrders()[:1]))

	require.Len(t, events, 1)
	assert.Equal(t, OrdersKey, events[0].Key)
	assert.Equal(t, "origin-a", events[0].Origin)
	assert.Equal(t, sampleOrders()[:1], s.Decode(events[0].NewValue))
}

func TestOrderStore_SaveNilWritesEmptyArray(t *testing.T) {
	kv := NewMemoryKV()
	s := NewOrderStore(kv, "test", zap.NewNop())

	require.NoError(t, s.Save(context.Background(), nil))

	raw, found, err := kv.Get(context.Background(), OrdersKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", raw)
}

func TestOrderStore_SaveFailureDoesNotNotify(t *testing.T) {
	kv := &mockKV{
		PutFunc: func(ctx context.Context, key, value string) error {
			return errors.New("read-only file system")
		},
	}
	s := NewOrderStore(kv, "test", zap.NewNop())

	notified := false
	s.Subscribe(func(Event) { notified = true })

	err := s.Save(context.Background(), sampleOrders())
	assert.Error(t, err)
	assert.False(t, notified)
}

func TestOrderStore_Unsubscribe(t *testing.T) {
	s := NewOrderStore(NewMemoryKV(), "test", zap.NewNop())

	count := 0
	cancel := s.Subscribe(func(Event) { count++ })
	require.NoError(t, s.Save(context.Background(), nil))
	cancel()
	require.NoError(t, s.Save(context.Background(), nil))

	assert.Equal(t, 1, count)
}

func TestOrderStore_UpdateUnchangedSkipsWrite(t *testing.T) {
	writes := 0
	kv := &mockKV{
		GetFunc: func(ctx context.Context, key string) (string, bool, error) {
			return "[]", true, nil
		},
		PutFunc: func(ctx context.Context, key, value string) error {
			writes++
			return nil
		},
	}
	s := NewOrderStore(kv, "test", zap.NewNop())

	_, err := s.Update(context.Background(), func(orders []domain.Order) ([]domain.Order, bool, error) {
		return orders, false, nil
	})
	require.NoError(t, err)
	assert.Zero(t, writes)
}

func TestOrderStore_UpdateErrorWritesNothing(t *testing.T) {
	kv := NewMemoryKV()
	s := NewOrderStore(kv, "test", zap.NewNop())
	require.NoError(t, s.Save(context.Background(), sampleOrders()))

	_, err := s.Update(context.Background(), func(orders []domain.Order) ([]domain.Order, bool, error) {
		return nil, true, errors.New("rejected")
	})
	assert.EqualError(t, err, "rejected")

	orders, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(), orders)
}

func TestOrderStore_ConcurrentUpdatesAllApply(t *testing.T) {
	s := NewOrderStore(NewMemoryKV(), "test", zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := s.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
				return append(orders, domain.Order{ID: id, Status: domain.StatusPending}), true, nil
			})
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	orders, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 50)
}

func TestOrderStore_UpdateReleasesLockAfterPanic(t *testing.T) {
	s := NewOrderStore(NewMemoryKV(), "test", zap.NewNop())
	ctx := context.Background()

	assert.Panics(t, func() {
		_, _ = s.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
			panic("mutation failed")
		})
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Update(ctx, func(orders []domain.Order) ([]domain.Order, bool, error) {
			return append(orders, domain.Order{ID: 1001, Status: domain.StatusPending}), true, nil
		})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("update blocked after a panicking mutation")
	}

	orders, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
