package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"bakehouse/internal/store"
)

const DefaultExchange = "orders_changed"

// Dispatcher runs a task detached from the caller.
type Dispatcher interface {
	Submit(name string, fn func(ctx context.Context) error) bool
}

// Broadcaster publishes store-changed events to a fanout exchange so other
// processes sharing the local store can refresh.
type Broadcaster struct {
	conn       Connection
	exchange   string
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewBroadcaster(conn Connection, exchange string, dispatcher Dispatcher, logger *zap.Logger) *Broadcaster {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Broadcaster{
		conn:       conn,
		exchange:   exchange,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Attach publishes every event s emits for its own writes. Events re-emitted
// from other processes are not sent back out. The returned function detaches.
func (b *Broadcaster) Attach(s *store.OrderStore) func() {
	origin := s.Origin()
	return s.Subscribe(func(e store.Event) {
		if e.Origin != origin {
			return
		}
		b.dispatcher.Submit("broadcast", func(ctx context.Context) error {
			return b.Publish(ctx, e)
		})
	})
}

func (b *Broadcaster) Publish(ctx context.Context, e store.Event) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(b.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	err = ch.PublishWithContext(ctx, b.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		AppId:       e.Origin,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	b.logger.Debug("store change broadcast", zap.String("key", e.Key), zap.Int("bytes", len(body)))
	return nil
}
