package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bakehouse/internal/store"
)

type Notifier interface {
	Notify(e store.Event)
}

// Listener re-emits store-changed events published by other processes.
type Listener struct {
	conn       Connection
	exchange   string
	origin     string
	notifier   Notifier
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewListener(conn Connection, exchange, origin string, notifier Notifier, logger *zap.Logger) *Listener {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Listener{
		conn:       conn,
		exchange:   exchange,
		origin:     origin,
		notifier:   notifier,
		retryDelay: 5 * time.Second,
		logger:     logger,
	}
}

// Run consumes until ctx is cancelled, reconnecting after channel failures.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.consume(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		l.logger.Warn("broadcast listener disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("retryIn", l.retryDelay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *Listener) consume(ctx context.Context) error {
	ch, err := l.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(l.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", l.exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return errors.New("channel closed")

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			l.handle(msg.Body)
		}
	}
}

func (l *Listener) handle(body []byte) {
	var e store.Event
	if err := json.Unmarshal(body, &e); err != nil {
		l.logger.Warn("discarding malformed broadcast", zap.Error(err))
		return
	}

	if e.Origin == l.origin || e.Key != store.OrdersKey {
		return
	}

	l.notifier.Notify(e)
}
