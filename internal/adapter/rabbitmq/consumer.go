package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/interfaces"
)

type consumer struct {
	conn   Connection
	logger logger.Logger
}

func NewConsumer(conn Connection, lgr logger.Logger) interfaces.FeedConsumer {
	return &consumer{conn: conn, logger: lgr}
}

// ConsumeChangeEvents delivers events whose routing key matches
// binding until ctx is cancelled. A dropped connection stops the feed
// until the reconnect loop restores it; events delivered meanwhile are
// not replayed (the queue is exclusive and transient by design).
func (c *consumer) ConsumeChangeEvents(ctx context.Context, binding string, handler interfaces.ChangeEventHandler) error {
	for {
		err := c.consumeWithReconnect(ctx, binding, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Error("feed_disconnected", "Change feed disconnected, reconnecting in 5 seconds", "", map[string]interface{}{
			"binding": binding,
		}, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) consumeWithReconnect(ctx context.Context, binding string, handler interfaces.ChangeEventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(ChangeFeedExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Exclusive transient queue: each session gets its own filtered view
	// of the feed and loses it on disconnect.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, binding, ChangeFeedExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// Notification handling failures degrade; the feed keeps
				// flowing.
				c.logger.Error("event_handling_failed", "Failed to handle change event", "", nil, err)
			}
		}
	}
}
