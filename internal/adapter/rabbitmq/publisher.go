package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dishpatch/dishpatch/internal/interfaces"
)

// ChangeFeedExchange is the topic exchange carrying orders-table change
// events. The routing key is orders.<insert|update>.<business_id>.<customer_id>
// so sessions bind server-side filtered queues by role.
const ChangeFeedExchange = "orders.events"

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.FeedPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishChangeEvent(ctx context.Context, event interfaces.ChangeEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ChangeFeedExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := fmt.Sprintf("orders.%s.%s.%s",
		strings.ToLower(string(event.EventType)), event.Row.BusinessID, event.Row.CustomerID)

	err = ch.Publish(ChangeFeedExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
