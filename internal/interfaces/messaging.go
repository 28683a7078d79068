package interfaces

import (
	"context"
	"time"

	"github.com/dishpatch/dishpatch/internal/domain"
)

// ChangeEvent is a row-level change record for the orders table, as
// delivered by the realtime feed. INSERT events carry the full new row;
// UPDATE events additionally carry the previous status so consumers can
// detect status deltas without refetching.
type ChangeEvent struct {
	EventType domain.EventType `json:"event_type"`
	Table     string           `json:"table"`
	Row       OrderRow         `json:"row"`
}

// OrderRow is the wire shape of an orders-table row inside a ChangeEvent.
type OrderRow struct {
	ID              string           `json:"id"`
	Code            string           `json:"order_code"`
	BusinessID      string           `json:"business_id"`
	CustomerID      string           `json:"customer_id"`
	CustomerName    string           `json:"customer_name"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	TotalAmount     float64          `json:"total_amount"`
	Status          domain.Status    `json:"status"`
	OldStatus       *domain.Status   `json:"old_status,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Notification builds the stored snapshot from the wire row.
func (r OrderRow) Notification() domain.OrderNotification {
	return domain.OrderNotification{
		ID:           r.ID,
		OrderCode:    r.Code,
		CustomerName: r.CustomerName,
		TotalAmount:  r.TotalAmount,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

// Команды для сервисов
type CreateOrderCommand struct {
	BusinessID      string
	CustomerID      string
	CustomerName    string
	DeliveryAddress *string
	Items           []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	Name     string
	Quantity int
	Price    float64
}

type UpdateStatusCommand struct {
	OrderID   string
	NewStatus domain.Status
	ChangedBy string
}

// FeedPublisher emits change events onto the realtime feed. The routing
// key encodes event type, business id and customer id so sessions can
// bind server-side filtered queues.
type FeedPublisher interface {
	PublishChangeEvent(ctx context.Context, event ChangeEvent) error
}

// FeedConsumer delivers change events matching a binding pattern until
// ctx is cancelled, reconnecting on transport failures.
type FeedConsumer interface {
	ConsumeChangeEvents(ctx context.Context, binding string, handler ChangeEventHandler) error
}

type ChangeEventHandler func(ctx context.Context, body []byte) error
