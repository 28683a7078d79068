package interfaces

import (
	"context"
	"time"

	"github.com/dishpatch/dishpatch/internal/domain"
)

// Интерфейсы Сервисов (Business Logic)
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*domain.Order, error)
}

type AggregatorService interface {
	Start(ctx context.Context) error
	HandleChangeEvent(ctx context.Context, event ChangeEvent) error
	Shutdown(ctx context.Context) error
}

// Ответы Notification API
type NotificationResponse struct {
	ID           string        `json:"id"`
	OrderCode    string        `json:"order_code,omitempty"`
	CustomerName string        `json:"customer_name"`
	TotalAmount  float64       `json:"total_amount"`
	Status       domain.Status `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	DetailURL    string        `json:"detail_url"`
}

type BellResponse struct {
	Unread        bool                   `json:"unread"`
	Count         int                    `json:"count"`
	Notifications []NotificationResponse `json:"notifications"`
}
