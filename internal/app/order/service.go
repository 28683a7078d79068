package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/domain"
	"github.com/dishpatch/dishpatch/internal/interfaces"
)

type Service struct {
	repo      interfaces.OrderRepository
	publisher interfaces.FeedPublisher
	logger    logger.Logger
}

func NewService(repo interfaces.OrderRepository, publisher interfaces.FeedPublisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	order, err := domain.NewOrder(cmd.BusinessID, cmd.CustomerID, cmd.CustomerName, items, cmd.DeliveryAddress)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", nil, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order.ID = uuid.NewString()

	code, err := s.repo.GenerateOrderCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order code: %w", err)
	}
	order.Code = code

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", "", nil, err)
		return nil, err
	}
	s.logger.Debug("order_created", "Order created in DB", "", map[string]interface{}{"order_id": order.ID})

	if err := s.publisher.PublishChangeEvent(ctx, changeEvent(domain.EventInsert, order, nil)); err != nil {
		s.logger.Error("feed_publish_failed", "Failed to publish insert event", "", nil, err)
		return nil, err
	}

	s.logger.Debug("event_published", "Insert event published to feed", "", map[string]interface{}{"order_id": order.ID})

	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, cmd interfaces.UpdateStatusCommand) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status

	if err := order.TransitionTo(cmd.NewStatus); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatusWithLog(ctx, order, cmd.ChangedBy); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	// Notification failures must not block the status change itself.
	if err := s.publisher.PublishChangeEvent(ctx, changeEvent(domain.EventUpdate, order, &oldStatus)); err != nil {
		s.logger.Error("feed_publish_failed", "Failed to publish update event", "", nil, err)
	}

	return order, nil
}

func changeEvent(eventType domain.EventType, order *domain.Order, oldStatus *domain.Status) interfaces.ChangeEvent {
	return interfaces.ChangeEvent{
		EventType: eventType,
		Table:     "orders",
		Row: interfaces.OrderRow{
			ID:              order.ID,
			Code:            order.Code,
			BusinessID:      order.BusinessID,
			CustomerID:      order.CustomerID,
			CustomerName:    order.CustomerName,
			DeliveryAddress: order.DeliveryAddress,
			TotalAmount:     order.TotalAmount,
			Status:          order.Status,
			OldStatus:       oldStatus,
			CreatedAt:       order.CreatedAt,
			UpdatedAt:       time.Now(),
		},
	}
}
