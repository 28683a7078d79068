package domain

import (
	"errors"
	"time"
)

// Order represents a customer order entity
type Order struct {
	ID              string
	Code            string
	BusinessID      string
	CustomerID      string
	CustomerName    string
	DeliveryAddress *string
	Items           []OrderItem
	TotalAmount     float64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeliveredAt     *time.Time
}

// OrderItem represents an item in an order
type OrderItem struct {
	ID       int
	OrderID  string
	Name     string
	Quantity int
	Price    float64
}

// NewOrder creates a new order with business rules applied
func NewOrder(businessID, customerID, customerName string, items []OrderItem, deliveryAddress *string) (*Order, error) {
	order := &Order{
		BusinessID:      businessID,
		CustomerID:      customerID,
		CustomerName:    customerName,
		DeliveryAddress: deliveryAddress,
		Items:           items,
		Status:          StatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.CalculateTotal()

	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	if o.BusinessID == "" {
		return errors.New("business id is required")
	}

	if o.CustomerID == "" {
		return errors.New("customer id is required")
	}

	if len(o.CustomerName) < 1 || len(o.CustomerName) > 100 {
		return errors.New("customer name must be 1-100 characters")
	}

	if o.DeliveryAddress != nil && len(*o.DeliveryAddress) < 10 {
		return errors.New("delivery address must be at least 10 characters")
	}

	if len(o.Items) < 1 || len(o.Items) > 20 {
		return errors.New("order must have 1-20 items")
	}

	for _, item := range o.Items {
		if len(item.Name) < 1 || len(item.Name) > 50 {
			return errors.New("item name must be 1-50 characters")
		}
		if item.Quantity < 1 || item.Quantity > 10 {
			return errors.New("item quantity must be 1-10")
		}
		if item.Price < 0.01 || item.Price > 999.99 {
			return errors.New("item price must be 0.01-999.99")
		}
	}

	return nil
}

// CalculateTotal calculates the total amount of the order
func (o *Order) CalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.TotalAmount = total
}

// TransitionTo transitions the order to a new status
func (o *Order) TransitionTo(newStatus Status) error {
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}

	o.Status = newStatus
	o.UpdatedAt = time.Now()

	if newStatus == StatusDelivered {
		now := time.Now()
		o.DeliveredAt = &now
	}

	return nil
}

// CanTransitionTo checks if the order can transition to the new status
func (o *Order) CanTransitionTo(newStatus Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:        {StatusPreparing, StatusCancelled, StatusRejected},
		StatusPreparing:      {StatusReady, StatusCancelled},
		StatusReady:          {StatusOutForDelivery, StatusDelivered},
		StatusOutForDelivery: {StatusDelivered},
		StatusDelivered:      {},
		StatusCancelled:      {},
		StatusRejected:       {},
	}

	allowed := validTransitions[o.Status]
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOrderNotFound           = errors.New("order not found")
)
