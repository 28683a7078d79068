package domain

import "time"

// OrderNotification is a snapshot of an order at the moment a change
// event fired. It is what the notification store retains and what the
// presenters render; it is never written back to the orders table.
type OrderNotification struct {
	ID           string
	OrderCode    string
	CustomerName string
	TotalAmount  float64
	Status       Status
	CreatedAt    time.Time
}

// NotificationFromOrder builds the retained snapshot for an order.
func NotificationFromOrder(o *Order) OrderNotification {
	return OrderNotification{
		ID:           o.ID,
		OrderCode:    o.Code,
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	}
}
