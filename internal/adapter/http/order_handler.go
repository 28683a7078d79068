package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/domain"
	"github.com/dishpatch/dishpatch/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	BusinessID      string             `json:"business_id"`
	CustomerID      string             `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	DeliveryAddress *string            `json:"delivery_address,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type CreateOrderResponse struct {
	OrderID     string  `json:"order_id"`
	OrderCode   string  `json:"order_code"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type UpdateStatusRequest struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", "", map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))

		h.respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		BusinessID:      strings.TrimSpace(req.BusinessID),
		CustomerID:      strings.TrimSpace(req.CustomerID),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		DeliveryAddress: req.DeliveryAddress,
		Items:           convertItemsToCommand(req.Items),
	}

	result, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", "", nil, err)
		h.respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	resp := CreateOrderResponse{
		OrderID:     result.ID,
		OrderCode:   result.Code,
		Status:      string(result.Status),
		TotalAmount: result.TotalAmount,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// HandleOrders dispatches /orders/{id}/status requests.
func (h *OrderHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 3 && parts[2] == "status" {
		h.updateStatus(w, r, parts[1])
		return
	}

	http.Error(w, "Not found", http.StatusNotFound)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodPatch {
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if !domain.ValidStatus(domain.Status(req.Status)) {
		h.respondError(w, "Invalid status", http.StatusBadRequest, []ValidationError{{
			Field:   "status",
			Message: "status must be a known order status",
		}})
		return
	}

	cmd := interfaces.UpdateStatusCommand{
		OrderID:   orderID,
		NewStatus: domain.Status(req.Status),
		ChangedBy: strings.TrimSpace(req.ChangedBy),
	}

	result, err := h.service.UpdateStatus(r.Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			h.respondError(w, "Order not found", http.StatusNotFound, nil)
		case errors.Is(err, domain.ErrInvalidStatusTransition):
			h.respondError(w, err.Error(), http.StatusConflict, nil)
		default:
			h.logger.Error("status_update_failed", "Failed to update order status", "", nil, err)
			h.respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		}
		return
	}

	resp := map[string]interface{}{
		"order_id": result.ID,
		"status":   result.Status,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.BusinessID) == "" {
		errors = append(errors, ValidationError{
			Field:   "business_id",
			Message: "business id is required",
		})
	}

	if strings.TrimSpace(req.CustomerID) == "" {
		errors = append(errors, ValidationError{
			Field:   "customer_id",
			Message: "customer id is required",
		})
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if len(customerName) < 1 {
		errors = append(errors, ValidationError{
			Field:   "customer_name",
			Message: "customer name is required",
		})
	} else if len(customerName) > 100 {
		errors = append(errors, ValidationError{
			Field:   "customer_name",
			Message: "customer name must not exceed 100 characters",
		})
	}

	if req.DeliveryAddress != nil && len(strings.TrimSpace(*req.DeliveryAddress)) < 10 {
		errors = append(errors, ValidationError{
			Field:   "delivery_address",
			Message: "delivery address must be at least 10 characters",
		})
	}

	if len(req.Items) < 1 {
		errors = append(errors, ValidationError{
			Field:   "items",
			Message: "order must contain at least 1 item",
		})
	} else if len(req.Items) > 20 {
		errors = append(errors, ValidationError{
			Field:   "items",
			Message: "order must not contain more than 20 items",
		})
	}

	for i, item := range req.Items {
		itemPrefix := fmt.Sprintf("items[%d]", i)

		itemName := strings.TrimSpace(item.Name)
		if len(itemName) < 1 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.name", itemPrefix),
				Message: "item name is required",
			})
		} else if len(itemName) > 50 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.name", itemPrefix),
				Message: "item name must not exceed 50 characters",
			})
		}

		if item.Quantity < 1 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.quantity", itemPrefix),
				Message: "item quantity must be at least 1",
			})
		} else if item.Quantity > 10 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.quantity", itemPrefix),
				Message: "item quantity must not exceed 10",
			})
		}

		if item.Price < 0.01 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.price", itemPrefix),
				Message: "item price must be at least 0.01",
			})
		} else if item.Price > 999.99 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.price", itemPrefix),
				Message: "item price must not exceed 999.99",
			})
		}
	}

	return errors
}

func convertItemsToCommand(items []OrderItemRequest) []interfaces.CreateOrderItemCommand {
	result := make([]interfaces.CreateOrderItemCommand, len(items))
	for i, item := range items {
		result[i] = interfaces.CreateOrderItemCommand{
			Name:     strings.TrimSpace(item.Name),
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return result
}

func (h *OrderHandler) respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	}

	json.NewEncoder(w).Encode(errResp)
}
