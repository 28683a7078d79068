package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/app/presenter"
	"github.com/dishpatch/dishpatch/internal/notify"
)

// NotificationHandler exposes the bell and modal state of a notifier
// session.
type NotificationHandler struct {
	bell   *presenter.Bell
	modals *notify.ModalController
	logger logger.Logger
}

func NewNotificationHandler(bell *presenter.Bell, modals *notify.ModalController, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		bell:   bell,
		modals: modals,
		logger: logger,
	}
}

// HandleNotifications dispatches /notifications requests:
//
//	GET  /notifications            bell badge + entries
//	POST /notifications/clear      clear all
//	POST /notifications/{id}/read  mark one as read, returns detail URL
func (h *NotificationHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 1:
		h.getBadge(w, r)
	case len(parts) == 2 && parts[1] == "clear":
		h.clearAll(w, r)
	case len(parts) == 3 && parts[2] == "read":
		h.markAsRead(w, r, parts[1])
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// HandleModals serves /modals/{new_order|status_change} state and
// dismissal.
func (h *NotificationHandler) HandleModals(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	var kind notify.ModalKind
	switch parts[1] {
	case "new_order":
		kind = notify.ModalNewOrder
	case "status_change":
		kind = notify.ModalStatusChange
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		state := h.modals.State(kind)
		resp := map[string]interface{}{
			"open": state.Open,
		}
		if state.Open {
			resp["notification"] = map[string]interface{}{
				"id":            state.Notification.ID,
				"order_code":    state.Notification.OrderCode,
				"customer_name": state.Notification.CustomerName,
				"total_amount":  state.Notification.TotalAmount,
				"status":        state.Notification.Status,
				"created_at":    state.Notification.CreatedAt,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)

	case http.MethodDelete:
		// Dismissing one modal never touches the other slot.
		h.modals.Close(kind)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *NotificationHandler) getBadge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.bell.Badge())
}

func (h *NotificationHandler) clearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.bell.ClearAll()
	h.logger.Debug("notifications_cleared", "All notifications cleared", "", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) markAsRead(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	detailURL := h.bell.MarkAsRead(id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"detail_url": detailURL,
	})
}
