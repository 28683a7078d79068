package aggregator

import (
	"context"
	"fmt"
	"sync"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/domain"
	"github.com/dishpatch/dishpatch/internal/interfaces"
	"github.com/dishpatch/dishpatch/internal/notify"
)

// AlertPlayer is the sound surface the aggregator triggers on new
// orders. Implementations must degrade to a no-op when the host has no
// audio capability.
type AlertPlayer interface {
	Play()
}

// Toaster receives the one-shot new-order toast.
type Toaster interface {
	NewOrder(n domain.OrderNotification)
}

// Service bridges the realtime change feed to the notification store:
// it classifies each incoming event (new order vs. status change),
// mutates the store, and triggers the role-gated side effects (modal,
// toast, sound).
type Service struct {
	store  *notify.Store
	modals *notify.ModalController
	sound  AlertPlayer
	toast  Toaster
	role   domain.Role
	prefs  domain.Preferences
	logger logger.Logger

	mu       sync.Mutex
	observed map[string]domain.Status
	closed   bool
}

func NewService(
	store *notify.Store,
	modals *notify.ModalController,
	sound AlertPlayer,
	toast Toaster,
	role domain.Role,
	prefs domain.Preferences,
	lgr logger.Logger,
) *Service {
	return &Service{
		store:    store,
		modals:   modals,
		sound:    sound,
		toast:    toast,
		role:     role,
		prefs:    prefs,
		logger:   lgr,
		observed: make(map[string]domain.Status),
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.role.Kind == domain.RoleUnknown {
		// No business or customer record resolved; the session stays
		// inert rather than failing hard.
		s.logger.Info("role_unknown", "No role resolved, notifications inactive", "", nil)
	}
	return nil
}

// BindingKey returns the feed binding pattern for the session, or ""
// for an unknown role (no subscription).
func (s *Service) BindingKey() string {
	switch s.role.Kind {
	case domain.RoleOwner:
		return fmt.Sprintf("orders.*.%s.*", s.role.BusinessID)
	case domain.RoleCustomer:
		return fmt.Sprintf("orders.*.*.%s", s.role.CustomerID)
	}
	return ""
}

// HandleChangeEvent processes one change event in arrival order.
// Concurrent events for the same order id resolve last-write-wins at
// the point each is processed.
func (s *Service) HandleChangeEvent(ctx context.Context, event interfaces.ChangeEvent) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if event.Table != "orders" {
		return nil
	}

	if !s.matchesSession(event.Row) {
		s.logger.Debug("event_skipped", "Change event does not match session", "", map[string]interface{}{
			"order_id": event.Row.ID,
		})
		return nil
	}

	switch event.EventType {
	case domain.EventInsert:
		s.handleInsert(event.Row)
	case domain.EventUpdate:
		s.handleUpdate(event.Row)
	default:
		s.logger.Debug("event_skipped", "Unknown event type", "", map[string]interface{}{
			"event_type": string(event.EventType),
		})
	}

	return nil
}

func (s *Service) handleInsert(row interfaces.OrderRow) {
	n := row.Notification()

	s.store.Add(n)
	s.recordObserved(n.ID, n.Status)

	// New-order side effects belong to the owner side only.
	if s.role.Kind != domain.RoleOwner || !s.prefs.Notifications {
		return
	}

	s.modals.Open(notify.ModalNewOrder, n)

	if s.toast != nil {
		s.toast.NewOrder(n)
	}

	if s.prefs.Sound && s.sound != nil {
		s.sound.Play()
	}

	s.logger.Debug("new_order_notified", "New order notification delivered", "", map[string]interface{}{
		"order_id": n.ID,
		"status":   string(n.Status),
	})
}

func (s *Service) handleUpdate(row interfaces.OrderRow) {
	n := row.Notification()

	// Any row change is a candidate for updating the stored snapshot
	// (corrected address, amount adjustments); only the modal is gated
	// on a status delta.
	s.store.Update(n)

	changed := s.statusChanged(row)
	s.recordObserved(n.ID, n.Status)
	if !changed {
		return
	}

	// Status-change modals belong to the customer side; no sound here.
	if s.role.Kind != domain.RoleCustomer || !s.prefs.Notifications {
		return
	}

	s.modals.Open(notify.ModalStatusChange, n)

	s.logger.Debug("status_change_notified", "Status change notification delivered", "", map[string]interface{}{
		"order_id": n.ID,
		"status":   string(n.Status),
	})
}

// statusChanged compares against the event's previous status when the
// feed supplies it, falling back to the session's last-observed value.
func (s *Service) statusChanged(row interfaces.OrderRow) bool {
	if row.OldStatus != nil {
		return *row.OldStatus != row.Status
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.observed[row.ID]
	return ok && prev != row.Status
}

func (s *Service) recordObserved(id string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed[id] = status
}

func (s *Service) matchesSession(row interfaces.OrderRow) bool {
	switch s.role.Kind {
	case domain.RoleOwner:
		return row.BusinessID == s.role.BusinessID
	case domain.RoleCustomer:
		return row.CustomerID == s.role.CustomerID
	}
	return false
}

// Shutdown stops further store mutations from this session's listeners.
// Already-applied mutations are not rolled back.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
