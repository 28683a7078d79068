package notify

import (
	"sync"

	"github.com/dishpatch/dishpatch/internal/domain"
)

// ModalKind distinguishes the two independent modal slots.
type ModalKind string

const (
	ModalNewOrder     ModalKind = "new_order"
	ModalStatusChange ModalKind = "status_change"
)

// ModalState is a snapshot of one modal slot.
type ModalState struct {
	Open         bool
	Notification domain.OrderNotification
}

// ModalController holds at most one active notification per modal kind.
// The new-order and status-change slots are independent: opening or
// closing one never affects the other.
type ModalController struct {
	mu           sync.Mutex
	newOrder     ModalState
	statusChange ModalState
}

func NewModalController() *ModalController {
	return &ModalController{}
}

func (m *ModalController) Open(kind ModalKind, n domain.OrderNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := ModalState{Open: true, Notification: n}
	switch kind {
	case ModalNewOrder:
		m.newOrder = state
	case ModalStatusChange:
		m.statusChange = state
	}
}

// Close clears exactly the named slot.
func (m *ModalController) Close(kind ModalKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case ModalNewOrder:
		m.newOrder = ModalState{}
	case ModalStatusChange:
		m.statusChange = ModalState{}
	}
}

func (m *ModalController) State(kind ModalKind) ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case ModalNewOrder:
		return m.newOrder
	case ModalStatusChange:
		return m.statusChange
	}
	return ModalState{}
}
