package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishpatch/dishpatch/internal/domain"
)

func TestModalSlotsAreIndependent(t *testing.T) {
	m := NewModalController()

	m.Open(ModalNewOrder, notification("new", domain.StatusPending))
	m.Open(ModalStatusChange, notification("changed", domain.StatusReady))

	require.True(t, m.State(ModalNewOrder).Open)
	require.True(t, m.State(ModalStatusChange).Open)

	m.Close(ModalNewOrder)

	assert.False(t, m.State(ModalNewOrder).Open)
	assert.True(t, m.State(ModalStatusChange).Open)
	assert.Equal(t, "changed", m.State(ModalStatusChange).Notification.ID)
}

func TestModalOpenReplacesNotification(t *testing.T) {
	m := NewModalController()

	m.Open(ModalNewOrder, notification("first", domain.StatusPending))
	m.Open(ModalNewOrder, notification("second", domain.StatusPending))

	state := m.State(ModalNewOrder)
	require.True(t, state.Open)
	assert.Equal(t, "second", state.Notification.ID)
}

func TestModalCloseIsIdempotent(t *testing.T) {
	m := NewModalController()

	m.Close(ModalStatusChange)
	assert.False(t, m.State(ModalStatusChange).Open)
}
