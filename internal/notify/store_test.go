package notify

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/domain"
)

func testLogger() logger.Logger {
	return logger.NewWithWriter("test", io.Discard)
}

func notification(id string, status domain.Status) domain.OrderNotification {
	return domain.OrderNotification{
		ID:           id,
		CustomerName: "Alice",
		TotalAmount:  42.50,
		Status:       status,
	}
}

func TestStoreCapacityAndOrder(t *testing.T) {
	store := NewStore(10, testLogger())

	for i := 0; i < 25; i++ {
		store.Add(notification(fmt.Sprintf("order-%d", i), domain.StatusPending))
	}

	got := store.Notifications()
	require.Len(t, got, 10)

	// Newest first: the last added entry leads.
	for i, n := range got {
		assert.Equal(t, fmt.Sprintf("order-%d", 24-i), n.ID)
	}
}

func TestStoreAddDoesNotDeduplicate(t *testing.T) {
	store := NewStore(10, testLogger())

	store.Add(notification("dup", domain.StatusPending))
	store.Add(notification("dup", domain.StatusPreparing))

	require.Equal(t, 2, store.Len())
}

func TestStoreUpdateInPlace(t *testing.T) {
	store := NewStore(10, testLogger())

	store.Add(notification("A", domain.StatusPending))
	store.Add(notification("B", domain.StatusPending))
	store.Add(notification("C", domain.StatusPending))

	store.Update(notification("A", domain.StatusPreparing))

	got := store.Notifications()
	require.Len(t, got, 3)

	// "A" was added first, so it sits last; the update keeps it there.
	assert.Equal(t, "A", got[2].ID)
	assert.Equal(t, domain.StatusPreparing, got[2].Status)
	assert.Equal(t, domain.StatusPending, got[0].Status)
	assert.Equal(t, domain.StatusPending, got[1].Status)
}

func TestStoreUpdateUnknownIDIsNoOpButNotifies(t *testing.T) {
	store := NewStore(10, testLogger())
	store.Add(notification("A", domain.StatusPending))

	notified := 0
	store.Subscribe(func() { notified++ })

	store.Update(notification("ghost", domain.StatusReady))

	got := store.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, domain.StatusPending, got[0].Status)
	assert.Equal(t, 1, notified)
}

func TestStoreRemoveNotifiesRegardless(t *testing.T) {
	store := NewStore(10, testLogger())
	store.Add(notification("A", domain.StatusPending))

	notified := 0
	store.Subscribe(func() { notified++ })

	store.Remove("A")
	store.Remove("A")

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 2, notified)
}

func TestStoreHasUnreadReflectsEmptiness(t *testing.T) {
	store := NewStore(10, testLogger())

	assert.False(t, store.HasUnread())

	store.Add(notification("A", domain.StatusPending))
	assert.True(t, store.HasUnread())

	store.ClearAll()
	assert.False(t, store.HasUnread())
	assert.Equal(t, 0, store.Len())
}

func TestStoreClearAllKeepsSubscribers(t *testing.T) {
	store := NewStore(10, testLogger())

	notified := 0
	store.Subscribe(func() { notified++ })

	store.ClearAll()
	store.Add(notification("A", domain.StatusPending))

	assert.Equal(t, 2, notified)
}

func TestStoreSubscriberFanOutOrder(t *testing.T) {
	store := NewStore(10, testLogger())

	var order []string
	store.Subscribe(func() { order = append(order, "a") })
	unsub2 := store.Subscribe(func() { order = append(order, "b") })
	store.Subscribe(func() { order = append(order, "c") })

	store.Add(notification("A", domain.StatusPending))
	require.Equal(t, []string{"a", "b", "c"}, order)

	order = nil
	unsub2()
	store.Add(notification("B", domain.StatusPending))
	assert.Equal(t, []string{"a", "c"}, order)
}

func TestStoreIndependentSubscriptionsFromSameCallback(t *testing.T) {
	store := NewStore(10, testLogger())

	count := 0
	fn := func() { count++ }

	unsub1 := store.Subscribe(fn)
	store.Subscribe(fn)

	store.Add(notification("A", domain.StatusPending))
	require.Equal(t, 2, count)

	unsub1()
	store.Add(notification("B", domain.StatusPending))
	assert.Equal(t, 3, count)
}

func TestStorePanickingSubscriberIsIsolated(t *testing.T) {
	store := NewStore(10, testLogger())

	reached := false
	store.Subscribe(func() { panic("presenter exploded") })
	store.Subscribe(func() { reached = true })

	require.NotPanics(t, func() {
		store.Add(notification("A", domain.StatusPending))
	})
	assert.True(t, reached)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := NewStore(10, testLogger())
	store.Add(notification("A", domain.StatusPending))

	snapshot := store.Notifications()
	snapshot[0].Status = domain.StatusCancelled

	assert.Equal(t, domain.StatusPending, store.Notifications()[0].Status)
}
