package aggregator

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/domain"
	"github.com/dishpatch/dishpatch/internal/interfaces"
	"github.com/dishpatch/dishpatch/internal/notify"
)

type fakeSound struct {
	plays int
}

func (f *fakeSound) Play() { f.plays++ }

type fakeToast struct {
	shown []domain.OrderNotification
}

func (f *fakeToast) NewOrder(n domain.OrderNotification) { f.shown = append(f.shown, n) }

type fixture struct {
	store  *notify.Store
	modals *notify.ModalController
	sound  *fakeSound
	toast  *fakeToast
	svc    *Service
}

func newFixture(t *testing.T, role domain.Role, prefs domain.Preferences) *fixture {
	t.Helper()

	lgr := logger.NewWithWriter("test", io.Discard)
	f := &fixture{
		store:  notify.NewStore(10, lgr),
		modals: notify.NewModalController(),
		sound:  &fakeSound{},
		toast:  &fakeToast{},
	}
	f.svc = NewService(f.store, f.modals, f.sound, f.toast, role, prefs, lgr)
	require.NoError(t, f.svc.Start(context.Background()))
	return f
}

func insertEvent(orderID, businessID, customerID string) interfaces.ChangeEvent {
	return interfaces.ChangeEvent{
		EventType: domain.EventInsert,
		Table:     "orders",
		Row: interfaces.OrderRow{
			ID:           orderID,
			Code:         "ORD_20260828_001",
			BusinessID:   businessID,
			CustomerID:   customerID,
			CustomerName: "Alice",
			TotalAmount:  31.90,
			Status:       domain.StatusPending,
			CreatedAt:    time.Now(),
		},
	}
}

func updateEvent(orderID, businessID, customerID string, oldStatus, newStatus domain.Status) interfaces.ChangeEvent {
	event := insertEvent(orderID, businessID, customerID)
	event.EventType = domain.EventUpdate
	event.Row.Status = newStatus
	event.Row.OldStatus = &oldStatus
	return event
}

func TestOwnerInsertOpensModalAndPlaysSound(t *testing.T) {
	f := newFixture(t, domain.OwnerRole("biz-1"), domain.Preferences{Sound: true, Notifications: true})

	err := f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.Len())
	assert.True(t, f.modals.State(notify.ModalNewOrder).Open)
	assert.Equal(t, "o1", f.modals.State(notify.ModalNewOrder).Notification.ID)
	assert.Equal(t, 1, f.sound.plays)
	assert.Len(t, f.toast.shown, 1)
}

func TestOwnerInsertWithSoundDisabled(t *testing.T) {
	f := newFixture(t, domain.OwnerRole("biz-1"), domain.Preferences{Sound: false, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))

	assert.True(t, f.modals.State(notify.ModalNewOrder).Open)
	assert.Equal(t, 0, f.sound.plays)
}

func TestCustomerInsertForOwnOrderStoresWithoutSideEffects(t *testing.T) {
	f := newFixture(t, domain.CustomerRole("cust-9"), domain.Preferences{Sound: true, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))

	assert.Equal(t, 1, f.store.Len())
	assert.False(t, f.modals.State(notify.ModalNewOrder).Open)
	assert.Equal(t, 0, f.sound.plays)
	assert.Empty(t, f.toast.shown)
}

func TestCustomerIgnoresSomeoneElsesInsert(t *testing.T) {
	f := newFixture(t, domain.CustomerRole("cust-9"), domain.Preferences{Sound: true, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-other")))

	assert.Equal(t, 0, f.store.Len())
	assert.False(t, f.modals.State(notify.ModalNewOrder).Open)
	assert.Equal(t, 0, f.sound.plays)
}

func TestCustomerStatusChangeOpensModalWithoutSound(t *testing.T) {
	f := newFixture(t, domain.CustomerRole("cust-9"), domain.Preferences{Sound: true, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))
	require.NoError(t, f.svc.HandleChangeEvent(context.Background(),
		updateEvent("o1", "biz-1", "cust-9", domain.StatusPending, domain.StatusPreparing)))

	state := f.modals.State(notify.ModalStatusChange)
	require.True(t, state.Open)
	assert.Equal(t, domain.StatusPreparing, state.Notification.Status)
	assert.Equal(t, 0, f.sound.plays)

	// Store entry updated in place, not appended.
	got := f.store.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusPreparing, got[0].Status)
}

func TestOwnerStatusChangeDoesNotOpenCustomerModal(t *testing.T) {
	f := newFixture(t, domain.OwnerRole("biz-1"), domain.Preferences{Sound: true, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))
	f.modals.Close(notify.ModalNewOrder)

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(),
		updateEvent("o1", "biz-1", "cust-9", domain.StatusPending, domain.StatusPreparing)))

	assert.False(t, f.modals.State(notify.ModalStatusChange).Open)
	assert.Equal(t, 1, f.sound.plays) // from the insert only
}

func TestUpdateWithoutStatusDeltaUpdatesSnapshotOnly(t *testing.T) {
	f := newFixture(t, domain.CustomerRole("cust-9"), domain.Preferences{Sound: true, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))

	// Unrelated column change: same status on both sides.
	event := updateEvent("o1", "biz-1", "cust-9", domain.StatusPending, domain.StatusPending)
	event.Row.CustomerName = "Alice B."
	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), event))

	assert.False(t, f.modals.State(notify.ModalStatusChange).Open)

	got := f.store.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "Alice B.", got[0].CustomerName)
}

func TestUpdateFallsBackToObservedStatus(t *testing.T) {
	f := newFixture(t, domain.CustomerRole("cust-9"), domain.Preferences{Sound: true, Notifications: true})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))

	// Event without old_status: the aggregator compares against what it
	// last observed for the id.
	event := updateEvent("o1", "biz-1", "cust-9", domain.StatusPending, domain.StatusReady)
	event.Row.OldStatus = nil
	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), event))

	assert.True(t, f.modals.State(notify.ModalStatusChange).Open)
}

func TestNotificationsPreferenceSuppressesSideEffects(t *testing.T) {
	f := newFixture(t, domain.OwnerRole("biz-1"), domain.Preferences{Sound: true, Notifications: false})

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))

	// The store still records the order; only modal/toast/sound are gated.
	assert.Equal(t, 1, f.store.Len())
	assert.False(t, f.modals.State(notify.ModalNewOrder).Open)
	assert.Equal(t, 0, f.sound.plays)
	assert.Empty(t, f.toast.shown)
}

func TestUnknownRoleHasNoBindingAndIgnoresEvents(t *testing.T) {
	f := newFixture(t, domain.UnknownRole(), domain.Preferences{Sound: true, Notifications: true})

	assert.Equal(t, "", f.svc.BindingKey())

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))
	assert.Equal(t, 0, f.store.Len())
}

func TestBindingKeys(t *testing.T) {
	owner := newFixture(t, domain.OwnerRole("biz-1"), domain.DefaultPreferences())
	assert.Equal(t, "orders.*.biz-1.*", owner.svc.BindingKey())

	customer := newFixture(t, domain.CustomerRole("cust-9"), domain.DefaultPreferences())
	assert.Equal(t, "orders.*.*.cust-9", customer.svc.BindingKey())
}

func TestIgnoresOtherTables(t *testing.T) {
	f := newFixture(t, domain.OwnerRole("biz-1"), domain.DefaultPreferences())

	event := insertEvent("o1", "biz-1", "cust-9")
	event.Table = "menu_items"
	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), event))

	assert.Equal(t, 0, f.store.Len())
}

func TestShutdownStopsFurtherMutations(t *testing.T) {
	f := newFixture(t, domain.OwnerRole("biz-1"), domain.DefaultPreferences())

	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o1", "biz-1", "cust-9")))
	require.NoError(t, f.svc.Shutdown(context.Background()))
	require.NoError(t, f.svc.HandleChangeEvent(context.Background(), insertEvent("o2", "biz-1", "cust-9")))

	// The mutation applied before shutdown is not rolled back.
	assert.Equal(t, 1, f.store.Len())
}
