package notify

import (
	"fmt"
	"sync"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/domain"
)

// Store holds the most recent order notifications for a session,
// newest first, capped at a fixed number of entries. Every mutation
// synchronously notifies all subscribers in registration order before
// returning.
//
// A Store is constructed once per session and injected into its
// consumers; there is no process-wide instance.
type Store struct {
	mu            sync.Mutex
	capacity      int
	notifications []domain.OrderNotification
	subscribers   []subscriber
	nextSubID     int
	logger        logger.Logger
}

type subscriber struct {
	id int
	fn func()
}

func NewStore(capacity int, lgr logger.Logger) *Store {
	if capacity <= 0 {
		capacity = 10
	}
	return &Store{
		capacity: capacity,
		logger:   lgr,
	}
}

// Subscribe registers a callback invoked after any mutation and returns
// a function that deregisters it. Repeated subscriptions from the same
// caller are independent and must each be individually unsubscribed.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Notifications returns a snapshot copy, newest first.
func (s *Store) Notifications() []domain.OrderNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]domain.OrderNotification, len(s.notifications))
	copy(snapshot, s.notifications)
	return snapshot
}

// Add prepends n and truncates to capacity. It does not deduplicate by
// id; callers that observed the order before must use Update instead.
func (s *Store) Add(n domain.OrderNotification) {
	s.mu.Lock()
	s.notifications = append([]domain.OrderNotification{n}, s.notifications...)
	if len(s.notifications) > s.capacity {
		s.notifications = s.notifications[:s.capacity]
	}
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.dispatch(subs)
}

// Update replaces the entry matching n.ID in place, keeping its
// position. When no entry matches, the sequence is left unchanged (no
// implicit insert) but subscribers are still notified.
func (s *Store) Update(n domain.OrderNotification) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == n.ID {
			s.notifications[i] = n
			break
		}
	}
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.dispatch(subs)
}

// Remove deletes the matching entry if present. Subscribers are
// notified whether or not a match was found.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			break
		}
	}
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.dispatch(subs)
}

// ClearAll empties the sequence without removing subscribers.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.notifications = nil
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.dispatch(subs)
}

// HasUnread reports whether any notification is retained. There is no
// per-item read flag: "unread" is a proxy for presence in the capped
// list, so entries evicted by overflow become implicitly "read". That
// conflation is inherited product behavior, kept deliberately.
func (s *Store) HasUnread() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications) > 0
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

func (s *Store) snapshotSubscribers() []subscriber {
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	return subs
}

// dispatch invokes each subscriber in registration order, isolating
// failures so one panicking subscriber cannot suppress the rest.
func (s *Store) dispatch(subs []subscriber) {
	for _, sub := range subs {
		s.invoke(sub)
	}
}

func (s *Store) invoke(sub subscriber) {
	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.Error("subscriber_panic", "Notification subscriber panicked", "",
					map[string]interface{}{"subscriber_id": sub.id}, fmt.Errorf("%v", r))
			}
		}
	}()
	sub.fn()
}
