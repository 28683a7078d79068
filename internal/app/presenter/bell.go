package presenter

import (
	"fmt"
	"net/url"

	"github.com/dishpatch/dishpatch/internal/interfaces"
	"github.com/dishpatch/dishpatch/internal/notify"
)

// Bell is the badge view over the notification store. It holds no
// private copy of the notifications; every read takes a fresh snapshot.
type Bell struct {
	store     *notify.Store
	detailURL string
}

func NewBell(store *notify.Store, detailURL string) *Bell {
	return &Bell{
		store:     store,
		detailURL: detailURL,
	}
}

// Badge renders the current store state with per-entry navigation
// targets.
func (b *Bell) Badge() interfaces.BellResponse {
	notifications := b.store.Notifications()

	resp := interfaces.BellResponse{
		Unread:        len(notifications) > 0,
		Count:         len(notifications),
		Notifications: make([]interfaces.NotificationResponse, 0, len(notifications)),
	}

	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, interfaces.NotificationResponse{
			ID:           n.ID,
			OrderCode:    n.OrderCode,
			CustomerName: n.CustomerName,
			TotalAmount:  n.TotalAmount,
			Status:       n.Status,
			CreatedAt:    n.CreatedAt,
			DetailURL:    b.DetailURL(n.ID),
		})
	}

	return resp
}

// MarkAsRead removes the entry and returns the navigation target for
// the order-detail view.
func (b *Bell) MarkAsRead(id string) string {
	b.store.Remove(id)
	return b.DetailURL(id)
}

func (b *Bell) ClearAll() {
	b.store.ClearAll()
}

func (b *Bell) DetailURL(orderID string) string {
	return fmt.Sprintf("%s?order=%s", b.detailURL, url.QueryEscape(orderID))
}
