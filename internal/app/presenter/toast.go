package presenter

import (
	"fmt"
	"io"
	"sync"

	"github.com/dishpatch/dishpatch/internal/domain"
)

// Toast prints one-shot new-order lines to a console writer. It is the
// transient counterpart of the bell: nothing is retained.
type Toast struct {
	mu  sync.Mutex
	out io.Writer
}

func NewToast(out io.Writer) *Toast {
	return &Toast{out: out}
}

func (t *Toast) NewOrder(n domain.OrderNotification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "New order %s from %s: %.2f\n", n.OrderCode, n.CustomerName, n.TotalAmount)
}
