package interfaces

import (
	"context"

	"github.com/dishpatch/dishpatch/internal/domain"
)

// Интерфейсы Репозиториев (Adapter/Postgres)
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	GenerateOrderCode(ctx context.Context) (string, error)
	UpdateStatusWithLog(ctx context.Context, order *domain.Order, changedBy string) error
	GetStatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error)
}

// AccountRepository resolves session identity and preferences.
type AccountRepository interface {
	// ResolveRole is the single authoritative role-resolution call: a user
	// owning a business resolves to Owner, otherwise to Customer when a
	// customer record exists, otherwise Unknown.
	ResolveRole(ctx context.Context, userID string) (domain.Role, error)
	GetPreferences(ctx context.Context, userID string) (domain.Preferences, error)
}
