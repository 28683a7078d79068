package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dishpatch/dishpatch/internal/domain"
	"github.com/dishpatch/dishpatch/internal/interfaces"
)

type accountRepository struct {
	db DB
}

func NewAccountRepository(db DB) interfaces.AccountRepository {
	return &accountRepository{db: db}
}

// ResolveRole checks business ownership first, then falls back to a
// customer record. Callers treat lookup failures as a degraded Unknown
// role rather than a fatal error.
func (r *accountRepository) ResolveRole(ctx context.Context, userID string) (domain.Role, error) {
	var businessID string
	err := r.db.QueryRow(ctx,
		`SELECT id FROM businesses WHERE owner_id = $1`, userID,
	).Scan(&businessID)
	if err == nil {
		return domain.OwnerRole(businessID), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.UnknownRole(), fmt.Errorf("failed to look up business: %w", err)
	}

	var customerID string
	err = r.db.QueryRow(ctx,
		`SELECT id FROM customers WHERE user_id = $1`, userID,
	).Scan(&customerID)
	if err == nil {
		return domain.CustomerRole(customerID), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.UnknownRole(), fmt.Errorf("failed to look up customer: %w", err)
	}

	return domain.UnknownRole(), nil
}

func (r *accountRepository) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	var prefs domain.Preferences
	err := r.db.QueryRow(ctx,
		`SELECT sound, notifications FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&prefs.Sound, &prefs.Notifications)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.DefaultPreferences(), fmt.Errorf("failed to load preferences: %w", err)
	}

	return prefs, nil
}
