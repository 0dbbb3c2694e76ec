package cart

import (
	"context"

	"qkart/internal/domain"
)

// Repository persists the one cart each user owns, keyed by owner email.
type Repository interface {
	// FindByOwner returns domain.ErrNotFound when the user has no cart.
	FindByOwner(ctx context.Context, email string) (*domain.Cart, error)
	Create(ctx context.Context, email string, items []domain.CartItem) (*domain.Cart, error)
	// Save replaces the stored items and payment option of cart.
	Save(ctx context.Context, cart *domain.Cart) error
}
