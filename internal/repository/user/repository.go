package user

import (
	"context"

	"qkart/internal/domain"
)

// Repository persists and fetches users. Emails are stored lowercased and are
// unique; Create returns domain.ErrAlreadyExists for a taken email.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Save writes the mutable fields of u: name, wallet money and address.
	Save(ctx context.Context, u *domain.User) error
}
