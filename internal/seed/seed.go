package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"qkart/internal/domain"
)

// DemoEmail and DemoPassword identify the account created by Apply.
const (
	DemoEmail    = "crio-user@example.com"
	DemoPassword = "learnbydoing1"
)

var seedIDSpace = uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")

type productSeed struct {
	Name     string
	Category string
	Cost     string
	Rating   int
	Image    string
}

var products = []productSeed{
	{Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: "50", Rating: 5, Image: "https://example.com/images/running-shoes.png"},
	{Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: "100", Rating: 5, Image: "https://example.com/images/badminton-racquet.png"},
	{Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: "150", Rating: 4, Image: "https://example.com/images/weekender-duffle.png"},
	{Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: "60", Rating: 5, Image: "https://example.com/images/leather-watch.png"},
	{Name: "Atomberg 1200mm BLDC motor Ceiling Fan", Category: "Home & Kitchen", Cost: "80.99", Rating: 4, Image: "https://example.com/images/ceiling-fan.png"},
}

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type UserWriter interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
}

// Apply inserts demo products and a demo user for manual testing. Product ids
// are derived from names so repeated runs update rather than duplicate, and an
// existing demo user is left untouched.
func Apply(ctx context.Context, productRepo ProductWriter, userRepo UserWriter, wallet decimal.Decimal) error {
	for _, s := range products {
		p := domain.Product{
			ID:       uuid.NewSHA1(seedIDSpace, []byte(s.Name)).String(),
			Name:     s.Name,
			Category: s.Category,
			Cost:     decimal.RequireFromString(s.Cost),
			Rating:   s.Rating,
			Image:    s.Image,
		}
		if err := domain.ValidateProduct(p); err != nil {
			return fmt.Errorf("seed product %q: %w", s.Name, err)
		}
		if _, err := productRepo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %q: %w", s.Name, err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = userRepo.Create(ctx, domain.User{
		Name:         "crio-user",
		Email:        DemoEmail,
		PasswordHash: string(hashed),
		WalletMoney:  wallet,
		Address:      domain.DefaultAddress,
	})
	if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("create demo user: %w", err)
	}
	return nil
}
