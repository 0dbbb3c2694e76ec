package httpserver

import (
	"context"
	"log"

	"qkart/internal/domain"
	"qkart/internal/events"
	usersvc "qkart/internal/service/user"
)

type userService interface {
	Register(ctx context.Context, in domain.Registration) (*domain.User, usersvc.AuthTokens, error)
	Login(ctx context.Context, email, password string) (*domain.User, usersvc.AuthTokens, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetAddress(ctx context.Context, u *domain.User, address string) (string, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type cartService interface {
	GetCartByUser(ctx context.Context, user *domain.User) (*domain.Cart, error)
	AddProductToCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error)
	UpdateProductInCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error)
	DeleteProductFromCart(ctx context.Context, user *domain.User, productID string) error
	Checkout(ctx context.Context, user *domain.User) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router needs. Events and Metrics are
// optional.
type Deps struct {
	UserSvc     userService
	ProductSvc  productService
	CartSvc     cartService
	Store       pinger
	Events      events.Publisher
	Metrics     *Metrics
	CORSOrigins []string
}

type handlers struct {
	logger   *log.Logger
	users    userService
	products productService
	carts    cartService
	events   events.Publisher
	metrics  *Metrics
}
