// Package cart implements cart mutation and checkout for an authenticated user.
package cart

import (
	"context"
	"errors"

	"qkart/internal/domain"
)

type cartStore interface {
	FindByOwner(ctx context.Context, email string) (*domain.Cart, error)
	Create(ctx context.Context, email string, items []domain.CartItem) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

type productCatalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type userStore interface {
	Save(ctx context.Context, u *domain.User) error
}

type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}

const (
	msgNoCart          = "User does not have a cart"
	msgNoCartForUpdate = "User does not have a cart. Use POST to create cart and add a product"
	msgNoProduct       = "Product doesn't exist in database"
	msgAlreadyInCart   = "Product already in cart. Use the cart sidebar to update or remove product from cart"
	msgNotInCart       = "Product not in cart"
	msgNoItems         = "User does not have items in cart"
	msgNoAddress       = "Address not set"
	msgLowBalance      = "Wallet balance is insufficient balance"
	msgQuantityMin     = "Quantity must be at least 1"
	msgQuantityNeg     = "Quantity must not be negative"
)

// Service owns every cart mutation. All failures are *domain.APIError.
type Service struct {
	carts    cartStore
	products productCatalog
	users    userStore
	tx       txRunner
}

func New(carts cartStore, products productCatalog, users userStore, tx txRunner) *Service {
	return &Service{carts: carts, products: products, users: users, tx: tx}
}

// GetCartByUser returns the user's cart.
func (s *Service) GetCartByUser(ctx context.Context, user *domain.User) (*domain.Cart, error) {
	cart, ok, err := s.findCart(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NotFound(msgNoCart)
	}
	return cart, nil
}

// AddProductToCart adds a snapshot of the product, creating the cart on the
// first add. A product may appear in the cart only once.
func (s *Service) AddProductToCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.InvalidRequest(msgQuantityMin)
	}
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	item, err := domain.NewCartItem(*product, quantity)
	if err != nil {
		return nil, domain.InvalidRequest(msgQuantityMin)
	}

	cart, ok, err := s.findCart(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		created, err := s.carts.Create(ctx, user.Email, []domain.CartItem{item})
		if err != nil {
			return nil, domain.Internal("", err)
		}
		if created == nil {
			return nil, domain.Internal("", errors.New("cart store returned no cart"))
		}
		return created, nil
	}

	if cart.IndexOf(productID) >= 0 {
		return nil, domain.InvalidRequest(msgAlreadyInCart)
	}
	cart.Items = append(cart.Items, item)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, domain.Internal("", err)
	}
	return cart, nil
}

// UpdateProductInCart sets the quantity of a product already in the cart.
// A quantity of zero removes the item.
func (s *Service) UpdateProductInCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, domain.InvalidRequest(msgQuantityNeg)
	}
	cart, ok, err := s.findCart(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.InvalidRequest(msgNoCartForUpdate)
	}
	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, err
	}
	idx := cart.IndexOf(productID)
	if idx < 0 {
		return nil, domain.InvalidRequest(msgNotInCart)
	}

	if quantity == 0 {
		cart.RemoveAt(idx)
	} else {
		cart.Items[idx].Quantity = quantity
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, domain.Internal("", err)
	}
	return cart, nil
}

// DeleteProductFromCart removes the product's item from the cart.
func (s *Service) DeleteProductFromCart(ctx context.Context, user *domain.User, productID string) error {
	cart, ok, err := s.findCart(ctx, user.Email)
	if err != nil {
		return err
	}
	if !ok {
		return domain.InvalidRequest(msgNoCart)
	}
	idx := cart.IndexOf(productID)
	if idx < 0 {
		return domain.InvalidRequest(msgNotInCart)
	}
	cart.RemoveAt(idx)
	if err := s.carts.Save(ctx, cart); err != nil {
		return domain.Internal("", err)
	}
	return nil
}

// Checkout debits the cart total from the user's wallet and empties the cart.
// Both writes happen in one transaction where the store supports it. On
// failure user and cart are left as they were before the call.
func (s *Service) Checkout(ctx context.Context, user *domain.User) error {
	cart, ok, err := s.findCart(ctx, user.Email)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(msgNoCart)
	}
	if len(cart.Items) == 0 {
		return domain.InvalidRequest(msgNoItems)
	}
	if !user.HasSetNonDefaultAddress() {
		return domain.InvalidRequest(msgNoAddress)
	}
	total := cart.Total()
	if total.GreaterThan(user.WalletMoney) {
		return domain.InvalidRequest(msgLowBalance)
	}

	prevWallet := user.WalletMoney
	prevItems := cart.Items
	debited := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user.WalletMoney = prevWallet.Sub(total)
		if err := s.users.Save(ctx, user); err != nil {
			return err
		}
		debited = true
		cart.Items = []domain.CartItem{}
		return s.carts.Save(ctx, cart)
	})
	if err == nil {
		return nil
	}

	user.WalletMoney = prevWallet
	cart.Items = prevItems
	if debited && !s.tx.Atomic() {
		// Stores without transactions keep the debit; write the old balance back.
		if restoreErr := s.users.Save(context.WithoutCancel(ctx), user); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}
	return domain.Internal("", err)
}

func (s *Service) findCart(ctx context.Context, email string) (*domain.Cart, bool, error) {
	cart, err := s.carts.FindByOwner(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, domain.Internal("", err)
	}
	return cart, true, nil
}

func (s *Service) getProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.InvalidRequest(msgNoProduct)
		}
		return nil, domain.Internal("", err)
	}
	return product, nil
}
