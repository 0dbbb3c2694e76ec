package cart

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"qkart/internal/domain"
	"qkart/internal/repository/txn"
)

type memCarts struct {
	carts       map[string]*domain.Cart
	findErr     error
	createErr   error
	saveErr     error
	createCalls int
	saveCalls   int
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string]*domain.Cart{}}
}

func (m *memCarts) FindByOwner(_ context.Context, email string) (*domain.Cart, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	c, ok := m.carts[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

func (m *memCarts) Create(_ context.Context, email string, items []domain.CartItem) (*domain.Cart, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	c := &domain.Cart{ID: "cart-" + email, Email: email, Items: items, PaymentOption: domain.DefaultPaymentOption}
	m.carts[email] = c.Clone()
	return c, nil
}

func (m *memCarts) Save(_ context.Context, c *domain.Cart) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[c.Email] = c.Clone()
	return nil
}

type memProducts map[string]domain.Product

func (m memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type memUsers struct {
	wallets   map[string]decimal.Decimal
	saveErr   error
	saveCalls int
}

func newMemUsers() *memUsers {
	return &memUsers{wallets: map[string]decimal.Decimal{}}
}

func (m *memUsers) Save(_ context.Context, u *domain.User) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.wallets[u.ID] = u.WalletMoney
	return nil
}

// rollbackTx restores both stores when fn fails, like a database transaction.
type rollbackTx struct {
	carts *memCarts
	users *memUsers
}

func (r rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	carts := map[string]*domain.Cart{}
	for k, v := range r.carts.carts {
		carts[k] = v.Clone()
	}
	wallets := map[string]decimal.Decimal{}
	for k, v := range r.users.wallets {
		wallets[k] = v
	}
	if err := fn(ctx); err != nil {
		r.carts.carts = carts
		r.users.wallets = wallets
		return err
	}
	return nil
}

func (rollbackTx) Atomic() bool {
	return true
}

var (
	shoe   = domain.Product{ID: "shoe", Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: decimal.NewFromInt(50), Rating: 5}
	laptop = domain.Product{ID: "laptop", Name: "Laptop", Category: "Electronics", Cost: decimal.NewFromInt(250), Rating: 4}
)

type fixture struct {
	svc      *Service
	carts    *memCarts
	users    *memUsers
	products memProducts
	user     *domain.User
}

func newFixture() *fixture {
	f := &fixture{
		carts:    newMemCarts(),
		users:    newMemUsers(),
		products: memProducts{shoe.ID: shoe, laptop.ID: laptop},
		user: &domain.User{
			ID:          "u1",
			Email:       "crio-user@example.com",
			WalletMoney: decimal.NewFromInt(500),
			Address:     domain.DefaultAddress,
		},
	}
	f.users.wallets[f.user.ID] = f.user.WalletMoney
	f.svc = New(f.carts, f.products, f.users, rollbackTx{carts: f.carts, users: f.users})
	return f
}

func (f *fixture) seedCart(items ...domain.CartItem) {
	f.carts.carts[f.user.Email] = &domain.Cart{ID: "c1", Email: f.user.Email, Items: items, PaymentOption: domain.DefaultPaymentOption}
}

func requireAPIError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.StatusCode)
	if msg != "" {
		assert.Contains(t, apiErr.Message, msg)
	}
}

func TestGetCartByUser(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetCartByUser(context.Background(), f.user)
	requireAPIError(t, err, http.StatusNotFound, "User does not have a cart")

	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1})
	first, err := f.svc.GetCartByUser(context.Background(), f.user)
	require.NoError(t, err)
	second, err := f.svc.GetCartByUser(context.Background(), f.user)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Zero(t, f.carts.saveCalls)
	assert.Zero(t, f.carts.createCalls)
}

func TestGetCartByUser_StorageFailure(t *testing.T) {
	f := newFixture()
	f.carts.findErr = errors.New("connection refused")

	_, err := f.svc.GetCartByUser(context.Background(), f.user)
	requireAPIError(t, err, http.StatusInternalServerError, "")
}

func TestAddProductToCart_CreatesCartThenRejectsDuplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cart, err := f.svc.AddProductToCart(ctx, f.user, shoe.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, shoe.ID, cart.Items[0].Product.ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 1, f.carts.createCalls)

	_, err = f.svc.AddProductToCart(ctx, f.user, shoe.ID, 1)
	requireAPIError(t, err, http.StatusBadRequest, "already in cart")
	assert.Len(t, f.carts.carts[f.user.Email].Items, 1)
}

func TestAddProductToCart_AppendsInOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AddProductToCart(ctx, f.user, shoe.ID, 1)
	require.NoError(t, err)
	cart, err := f.svc.AddProductToCart(ctx, f.user, laptop.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, shoe.ID, cart.Items[0].Product.ID)
	assert.Equal(t, laptop.ID, cart.Items[1].Product.ID)
	assert.Equal(t, 1, f.carts.createCalls)
	assert.Equal(t, 1, f.carts.saveCalls)
}

func TestAddProductToCart_SnapshotsPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AddProductToCart(ctx, f.user, shoe.ID, 1)
	require.NoError(t, err)

	repriced := shoe
	repriced.Cost = decimal.NewFromInt(80)
	f.products[shoe.ID] = repriced

	cart, err := f.svc.GetCartByUser(ctx, f.user)
	require.NoError(t, err)
	assert.True(t, cart.Items[0].Product.Cost.Equal(decimal.NewFromInt(50)))
}

func TestAddProductToCart_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AddProductToCart(ctx, f.user, "missing", 1)
	requireAPIError(t, err, http.StatusBadRequest, "Product doesn't exist in database")

	_, err = f.svc.AddProductToCart(ctx, f.user, shoe.ID, 0)
	requireAPIError(t, err, http.StatusBadRequest, "Quantity must be at least 1")

	f.carts.createErr = errors.New("disk full")
	_, err = f.svc.AddProductToCart(ctx, f.user, shoe.ID, 1)
	requireAPIError(t, err, http.StatusInternalServerError, "")
}

func TestUpdateProductInCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.UpdateProductInCart(ctx, f.user, shoe.ID, 2)
	requireAPIError(t, err, http.StatusBadRequest, "Use POST to create cart")

	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1}, domain.CartItem{Product: laptop, Quantity: 1})

	_, err = f.svc.UpdateProductInCart(ctx, f.user, "missing", 2)
	requireAPIError(t, err, http.StatusBadRequest, "Product doesn't exist in database")

	f.products["lamp"] = domain.Product{ID: "lamp", Name: "Lamp", Category: "Home", Cost: decimal.NewFromInt(10)}
	_, err = f.svc.UpdateProductInCart(ctx, f.user, "lamp", 2)
	requireAPIError(t, err, http.StatusBadRequest, "Product not in cart")

	_, err = f.svc.UpdateProductInCart(ctx, f.user, shoe.ID, -1)
	requireAPIError(t, err, http.StatusBadRequest, "Quantity must not be negative")

	cart, err := f.svc.UpdateProductInCart(ctx, f.user, shoe.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 4, f.carts.carts[f.user.Email].Items[0].Quantity)
}

func TestUpdateProductInCart_ZeroRemovesItem(t *testing.T) {
	f := newFixture()
	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1}, domain.CartItem{Product: laptop, Quantity: 1})

	cart, err := f.svc.UpdateProductInCart(context.Background(), f.user, shoe.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, laptop.ID, cart.Items[0].Product.ID)
}

func TestDeleteProductFromCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.svc.DeleteProductFromCart(ctx, f.user, shoe.ID)
	requireAPIError(t, err, http.StatusBadRequest, "User does not have a cart")

	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1})

	err = f.svc.DeleteProductFromCart(ctx, f.user, laptop.ID)
	requireAPIError(t, err, http.StatusBadRequest, "Product not in cart")

	require.NoError(t, f.svc.DeleteProductFromCart(ctx, f.user, shoe.ID))
	assert.Empty(t, f.carts.carts[f.user.Email].Items)
}

func TestCheckout_Rejections(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	err := f.svc.Checkout(ctx, f.user)
	requireAPIError(t, err, http.StatusNotFound, "")

	f.seedCart()
	err = f.svc.Checkout(ctx, f.user)
	requireAPIError(t, err, http.StatusBadRequest, "does not have items")

	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1})
	err = f.svc.Checkout(ctx, f.user)
	requireAPIError(t, err, http.StatusBadRequest, "Address not set")

	f.user.Address = "128 Residency Road, Bangalore"
	f.user.WalletMoney = decimal.Zero
	f.seedCart(domain.CartItem{Product: shoe, Quantity: 10})
	err = f.svc.Checkout(ctx, f.user)
	requireAPIError(t, err, http.StatusBadRequest, "insufficient balance")

	assert.Zero(t, f.users.saveCalls)
	assert.Len(t, f.carts.carts[f.user.Email].Items, 1)
}

func TestCheckout_DebitsWalletAndEmptiesCart(t *testing.T) {
	f := newFixture()
	f.user.Address = "128 Residency Road, Bangalore"
	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1}, domain.CartItem{Product: laptop, Quantity: 1})

	require.NoError(t, f.svc.Checkout(context.Background(), f.user))

	assert.True(t, f.user.WalletMoney.Equal(decimal.NewFromInt(200)), "wallet %s", f.user.WalletMoney)
	assert.True(t, f.users.wallets[f.user.ID].Equal(decimal.NewFromInt(200)))
	assert.Empty(t, f.carts.carts[f.user.Email].Items)
	assert.False(t, f.user.WalletMoney.IsNegative())
}

func TestCheckout_TotalIsExact(t *testing.T) {
	f := newFixture()
	f.user.Address = "128 Residency Road, Bangalore"
	f.user.WalletMoney = decimal.RequireFromString("0.30")
	dime := domain.Product{ID: "dime", Name: "Sticker", Category: "Misc", Cost: decimal.RequireFromString("0.10")}
	f.seedCart(domain.CartItem{Product: dime, Quantity: 3})

	require.NoError(t, f.svc.Checkout(context.Background(), f.user))
	assert.True(t, f.user.WalletMoney.IsZero(), "wallet %s", f.user.WalletMoney)
}

func TestCheckout_AllowsExactBalance(t *testing.T) {
	f := newFixture()
	f.user.Address = "128 Residency Road, Bangalore"
	f.seedCart(domain.CartItem{Product: laptop, Quantity: 2})

	require.NoError(t, f.svc.Checkout(context.Background(), f.user))
	assert.True(t, f.user.WalletMoney.IsZero())
}

func TestCheckout_CartWriteFailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture()
	f.user.Address = "128 Residency Road, Bangalore"
	f.seedCart(domain.CartItem{Product: shoe, Quantity: 2})
	f.carts.saveErr = errors.New("write conflict")

	err := f.svc.Checkout(context.Background(), f.user)
	requireAPIError(t, err, http.StatusInternalServerError, "")

	assert.True(t, f.user.WalletMoney.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.users.wallets[f.user.ID].Equal(decimal.NewFromInt(500)))
	assert.Len(t, f.carts.carts[f.user.Email].Items, 1)
	assert.Equal(t, 1, f.users.saveCalls, "rolled back debit must not be written again")
}

func TestCheckout_WithoutTransactionsRestoresWallet(t *testing.T) {
	f := newFixture()
	f.svc = New(f.carts, f.products, f.users, txn.Passthrough{})
	f.user.Address = "128 Residency Road, Bangalore"
	f.seedCart(domain.CartItem{Product: shoe, Quantity: 2})
	f.carts.saveErr = errors.New("write conflict")

	err := f.svc.Checkout(context.Background(), f.user)
	requireAPIError(t, err, http.StatusInternalServerError, "")

	assert.Equal(t, 2, f.users.saveCalls)
	assert.True(t, f.users.wallets[f.user.ID].Equal(decimal.NewFromInt(500)))
	assert.True(t, f.user.WalletMoney.Equal(decimal.NewFromInt(500)))
}

func TestCheckout_UserWriteFailure(t *testing.T) {
	f := newFixture()
	f.user.Address = "128 Residency Road, Bangalore"
	f.seedCart(domain.CartItem{Product: shoe, Quantity: 1})
	f.users.saveErr = errors.New("timeout")

	err := f.svc.Checkout(context.Background(), f.user)
	requireAPIError(t, err, http.StatusInternalServerError, "")

	assert.Equal(t, 1, f.users.saveCalls)
	assert.Zero(t, f.carts.saveCalls)
	assert.True(t, f.user.WalletMoney.Equal(decimal.NewFromInt(500)))
}
