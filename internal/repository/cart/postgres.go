package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"qkart/internal/domain"
	"qkart/internal/repository/txn"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository storing items as a jsonb document.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) FindByOwner(ctx context.Context, email string) (*domain.Cart, error) {
	const q = `
SELECT id::text, email, items, payment_option, created_at, updated_at
FROM carts
WHERE lower(email) = lower($1)
LIMIT 1
`
	c, err := r.scanCart(txn.From(ctx, r.pool).QueryRow(ctx, q, email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("cart repo: find email=%s error=%v", email, err)
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Create(ctx context.Context, email string, items []domain.CartItem) (*domain.Cart, error) {
	itemsJSON, err := encodeItems(items)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO carts (email, items, payment_option)
VALUES ($1, $2::jsonb, $3)
RETURNING id::text, email, items, payment_option, created_at, updated_at
`
	c, err := r.scanCart(txn.From(ctx, r.pool).QueryRow(ctx, q, strings.ToLower(email), itemsJSON, domain.DefaultPaymentOption))
	if err != nil {
		r.logger.Printf("cart repo: create email=%s error=%v", email, err)
		return nil, err
	}
	r.logger.Printf("cart repo: created id=%s email=%s items=%d", c.ID, c.Email, len(c.Items))
	return c, nil
}

func (r *postgresRepo) Save(ctx context.Context, cart *domain.Cart) error {
	itemsJSON, err := encodeItems(cart.Items)
	if err != nil {
		return err
	}
	const q = `
UPDATE carts
SET items = $2::jsonb,
    payment_option = $3,
    updated_at = now()
WHERE id = $1
RETURNING updated_at
`
	err = txn.From(ctx, r.pool).QueryRow(ctx, q, cart.ID, itemsJSON, cart.PaymentOption).Scan(&cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		r.logger.Printf("cart repo: save id=%s error=%v", cart.ID, err)
		return err
	}
	r.logger.Printf("cart repo: saved id=%s items=%d", cart.ID, len(cart.Items))
	return nil
}

func (r *postgresRepo) scanCart(row pgx.Row) (*domain.Cart, error) {
	var c domain.Cart
	var itemsJSON []byte
	err := row.Scan(&c.ID, &c.Email, &itemsJSON, &c.PaymentOption, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		r.logger.Printf("cart repo: decode items id=%s err=%v", c.ID, err)
		return nil, err
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return &c, nil
}

func encodeItems(items []domain.CartItem) (string, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
