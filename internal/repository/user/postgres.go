package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"qkart/internal/domain"
	"qkart/internal/repository/txn"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const columns = `id::text, name, email, password_hash, wallet_money::text, address, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	q := `
INSERT INTO users (name, email, password_hash, wallet_money, address)
VALUES ($1, $2, $3, $4::numeric, $5)
RETURNING ` + columns
	created, err := r.scanUser(txn.From(ctx, r.pool).QueryRow(
		ctx,
		q,
		u.Name,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.WalletMoney.String(),
		u.Address,
	))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s email=%s", created.ID, created.Email)
	return created, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(txn.From(ctx, r.pool).QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + columns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(txn.From(ctx, r.pool).QueryRow(ctx, q, id))
}

func (r *postgresRepo) Save(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users
SET name = $2,
    wallet_money = $3::numeric,
    address = $4,
    updated_at = now()
WHERE id = $1
RETURNING updated_at
`
	err := txn.From(ctx, r.pool).QueryRow(ctx, q, u.ID, u.Name, u.WalletMoney.String(), u.Address).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		r.logger.Printf("user repo: save id=%s error=%v", u.ID, err)
		return err
	}
	r.logger.Printf("user repo: saved id=%s wallet=%s", u.ID, u.WalletMoney)
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var wallet string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &wallet, &u.Address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	d, err := decimal.NewFromString(wallet)
	if err != nil {
		return nil, fmt.Errorf("user %s wallet %q: %w", u.ID, wallet, err)
	}
	u.WalletMoney = d
	return &u, nil
}
