package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"qkart/internal/domain"
	"qkart/internal/repository/txn"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const columns = `id::text, name, category, cost::text, rating, image, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + columns + ` FROM products ORDER BY created_at, name`
	rows, err := txn.From(ctx, r.pool).Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		// Postgres would reject the cast; an id that cannot exist is simply missing.
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + columns + ` FROM products WHERE id = $1`
	p, err := scanProduct(txn.From(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, err
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("product repo: get id=%s name=%q", id, p.Name)
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (id, name, category, cost, rating, image)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4::numeric, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    category = EXCLUDED.category,
    cost = EXCLUDED.cost,
    rating = EXCLUDED.rating,
    image = EXCLUDED.image
RETURNING ` + columns
	res, err := scanProduct(txn.From(ctx, r.pool).QueryRow(ctx, q, p.ID, p.Name, p.Category, p.Cost.String(), p.Rating, p.Image))
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s name=%q error=%v", p.ID, p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q", res.ID, res.Name)
	return res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var cost string
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &cost, &p.Rating, &p.Image, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(cost)
	if err != nil {
		return nil, fmt.Errorf("product %s cost %q: %w", p.ID, cost, err)
	}
	p.Cost = d
	return &p, nil
}
