// Package mongodoc holds the BSON shapes shared by the Mongo repositories.
package mongodoc

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"qkart/internal/domain"
)

// Product is the stored form of a catalog entry and of a cart item snapshot.
type Product struct {
	ID        string               `bson:"_id"`
	Name      string               `bson:"name"`
	Category  string               `bson:"category"`
	Cost      primitive.Decimal128 `bson:"cost"`
	Rating    int                  `bson:"rating"`
	Image     string               `bson:"image"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func FromProduct(p domain.Product) (Product, error) {
	cost, err := Decimal(p.Cost)
	if err != nil {
		return Product{}, err
	}
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Cost:      cost,
		Rating:    p.Rating,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (d Product) Domain() (domain.Product, error) {
	cost, err := FromDecimal(d.Cost)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s cost: %w", d.ID, err)
	}
	return domain.Product{
		ID:        d.ID,
		Name:      d.Name,
		Category:  d.Category,
		Cost:      cost,
		Rating:    d.Rating,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
	}, nil
}

// Decimal converts an exact decimal into BSON Decimal128.
func Decimal(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return out, nil
}

func FromDecimal(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

// Err maps driver errors onto the domain sentinels.
func Err(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrAlreadyExists
	}
	return err
}
