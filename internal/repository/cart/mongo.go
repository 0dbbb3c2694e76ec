package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"qkart/internal/domain"
	"qkart/internal/repository/mongodoc"
)

const collection = "carts"

type cartDoc struct {
	ID            string    `bson:"_id"`
	Email         string    `bson:"email"`
	Items         []itemDoc `bson:"cartItems"`
	PaymentOption string    `bson:"paymentOption"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

type itemDoc struct {
	Product  mongodoc.Product `bson:"product"`
	Quantity int              `bson:"quantity"`
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongo returns a Repository backed by the carts collection of db.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{coll: db.Collection(collection), logger: logger}
}

func (r *mongoRepo) FindByOwner(ctx context.Context, email string) (*domain.Cart, error) {
	var doc cartDoc
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		err = mongodoc.Err(err)
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("cart repo: find email=%s error=%v", email, err)
		}
		return nil, err
	}
	return doc.domain()
}

func (r *mongoRepo) Create(ctx context.Context, email string, items []domain.CartItem) (*domain.Cart, error) {
	now := time.Now().UTC()
	c := &domain.Cart{
		ID:            uuid.NewString(),
		Email:         strings.ToLower(email),
		Items:         items,
		PaymentOption: domain.DefaultPaymentOption,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	doc, err := toDoc(c)
	if err != nil {
		return nil, err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Printf("cart repo: create email=%s error=%v", email, err)
		return nil, mongodoc.Err(err)
	}
	r.logger.Printf("cart repo: created id=%s email=%s items=%d", c.ID, c.Email, len(c.Items))
	return c, nil
}

func (r *mongoRepo) Save(ctx context.Context, cart *domain.Cart) error {
	doc, err := toDoc(cart)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"cartItems":     doc.Items,
		"paymentOption": doc.PaymentOption,
		"updatedAt":     now,
	}})
	if err != nil {
		r.logger.Printf("cart repo: save id=%s error=%v", cart.ID, err)
		return mongodoc.Err(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	cart.UpdatedAt = now
	r.logger.Printf("cart repo: saved id=%s items=%d", cart.ID, len(cart.Items))
	return nil
}

func toDoc(c *domain.Cart) (cartDoc, error) {
	doc := cartDoc{
		ID:            c.ID,
		Email:         c.Email,
		Items:         make([]itemDoc, 0, len(c.Items)),
		PaymentOption: c.PaymentOption,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	for _, item := range c.Items {
		p, err := mongodoc.FromProduct(item.Product)
		if err != nil {
			return cartDoc{}, err
		}
		doc.Items = append(doc.Items, itemDoc{Product: p, Quantity: item.Quantity})
	}
	return doc, nil
}

func (d cartDoc) domain() (*domain.Cart, error) {
	c := &domain.Cart{
		ID:            d.ID,
		Email:         d.Email,
		Items:         make([]domain.CartItem, 0, len(d.Items)),
		PaymentOption: d.PaymentOption,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, item := range d.Items {
		p, err := item.Product.Domain()
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, domain.CartItem{Product: p, Quantity: item.Quantity})
	}
	return c, nil
}
