package product

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"qkart/internal/domain"
	"qkart/internal/repository/mongodoc"
)

const collection = "products"

type mongoRepo struct {
	coll   *mongo.Collection
	logger *log.Logger
}

func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{coll: db.Collection(collection), logger: logger}
}

func (r *mongoRepo) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer cur.Close(ctx)

	result := []domain.Product{}
	for cur.Next(ctx) {
		var doc mongodoc.Product
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		p, err := doc.Domain()
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := cur.Err(); err != nil {
		r.logger.Printf("product repo: list cursor error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc mongodoc.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		err = mongodoc.Err(err)
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%s not found", id)
		} else {
			r.logger.Printf("product repo: get id=%s error=%v", id, err)
		}
		return nil, err
	}
	p, err := doc.Domain()
	if err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: get id=%s name=%q", id, p.Name)
	return &p, nil
}

func (r *mongoRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	doc, err := mongodoc.FromProduct(p)
	if err != nil {
		return nil, err
	}
	update := bson.M{
		"$set": bson.M{
			"name":     doc.Name,
			"category": doc.Category,
			"cost":     doc.Cost,
			"rating":   doc.Rating,
			"image":    doc.Image,
		},
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved mongodoc.Product
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update, opts).Decode(&saved); err != nil {
		r.logger.Printf("product repo: upsert id=%s name=%q error=%v", p.ID, p.Name, err)
		return nil, mongodoc.Err(err)
	}
	res, err := saved.Domain()
	if err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q", res.ID, res.Name)
	return &res, nil
}
