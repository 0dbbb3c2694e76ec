package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"qkart/internal/domain"
	"qkart/internal/repository/mongodoc"
)

const collection = "users"

type userDoc struct {
	ID           string               `bson:"_id"`
	Name         string               `bson:"name"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password"`
	WalletMoney  primitive.Decimal128 `bson:"walletMoney"`
	Address      string               `bson:"address"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (d userDoc) domain() (*domain.User, error) {
	wallet, err := mongodoc.FromDecimal(d.WalletMoney)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		WalletMoney:  wallet,
		Address:      d.Address,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongo returns a Repository backed by the users collection of db.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{coll: db.Collection(collection), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	wallet, err := mongodoc.Decimal(u.WalletMoney)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := userDoc{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		WalletMoney:  wallet,
		Address:      u.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		err = mongodoc.Err(err)
		if !errors.Is(err, domain.ErrAlreadyExists) {
			r.logger.Printf("user repo: create email=%s error=%v", doc.Email, err)
		}
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s email=%s", doc.ID, doc.Email)
	return doc.domain()
}

func (r *mongoRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepo) Save(ctx context.Context, u *domain.User) error {
	wallet, err := mongodoc.Decimal(u.WalletMoney)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"name":        u.Name,
		"walletMoney": wallet,
		"address":     u.Address,
		"updatedAt":   now,
	}})
	if err != nil {
		r.logger.Printf("user repo: save id=%s error=%v", u.ID, err)
		return mongodoc.Err(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	u.UpdatedAt = now
	r.logger.Printf("user repo: saved id=%s wallet=%s", u.ID, u.WalletMoney)
	return nil
}

func (r *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongodoc.Err(err)
	}
	return doc.domain()
}
