// Package store opens the configured storage backend and hands out its
// repositories.
package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"qkart/internal/config"
	"qkart/internal/db"
	cartrepo "qkart/internal/repository/cart"
	productrepo "qkart/internal/repository/product"
	"qkart/internal/repository/txn"
	userrepo "qkart/internal/repository/user"
)

// Store bundles the repositories of one backend.
type Store struct {
	Backend  string
	Carts    cartrepo.Repository
	Products productrepo.Repository
	Users    userrepo.Repository
	Tx       txn.Runner

	// Pool is set for the Postgres backend, Mongo for the Mongo backend.
	Pool  *pgxpool.Pool
	Mongo *mongo.Database

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgres(pool, logger), nil
	case config.BackendMongo:
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		s := NewMongo(database, logger)
		s.close = client.Disconnect
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Store {
	return &Store{
		Backend:  config.BackendPostgres,
		Carts:    cartrepo.NewPostgres(pool, logger),
		Products: productrepo.NewPostgres(pool, logger),
		Users:    userrepo.NewPostgres(pool, logger),
		Tx:       txn.NewPostgres(pool),
		Pool:     pool,
		ping:     pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}
}

func NewMongo(database *mongo.Database, logger *log.Logger) *Store {
	return &Store{
		Backend:  config.BackendMongo,
		Carts:    cartrepo.NewMongo(database, logger),
		Products: productrepo.NewMongo(database, logger),
		Users:    userrepo.NewMongo(database, logger),
		Tx:       txn.Passthrough{},
		Mongo:    database,
		ping: func(ctx context.Context) error {
			return database.Client().Ping(ctx, readpref.Primary())
		},
		close: func(context.Context) error { return nil },
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
