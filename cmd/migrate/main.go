package main

import (
	"context"
	"flag"
	"log"
	"os"

	"qkart/internal/config"
	"qkart/internal/db"
	"qkart/internal/migrate"
)

func main() {
	var down int
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	if cfg.StoreBackend == config.BackendMongo {
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			logger.Fatalf("connect mongo: %v", err)
		}
		defer client.Disconnect(context.Background())

		if err := migrate.ApplyMongo(ctx, database); err != nil {
			logger.Fatalf("apply mongo indexes: %v", err)
		}
		logger.Printf("mongo indexes applied on %s", cfg.MongoDatabase)
		return
	}

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if down > 0 {
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Fatalf("roll back migrations: %v", err)
		}
		logger.Printf("rolled back %d migration(s)", down)
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Println("migrations applied")
}
