package main

import (
	"context"
	"log"
	"os"

	"qkart/internal/config"
	"qkart/internal/seed"
	"qkart/internal/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer st.Close(context.Background())

	if err := seed.Apply(ctx, st.Products, st.Users, cfg.DefaultWalletMoney); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied (demo user %s)", seed.DemoEmail)
}
