package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"qkart/internal/config"
	"qkart/internal/importer"
	"qkart/internal/store"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (id,name,category,cost,rating,image)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	st, err := store.Open(ctx, cfg, nil)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer st.Close(context.Background())

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, st.Products)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", count, err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
