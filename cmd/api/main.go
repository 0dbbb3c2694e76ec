package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"qkart/internal/config"
	"qkart/internal/events"
	"qkart/internal/httpserver"
	cartsvc "qkart/internal/service/cart"
	productsvc "qkart/internal/service/product"
	usersvc "qkart/internal/service/user"
	"qkart/internal/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Printf("close store: %v", err)
		}
	}()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Printf("close event publisher: %v", err)
		}
	}()

	userService := usersvc.New(st.Users, usersvc.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenTTL:     cfg.AccessTokenTTL,
		DefaultWalletMoney: cfg.DefaultWalletMoney,
	})
	productService := productsvc.New(st.Products)
	cartService := cartsvc.New(st.Carts, st.Products, st.Users, st.Tx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		UserSvc:     userService,
		ProductSvc:  productService,
		CartSvc:     cartService,
		Store:       st,
		Events:      publisher,
		Metrics:     httpserver.NewMetrics(),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("starting http server on %s (store=%s)", cfg.HTTPAddr, st.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Printf("server stopped with error: %v", err)
		return
	}
	logger.Printf("server stopped")
}
