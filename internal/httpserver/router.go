package httpserver

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"qkart/internal/domain"
	"qkart/internal/events"
)

var bindingTagNames sync.Once

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.UserSvc == nil || deps.ProductSvc == nil || deps.CartSvc == nil {
		return nil, errors.New("httpserver: user, product and cart services are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Events == nil {
		deps.Events = events.Noop{}
	}
	bindingTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(domain.JSONFieldName)
		}
	})

	h := &handlers{
		logger:   logger,
		users:    deps.UserSvc,
		products: deps.ProductSvc,
		carts:    deps.CartSvc,
		events:   deps.Events,
		metrics:  deps.Metrics,
	}

	router := gin.New()
	router.Use(
		requestID(),
		gin.LoggerWithWriter(logger.Writer()),
		gin.Recovery(),
		cors.New(corsConfig(deps.CORSOrigins)),
		deps.Metrics.middleware(),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	router.GET("/metrics", deps.Metrics.handler())

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)

	v1.GET("/products", h.listProducts)
	v1.GET("/products/:productId", h.getProduct)

	authed := v1.Group("", authRequired(deps.UserSvc, logger))
	authed.GET("/users/:userId", h.getUser)
	authed.PUT("/users/:userId", h.setAddress)
	authed.GET("/cart", h.getCart)
	authed.POST("/cart", h.addToCart)
	authed.PUT("/cart", h.updateCart)
	authed.POST("/cart/checkout", h.checkout)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
