package httpserver

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"qkart/internal/domain"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	currentUserKey  = "currentUser"
)

// requestID reuses the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// authRequired resolves the bearer token to a user or answers 401.
func authRequired(users userService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(c, logger, domain.Unauthorized("Please authenticate"))
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.Set(currentUserKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	u, _ := c.MustGet(currentUserKey).(*domain.User)
	return u
}
