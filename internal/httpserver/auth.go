package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"qkart/internal/domain"
	usersvc "qkart/internal/service/user"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User   *domain.User       `json:"user"`
	Tokens usersvc.AuthTokens `json:"tokens"`
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}
	u, tokens, err := h.users.Register(c.Request.Context(), domain.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{User: u, Tokens: tokens})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}
	u, tokens, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{User: u, Tokens: tokens})
}
