package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"qkart/internal/domain"
)

const msgForbidden = "User not authorized to access this resource"

type addressRequest struct {
	Address string `json:"address" binding:"required"`
}

// getUser returns the caller's profile. With ?q=address only the address is
// returned.
func (h *handlers) getUser(c *gin.Context) {
	me := currentUser(c)
	if c.Param("userId") != me.ID {
		writeError(c, h.logger, domain.Forbidden(msgForbidden))
		return
	}
	u, err := h.users.GetUser(c.Request.Context(), me.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if c.Query("q") == "address" {
		c.JSON(http.StatusOK, gin.H{"address": u.Address})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) setAddress(c *gin.Context) {
	me := currentUser(c)
	if c.Param("userId") != me.ID {
		writeError(c, h.logger, domain.Forbidden(msgForbidden))
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}
	address, err := h.users.SetAddress(c.Request.Context(), me, req.Address)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}
