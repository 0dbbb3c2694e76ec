package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"qkart/internal/events"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.carts.GetCartByUser(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}
	cart, err := h.carts.AddProductToCart(c.Request.Context(), currentUser(c), req.ProductID, *req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

// updateCart sets an item's quantity. Quantity 0 removes the item and
// answers 204.
func (h *handlers) updateCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}
	user := currentUser(c)
	if *req.Quantity == 0 {
		if err := h.carts.DeleteProductFromCart(c.Request.Context(), user, req.ProductID); err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}
	cart, err := h.carts.UpdateProductInCart(c.Request.Context(), user, req.ProductID, *req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) checkout(c *gin.Context) {
	user := currentUser(c)
	before := user.WalletMoney

	err := h.carts.Checkout(c.Request.Context(), user)
	h.metrics.observeCheckout(err)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.publishCheckout(c, events.CheckedOut{
		UserID:        user.ID,
		Email:         user.Email,
		Amount:        before.Sub(user.WalletMoney),
		WalletBalance: user.WalletMoney,
	})
	c.Status(http.StatusNoContent)
}

// publishCheckout emits cart.checked_out. Failures are logged; the checkout
// has already been committed.
func (h *handlers) publishCheckout(c *gin.Context, payload events.CheckedOut) {
	if h.events == nil {
		return
	}
	e, err := events.New(events.TypeCartCheckedOut, payload.Email, payload)
	if err != nil {
		h.logger.Printf("checkout event encode user_id=%s error=%v", payload.UserID, err)
		return
	}
	if err := h.events.Publish(context.WithoutCancel(c.Request.Context()), e); err != nil {
		h.logger.Printf("checkout event publish user_id=%s event_id=%s error=%v", payload.UserID, e.ID, err)
	}
}
