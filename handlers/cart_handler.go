package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justeat/apperr"
	"justeat/guard"
)

// AddToCart adds one unit of the path item and answers with the updated
// cart summary.
func (h *Handler) AddToCart(c *gin.Context) {
	ctx := c.Request.Context()
	userID := identity(c).UserID
	item, restaurant := guard.MenuItem(c), guard.Restaurant(c)

	if err := h.Carts.AddItem(ctx, userID, item.ID, restaurant.ID); err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := h.Carts.Summary(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": summary})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	ctx := c.Request.Context()
	userID := identity(c).UserID

	if err := h.Carts.RemoveItem(ctx, userID, guard.MenuItem(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := h.Carts.Summary(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": summary})
}

// GetCart returns the cart with its lines, or a null cart when there is none.
func (h *Handler) GetCart(c *gin.Context) {
	ctx := c.Request.Context()
	userID := identity(c).UserID

	summary, err := h.Carts.Summary(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	cart, err := h.Carts.Cart(ctx, userID)
	if err != nil && apperr.Kind(err) != apperr.ErrNotFound {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "summary": summary})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Carts.Clear(c.Request.Context(), identity(c).UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
