package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justeat/guard"
	"justeat/services"
)

// PlaceOrder checks out the cart validated by the CartReady guard.
func (h *Handler) PlaceOrder(c *gin.Context) {
	order, err := h.Orders.PlaceOrder(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully!",
		"order":    order,
		"redirect": guard.OrdersPath,
	})
}

// ListOrders returns the caller's orders, optionally filtered by ?status=.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), identity(c).UserID, c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type reviewRequest struct {
	Restaurant services.RestaurantReview `json:"restaurant" binding:"required"`
	Items      []services.ItemRating     `json:"items" binding:"dive"`
}

func (h *Handler) ReviewOrder(c *gin.Context) {
	var in reviewRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	err := h.Orders.AddRatings(c.Request.Context(), identity(c).UserID, guard.Order(c), in.Items, in.Restaurant)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thank you for your review!", "redirect": guard.OrdersPath})
}

// Reviews lists the reviews of the path restaurant.
func (h *Handler) Reviews(c *gin.Context) {
	restaurant := guard.Restaurant(c)
	reviews, err := h.Orders.Reviews(c.Request.Context(), restaurant.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant, "reviews": reviews})
}

// RestaurantOrders lists the orders of an owner's restaurant.
func (h *Handler) RestaurantOrders(c *gin.Context) {
	orders, err := h.Orders.RestaurantOrders(c.Request.Context(), guard.Restaurant(c).ID, c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	order, err := h.Orders.UpdateStatus(c.Request.Context(), guard.Order(c), c.Param("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}
