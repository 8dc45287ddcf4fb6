// Package handlers holds the gin handlers of the JSON API. Handlers assume
// the guard chain has already resolved the caller and any path entities.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"justeat/apperr"
	"justeat/guard"
	"justeat/middleware"
	"justeat/services"
)

type Handler struct {
	Auth        *services.AuthService
	Carts       *services.CartService
	Orders      *services.OrderService
	Restaurants *services.RestaurantService
	MenuItems   *services.MenuItemService
	Favorites   *services.FavoriteService
	Search      *services.SearchService

	UploadsDir string
	Log        logrus.FieldLogger
}

// respondError writes the error body shared by handlers and guards. Server
// side failures are logged with their cause; the client only sees the
// message of the error kind.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		middleware.RequestLogger(c, h.Log).WithError(err).Error("Request failed")
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{
		"error":    apperr.Message(err),
		"redirect": guard.DashboardOf(c),
	})
}

func (h *Handler) bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":    "Invalid request: " + err.Error(),
		"redirect": guard.DashboardOf(c),
	})
}

// identity returns the caller. Routes using it are behind Authenticated.
func identity(c *gin.Context) services.Identity {
	id, _ := guard.CurrentIdentity(c)
	return id
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func queryIDs(c *gin.Context, name string) []uint {
	var ids []uint
	for _, raw := range c.QueryArray(name) {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
