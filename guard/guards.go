package guard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"justeat/apperr"
	"justeat/models"
	"justeat/services"
)

type RestaurantFinder interface {
	BySlug(ctx context.Context, slug string) (*models.Restaurant, error)
}

type MenuItemFinder interface {
	ByID(ctx context.Context, id uint) (*models.MenuItem, error)
}

type OrderFinder interface {
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
}

type CartFinder interface {
	Cart(ctx context.Context, userID uint) (*models.Cart, error)
}

func Authenticated() Guard {
	return func(c *gin.Context) Decision {
		if _, ok := CurrentIdentity(c); !ok {
			return Deny(http.StatusUnauthorized, "Please log in to access this page", LoginPath)
		}
		return Allow()
	}
}

func RequireRole(role models.Role) Guard {
	return func(c *gin.Context) Decision {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return Deny(http.StatusUnauthorized, "Please log in to access this page", LoginPath)
		}
		if identity.Role != role {
			return Deny(http.StatusForbidden, fmt.Sprintf("This section is for %ss only", role), DashboardFor(identity.Role))
		}
		return Allow()
	}
}

// RestaurantExists resolves the restaurant named by the slug path parameter.
func RestaurantExists(restaurants RestaurantFinder) Guard {
	return func(c *gin.Context) Decision {
		restaurant, err := restaurants.BySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if apperr.Kind(err) == apperr.ErrNotFound {
				return Deny(http.StatusNotFound, "Restaurant not found. Please check the URL.", DashboardOf(c))
			}
			return fromError(err, DashboardOf(c))
		}
		c.Set(restaurantKey, restaurant)
		return Allow()
	}
}

func OwnsRestaurant() Guard {
	return func(c *gin.Context) Decision {
		identity, _ := CurrentIdentity(c)
		restaurant := Restaurant(c)
		if restaurant == nil {
			return unresolved(c)
		}
		if restaurant.OwnerID != identity.UserID {
			return Deny(http.StatusNotFound, "Restaurant not found. Please check the URL.", OwnerDashboardPath)
		}
		return Allow()
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ItemExists resolves the menu item named by the item_id path parameter.
func ItemExists(items MenuItemFinder) Guard {
	return func(c *gin.Context) Decision {
		const message = "Menu item not found. It may have been removed."
		id, ok := idParam(c, "item_id")
		if !ok {
			return Deny(http.StatusNotFound, message, DashboardOf(c))
		}
		item, err := items.ByID(c.Request.Context(), id)
		if err != nil {
			if apperr.Kind(err) == apperr.ErrNotFound {
				return Deny(http.StatusNotFound, message, DashboardOf(c))
			}
			return fromError(err, DashboardOf(c))
		}
		c.Set(menuItemKey, item)
		return Allow()
	}
}

// ItemOnMenu requires the resolved item to belong to the resolved restaurant.
func ItemOnMenu() Guard {
	return func(c *gin.Context) Decision {
		restaurant, item := Restaurant(c), MenuItem(c)
		if restaurant == nil || item == nil {
			return unresolved(c)
		}
		if item.RestaurantID != restaurant.ID {
			return Deny(http.StatusNotFound, "Item not found", DashboardOf(c))
		}
		return Allow()
	}
}

// OrderExists resolves the order named by the order_id path parameter.
func OrderExists(orders OrderFinder) Guard {
	return func(c *gin.Context) Decision {
		const message = "Order not found. Please check the order ID."
		id, ok := idParam(c, "order_id")
		if !ok {
			return Deny(http.StatusNotFound, message, DashboardOf(c))
		}
		order, err := orders.GetOrder(c.Request.Context(), id)
		if err != nil {
			if apperr.Kind(err) == apperr.ErrNotFound {
				return Deny(http.StatusNotFound, message, DashboardOf(c))
			}
			return fromError(err, DashboardOf(c))
		}
		c.Set(orderKey, order)
		return Allow()
	}
}

func OrderFromCustomer() Guard {
	return func(c *gin.Context) Decision {
		identity, _ := CurrentIdentity(c)
		order := Order(c)
		if order == nil {
			return unresolved(c)
		}
		if order.CustomerID != identity.UserID {
			return Deny(http.StatusForbidden, "You don't have permission to access this order.", CustomerDashboardPath)
		}
		return Allow()
	}
}

func OrderForRestaurant() Guard {
	return func(c *gin.Context) Decision {
		restaurant, order := Restaurant(c), Order(c)
		if restaurant == nil || order == nil {
			return unresolved(c)
		}
		if order.RestaurantID != restaurant.ID {
			return Deny(http.StatusForbidden, "This order doesn't belong to your restaurant.", OwnerDashboardPath)
		}
		return Allow()
	}
}

// NotReviewed requires the resolved order to have no review yet. The order
// must be loaded with its restaurant rating.
func NotReviewed() Guard {
	return func(c *gin.Context) Decision {
		order := Order(c)
		if order == nil {
			return unresolved(c)
		}
		if order.RestaurantRating != nil {
			return Deny(http.StatusConflict, "You have already reviewed this order", OrdersPath)
		}
		return Allow()
	}
}

// CartReady resolves the caller's cart and requires it to be orderable.
func CartReady(carts CartFinder) Guard {
	return func(c *gin.Context) Decision {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return Deny(http.StatusUnauthorized, "Please log in to access this page", LoginPath)
		}
		cart, err := carts.Cart(c.Request.Context(), identity.UserID)
		if err != nil && apperr.Kind(err) != apperr.ErrNotFound {
			return fromError(err, CustomerDashboardPath)
		}
		if err := services.ValidateCart(cart); err != nil {
			return fromError(err, CustomerDashboardPath)
		}
		c.Set(cartKey, cart)
		return Allow()
	}
}
