// Package guard implements the access-control chain that runs in front of
// handlers. Each guard inspects the request and either allows it or denies
// it with a message and the path the client should go to instead. Guards
// run in order and the first denial stops the chain.
package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justeat/apperr"
	"justeat/models"
	"justeat/services"
)

const (
	LoginPath             = "/auth/login"
	CustomerDashboardPath = "/home"
	OwnerDashboardPath    = "/restaurants/dashboard"
	OrdersPath            = "/orders"
)

type Decision struct {
	Allowed  bool
	Status   int
	Message  string
	Redirect string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(status int, message, redirect string) Decision {
	return Decision{Status: status, Message: message, Redirect: redirect}
}

// Guard decides whether the request may proceed. Guards may store resolved
// entities on the context for later guards and the handler.
type Guard func(c *gin.Context) Decision

// Chain runs guards left to right and aborts on the first denial.
func Chain(guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, g := range guards {
			if d := g(c); !d.Allowed {
				c.AbortWithStatusJSON(d.Status, gin.H{
					"error":    d.Message,
					"redirect": d.Redirect,
				})
				return
			}
		}
		c.Next()
	}
}

// DashboardFor is where a caller with the given role belongs.
func DashboardFor(role models.Role) string {
	switch role {
	case models.RoleOwner:
		return OwnerDashboardPath
	case models.RoleCustomer:
		return CustomerDashboardPath
	default:
		return LoginPath
	}
}

// DashboardOf is DashboardFor the caller of c.
func DashboardOf(c *gin.Context) string {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return LoginPath
	}
	return DashboardFor(identity.Role)
}

// fromError denies with the status and user message of a service error.
func fromError(err error, redirect string) Decision {
	return Deny(apperr.HTTPStatus(err), apperr.Message(err), redirect)
}

const (
	identityKey   = "identity"
	restaurantKey = "restaurant"
	menuItemKey   = "menuItem"
	orderKey      = "order"
	cartKey       = "cart"
)

func SetIdentity(c *gin.Context, identity services.Identity) {
	c.Set(identityKey, identity)
}

func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}, false
	}
	identity, ok := v.(services.Identity)
	return identity, ok
}

// Restaurant returns the restaurant resolved by RestaurantExists.
func Restaurant(c *gin.Context) *models.Restaurant {
	v, _ := c.Get(restaurantKey)
	r, _ := v.(*models.Restaurant)
	return r
}

func MenuItem(c *gin.Context) *models.MenuItem {
	v, _ := c.Get(menuItemKey)
	item, _ := v.(*models.MenuItem)
	return item
}

func Order(c *gin.Context) *models.Order {
	v, _ := c.Get(orderKey)
	order, _ := v.(*models.Order)
	return order
}

func Cart(c *gin.Context) *models.Cart {
	v, _ := c.Get(cartKey)
	cart, _ := v.(*models.Cart)
	return cart
}

// unresolved denies a guard whose prerequisite guard did not run.
func unresolved(c *gin.Context) Decision {
	return Deny(http.StatusInternalServerError, "Something went wrong, please try again", DashboardOf(c))
}
