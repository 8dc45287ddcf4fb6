package guard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/models"
	"justeat/services"
)

type restaurants map[string]*models.Restaurant

func (r restaurants) BySlug(_ context.Context, slug string) (*models.Restaurant, error) {
	if restaurant, ok := r[slug]; ok {
		return restaurant, nil
	}
	return nil, apperr.New(apperr.ErrNotFound, "Restaurant not found")
}

type menuItems map[uint]*models.MenuItem

func (m menuItems) ByID(_ context.Context, id uint) (*models.MenuItem, error) {
	if item, ok := m[id]; ok {
		return item, nil
	}
	return nil, apperr.New(apperr.ErrNotFound, "Item not found")
}

type orders map[uint]*models.Order

func (o orders) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	if order, ok := o[id]; ok {
		return order, nil
	}
	return nil, apperr.New(apperr.ErrNotFound, "Order not found")
}

type carts map[uint]*models.Cart

func (cs carts) Cart(_ context.Context, userID uint) (*models.Cart, error) {
	if cart, ok := cs[userID]; ok {
		return cart, nil
	}
	return nil, apperr.New(apperr.ErrNotFound, "Your cart is empty")
}

type denial struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

// serve routes path through an identity-setting middleware and the guard
// chain to a handler answering 200.
func serve(t *testing.T, route, path string, identity *services.Identity, guards ...Guard) (*httptest.ResponseRecorder, denial) {
	t.Helper()
	r := gin.New()
	r.GET(route, func(c *gin.Context) {
		if identity != nil {
			SetIdentity(c, *identity)
		}
	}, Chain(guards...), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var d denial
	if w.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	}
	return w, d
}

var (
	customer = &services.Identity{UserID: 1, Role: models.RoleCustomer}
	owner    = &services.Identity{UserID: 2, Role: models.RoleOwner}
	stranger = &services.Identity{UserID: 3, Role: models.RoleOwner}
)

func TestAuthenticated(t *testing.T) {
	w, d := serve(t, "/", "/", nil, Authenticated())
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, LoginPath, d.Redirect)

	w, _ = serve(t, "/", "/", customer, Authenticated())
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRedirectsToOwnDashboard(t *testing.T) {
	w, d := serve(t, "/", "/", customer, RequireRole(models.RoleOwner))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "This section is for owners only", d.Error)
	require.Equal(t, CustomerDashboardPath, d.Redirect)

	w, d = serve(t, "/", "/", owner, RequireRole(models.RoleCustomer))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, OwnerDashboardPath, d.Redirect)

	w, d = serve(t, "/", "/", nil, RequireRole(models.RoleCustomer))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, LoginPath, d.Redirect)
}

func TestChainStopsAtFirstDenial(t *testing.T) {
	var ran bool
	second := func(c *gin.Context) Decision {
		ran = true
		return Allow()
	}
	w, _ := serve(t, "/", "/", nil, Authenticated(), second)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, ran)

	w, _ = serve(t, "/", "/", customer, Authenticated(), second)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, ran)
}

func TestRestaurantGuards(t *testing.T) {
	known := restaurants{"pasta-palace-1": {Model: gorm.Model{ID: 1}, OwnerID: owner.UserID, Slug: "pasta-palace-1"}}
	items := menuItems{
		10: {Model: gorm.Model{ID: 10}, RestaurantID: 1},
		11: {Model: gorm.Model{ID: 11}, RestaurantID: 2},
	}
	route := "/restaurants/:slug/menu/:item_id"
	chain := []Guard{RestaurantExists(known), OwnsRestaurant(), ItemExists(items), ItemOnMenu()}

	w, _ := serve(t, route, "/restaurants/pasta-palace-1/menu/10", owner, chain...)
	require.Equal(t, http.StatusOK, w.Code)

	w, d := serve(t, route, "/restaurants/nope/menu/10", owner, chain...)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Restaurant not found. Please check the URL.", d.Error)
	require.Equal(t, OwnerDashboardPath, d.Redirect)

	w, d = serve(t, route, "/restaurants/pasta-palace-1/menu/10", stranger, chain...)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, OwnerDashboardPath, d.Redirect)

	w, d = serve(t, route, "/restaurants/pasta-palace-1/menu/abc", owner, chain...)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Menu item not found. It may have been removed.", d.Error)

	w, d = serve(t, route, "/restaurants/pasta-palace-1/menu/11", owner, chain...)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Item not found", d.Error)
}

func TestOrderGuards(t *testing.T) {
	known := orders{
		5: {Model: gorm.Model{ID: 5}, CustomerID: customer.UserID, RestaurantID: 1},
		6: {Model: gorm.Model{ID: 6}, CustomerID: customer.UserID, RestaurantID: 1, RestaurantRating: &models.RestaurantRating{Rating: 4}},
	}
	route := "/orders/:order_id/review"
	chain := []Guard{OrderExists(known), OrderFromCustomer(), NotReviewed()}

	w, _ := serve(t, route, "/orders/5/review", customer, chain...)
	require.Equal(t, http.StatusOK, w.Code)

	w, d := serve(t, route, "/orders/6/review", customer, chain...)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, OrdersPath, d.Redirect)

	w, _ = serve(t, route, "/orders/5/review", &services.Identity{UserID: 9, Role: models.RoleCustomer}, chain...)
	require.Equal(t, http.StatusForbidden, w.Code)

	w, d = serve(t, route, "/orders/77/review", customer, chain...)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Order not found. Please check the order ID.", d.Error)
}

func TestOrderForRestaurant(t *testing.T) {
	known := restaurants{"r-1": {Model: gorm.Model{ID: 1}, OwnerID: owner.UserID}}
	foreign := orders{8: {Model: gorm.Model{ID: 8}, RestaurantID: 2}}
	w, d := serve(t, "/r/:slug/orders/:order_id", "/r/r-1/orders/8", owner,
		RestaurantExists(known), OrderExists(foreign), OrderForRestaurant())
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "This order doesn't belong to your restaurant.", d.Error)
}

func TestCartReady(t *testing.T) {
	ready := carts{
		customer.UserID: {Items: []models.CartItem{{Quantity: 1, MenuItem: models.MenuItem{Name: "Pizza", IsActive: true}}}},
		4:               {Items: []models.CartItem{{Quantity: 1, MenuItem: models.MenuItem{Name: "Soup"}}}},
	}

	w, _ := serve(t, "/", "/", customer, CartReady(ready))
	require.Equal(t, http.StatusOK, w.Code)

	w, d := serve(t, "/", "/", &services.Identity{UserID: 4, Role: models.RoleCustomer}, CartReady(ready))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "These items are no longer available: Soup", d.Error)
	require.Equal(t, CustomerDashboardPath, d.Redirect)

	w, d = serve(t, "/", "/", &services.Identity{UserID: 5, Role: models.RoleCustomer}, CartReady(ready))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Your cart is empty. Please add items before ordering.", d.Error)
}
