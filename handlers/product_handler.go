package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"justeat/guard"
	"justeat/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Home lists active restaurants newest first, paged with ?offset= and
// ?limit=.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	limit := queryInt(c, "limit", defaultPageSize)
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	restaurants, err := h.Restaurants.Active(ctx, queryInt(c, "offset", 0), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	cuisines, err := h.Restaurants.Cuisines(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants, "cuisines": cuisines})
}

func parsePrice(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return nil, false
	}
	return &price, true
}

// SearchCatalog matches restaurants and menu items against ?q=, ?cuisine=,
// ?restaurant=, ?price_min= and ?price_max=.
func (h *Handler) SearchCatalog(c *gin.Context) {
	priceMin, ok := parsePrice(c, "price_min")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minimum price", "redirect": guard.CustomerDashboardPath})
		return
	}
	priceMax, ok := parsePrice(c, "price_max")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maximum price", "redirect": guard.CustomerDashboardPath})
		return
	}

	filter := services.SearchFilter{
		Query:         strings.TrimSpace(c.Query("q")),
		CuisineIDs:    queryIDs(c, "cuisine"),
		RestaurantIDs: queryIDs(c, "restaurant"),
		PriceMin:      priceMin,
		PriceMax:      priceMax,
	}
	result, err := h.Search.Search(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": filter.Query, "results": result})
}

func (h *Handler) Cuisines(c *gin.Context) {
	ctx := c.Request.Context()
	cuisines, err := h.Restaurants.Cuisines(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	categories, err := h.Restaurants.Categories(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cuisines": cuisines, "categories": categories})
}

// Menu shows a restaurant's active items to a customer together with the
// popular items and the customer's cart.
func (h *Handler) Menu(c *gin.Context) {
	ctx := c.Request.Context()
	restaurant := guard.Restaurant(c)

	items, err := h.MenuItems.Menu(ctx, restaurant.ID, false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	popular, err := h.MenuItems.PopularItemIDs(ctx, restaurant.ID, services.PopularThreshold)
	if err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := h.Carts.Summary(ctx, identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant":       restaurant,
		"menu_items":       items,
		"popular_item_ids": popular,
		"cart":             summary,
	})
}

func (h *Handler) ListFavorites(c *gin.Context) {
	favorites, err := h.Favorites.List(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found", "redirect": guard.CustomerDashboardPath})
		return
	}

	favorited, err := h.Favorites.Toggle(c.Request.Context(), identity(c).UserID, uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}
	message := "Restaurant removed from favorites!"
	if favorited {
		message = "Restaurant added to favorites!"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "favorited": favorited})
}

func (h *Handler) ToggleItemFavorite(c *gin.Context) {
	favorited, err := h.Favorites.ToggleMenuItem(c.Request.Context(), identity(c).UserID, guard.MenuItem(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	message := "Item removed from favorites!"
	if favorited {
		message = "Item added to favorites!"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "favorited": favorited})
}
