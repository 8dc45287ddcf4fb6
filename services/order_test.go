package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/models"
	"justeat/testutils"
)

type orderFixture struct {
	db         *gorm.DB
	carts      *CartService
	orders     *OrderService
	customer   *models.User
	restaurant *models.Restaurant
	pizza      *models.MenuItem
	soda       *models.MenuItem
}

func newOrderFixture(t *testing.T) *orderFixture {
	db := testutils.NewDB(t)
	owner := testutils.CreateUser(t, db, "owner", models.RoleOwner)
	restaurant := testutils.CreateRestaurant(t, db, owner, "Pasta Palace")
	return &orderFixture{
		db:         db,
		carts:      NewCartService(db, testutils.Logger()),
		orders:     NewOrderService(db, testutils.Logger(), nil, nil),
		customer:   testutils.CreateUser(t, db, "customer", models.RoleCustomer),
		restaurant: restaurant,
		pizza:      testutils.CreateMenuItem(t, db, restaurant, "Pizza", "10.00"),
		soda:       testutils.CreateMenuItem(t, db, restaurant, "Soda", "5.50"),
	}
}

// placeOrder fills the cart with two pizzas and one soda and checks out.
func (f *orderFixture) placeOrder(t *testing.T) *models.Order {
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, f.customer.ID, f.pizza.ID, f.restaurant.ID))
	require.NoError(t, f.carts.AddItem(ctx, f.customer.ID, f.pizza.ID, f.restaurant.ID))
	require.NoError(t, f.carts.AddItem(ctx, f.customer.ID, f.soda.ID, f.restaurant.ID))

	order, err := f.orders.PlaceOrder(ctx, f.customer.ID)
	require.NoError(t, err)
	return order
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, f.restaurant.ID, order.RestaurantID)
	require.True(t, decimal.RequireFromString("25.50").Equal(order.Total), order.Total.String())
	require.Len(t, order.Items, 2)

	_, err := f.carts.Cart(ctx, f.customer.ID)
	require.True(t, errors.Is(err, apperr.ErrNotFound), "%v", err)

	// later price changes do not touch the snapshot
	require.NoError(t, f.db.Model(f.pizza).Update("price", decimal.RequireFromString("99.00")).Error)
	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("25.50").Equal(stored.Total))

	sum := decimal.Zero
	for _, item := range stored.Items {
		sum = sum.Add(item.LineTotal())
		if item.MenuItemID == f.pizza.ID {
			require.Equal(t, "Pizza", item.Name)
			require.Equal(t, 2, item.Quantity)
			require.True(t, decimal.RequireFromString("10.00").Equal(item.PriceAtOrder))
		}
	}
	require.True(t, sum.Equal(stored.Total))
}

func TestPlaceOrderRejectsEmptyAndInactiveCarts(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.orders.PlaceOrder(ctx, f.customer.ID)
	require.True(t, errors.Is(err, apperr.ErrValidation), "%v", err)

	require.NoError(t, f.carts.AddItem(ctx, f.customer.ID, f.pizza.ID, f.restaurant.ID))
	require.NoError(t, f.db.Model(f.pizza).Update("is_active", false).Error)

	_, err = f.orders.PlaceOrder(ctx, f.customer.ID)
	require.True(t, errors.Is(err, apperr.ErrItemUnavailable), "%v", err)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
	cart, err := f.carts.Cart(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	_, err := f.orders.UpdateStatus(ctx, order, "shipped")
	require.True(t, errors.Is(err, apperr.ErrInvalidStatusValue), "%v", err)

	_, err = f.orders.UpdateStatus(ctx, order, "pending")
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition), "%v", err)

	updated, err := f.orders.UpdateStatus(ctx, order, "delivered")
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusDelivered, updated.Status)

	_, err = f.orders.UpdateStatus(ctx, order, "delivered")
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition), "%v", err)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusDelivered, stored.Status)
}

func TestUpdateStatusLosesToConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	stale, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, order, "cancelled")
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, stale, "delivered")
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition), "%v", err)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, stored.Status)
}

func TestListOrdersFilter(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	first := f.placeOrder(t)
	second := f.placeOrder(t)
	_, err := f.orders.UpdateStatus(ctx, first, "delivered")
	require.NoError(t, err)

	all, err := f.orders.ListOrders(ctx, f.customer.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)

	delivered, err := f.orders.ListOrders(ctx, f.customer.ID, "delivered")
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	require.Equal(t, first.ID, delivered[0].ID)

	ignored, err := f.orders.ListOrders(ctx, f.customer.ID, "bogus")
	require.NoError(t, err)
	require.Len(t, ignored, 2)

	forRestaurant, err := f.orders.RestaurantOrders(ctx, f.restaurant.ID, "pending")
	require.NoError(t, err)
	require.Len(t, forRestaurant, 1)
	require.Equal(t, second.ID, forRestaurant[0].ID)
}

func TestAddRatings(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	err := f.orders.AddRatings(ctx, f.customer.ID, order,
		[]ItemRating{{ItemID: f.pizza.ID, Rating: 4}},
		RestaurantReview{Rating: 4, Comment: "Great"})
	require.NoError(t, err)

	err = f.orders.AddRatings(ctx, f.customer.ID, order, nil, RestaurantReview{Rating: 5})
	require.True(t, errors.Is(err, apperr.ErrConflict), "%v", err)

	// the pizza was already rated by this customer, so only the soda counts
	second := f.placeOrder(t)
	require.NoError(t, f.orders.AddRatings(ctx, f.customer.ID, second,
		[]ItemRating{{ItemID: f.pizza.ID, Rating: 2}, {ItemID: f.soda.ID, Rating: 2}},
		RestaurantReview{Rating: 2}))

	var restaurant models.Restaurant
	require.NoError(t, f.db.First(&restaurant, f.restaurant.ID).Error)
	require.InDelta(t, 3.0, restaurant.AvgRating, 1e-9)
	require.Equal(t, 2, restaurant.RatingCount)

	var pizza models.MenuItem
	require.NoError(t, f.db.First(&pizza, f.pizza.ID).Error)
	require.InDelta(t, 4.0, pizza.AvgRating, 1e-9)
	require.Equal(t, 1, pizza.RatingCount)

	var soda models.MenuItem
	require.NoError(t, f.db.First(&soda, f.soda.ID).Error)
	require.InDelta(t, 2.0, soda.AvgRating, 1e-9)
	require.Equal(t, 1, soda.RatingCount)

	var pizzaRatings int64
	require.NoError(t, f.db.Model(&models.MenuItemRating{}).
		Where("user_id = ? AND menu_item_id = ?", f.customer.ID, f.pizza.ID).
		Count(&pizzaRatings).Error)
	require.Equal(t, int64(1), pizzaRatings)

	reviews, err := f.orders.Reviews(ctx, f.restaurant.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, second.ID, reviews[0].OrderID)
	require.Equal(t, "customer", reviews[1].User.Name)
}

func TestAddRatingsValidation(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	err := f.orders.AddRatings(ctx, f.customer.ID, order, nil, RestaurantReview{Rating: 6})
	require.True(t, errors.Is(err, apperr.ErrValidation), "%v", err)

	err = f.orders.AddRatings(ctx, f.customer.ID, order, []ItemRating{{ItemID: f.pizza.ID, Rating: 0}}, RestaurantReview{Rating: 3})
	require.True(t, errors.Is(err, apperr.ErrValidation), "%v", err)

	err = f.orders.AddRatings(ctx, f.customer.ID, order, []ItemRating{{ItemID: 9999, Rating: 3}}, RestaurantReview{Rating: 3})
	require.True(t, errors.Is(err, apperr.ErrNotFound), "%v", err)

	var ratings int64
	require.NoError(t, f.db.Model(&models.RestaurantRating{}).Count(&ratings).Error)
	require.Zero(t, ratings)
}

func TestAddRatingsRejectsRepeatedItem(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	err := f.orders.AddRatings(ctx, f.customer.ID, order,
		[]ItemRating{{ItemID: f.pizza.ID, Rating: 5}, {ItemID: f.pizza.ID, Rating: 1}},
		RestaurantReview{Rating: 4})
	require.True(t, errors.Is(err, apperr.ErrValidation), "%v", err)

	var itemRatings, restaurantRatings int64
	require.NoError(t, f.db.Model(&models.MenuItemRating{}).Count(&itemRatings).Error)
	require.NoError(t, f.db.Model(&models.RestaurantRating{}).Count(&restaurantRatings).Error)
	require.Zero(t, itemRatings)
	require.Zero(t, restaurantRatings)

	var pizza models.MenuItem
	require.NoError(t, f.db.First(&pizza, f.pizza.ID).Error)
	require.Zero(t, pizza.RatingCount)

	// the review can still be submitted once corrected
	require.NoError(t, f.orders.AddRatings(ctx, f.customer.ID, order,
		[]ItemRating{{ItemID: f.pizza.ID, Rating: 5}}, RestaurantReview{Rating: 4}))
}

func TestMenuItemRatingUniquePerUser(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	rating := func() *models.MenuItemRating {
		return &models.MenuItemRating{UserID: f.customer.ID, MenuItemID: f.pizza.ID, OrderID: order.ID, Rating: 3}
	}
	require.NoError(t, f.db.Create(rating()).Error)
	require.Error(t, f.db.Create(rating()).Error)
}

func TestListOrdersKeepsSnapshotAfterPriceChange(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.placeOrder(t)

	before, err := f.orders.ListOrders(ctx, f.customer.ID, "")
	require.NoError(t, err)
	require.Len(t, before, 1)
	snapshot, err := json.Marshal(before[0].Items)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(f.pizza).Updates(map[string]interface{}{
		"price": decimal.RequireFromString("99.00"),
		"name":  "Deluxe Pizza",
	}).Error)

	after, err := f.orders.ListOrders(ctx, f.customer.ID, "")
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, order.ID, after[0].ID)
	require.True(t, decimal.RequireFromString("25.50").Equal(after[0].Total), after[0].Total.String())

	reread, err := json.Marshal(after[0].Items)
	require.NoError(t, err)
	require.JSONEq(t, string(snapshot), string(reread))
	for _, item := range after[0].Items {
		if item.MenuItemID == f.pizza.ID {
			require.Equal(t, "Pizza", item.Name)
			require.True(t, decimal.RequireFromString("10.00").Equal(item.PriceAtOrder))
		}
	}
}

func TestApplyRating(t *testing.T) {
	var stats models.RatingStats
	ApplyRating(&stats, 4)
	require.Equal(t, 4.0, stats.AvgRating)
	require.Equal(t, 1, stats.RatingCount)

	ApplyRating(&stats, 2)
	require.Equal(t, 3.0, stats.AvgRating)
	require.Equal(t, 2, stats.RatingCount)

	ApplyRating(&stats, 5)
	require.InDelta(t, 11.0/3.0, stats.AvgRating, 1e-9)
	require.Equal(t, 3, stats.RatingCount)
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusDelivered))
	require.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	require.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusPending))
	require.False(t, CanTransition(models.OrderStatusDelivered, models.OrderStatusCancelled))
	require.False(t, CanTransition(models.OrderStatusCancelled, models.OrderStatusDelivered))
}
