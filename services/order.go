package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/cache"
	"justeat/metrics"
	"justeat/models"
	"justeat/repository"
)

type OrderService struct {
	db          *gorm.DB
	log         logrus.FieldLogger
	metrics     *metrics.Metrics
	restaurants *cache.Restaurants
}

func NewOrderService(db *gorm.DB, log logrus.FieldLogger, m *metrics.Metrics, restaurants *cache.Restaurants) *OrderService {
	return &OrderService{db: db, log: log, metrics: m, restaurants: restaurants}
}

type ItemRating struct {
	ItemID uint `json:"item_id" binding:"required"`
	Rating int  `json:"rating" binding:"required"`
}

type RestaurantReview struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"max=1000"`
}

// PlaceOrder turns the customer's cart into a pending order. Each line is
// snapshotted with the item's current name and price, and the cart is
// deleted in the same transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repository.NewCartRepository(tx)
		orders := repository.NewOrderRepository(tx)

		cart, err := carts.FindByUserWithItems(userID)
		if isNotFound(err) {
			return ValidateCart(nil)
		}
		if err != nil {
			return err
		}
		if err := ValidateCart(cart); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		total := decimal.Zero
		for _, line := range cart.Items {
			item := models.OrderItem{
				MenuItemID:   line.MenuItemID,
				Name:         line.MenuItem.Name,
				PriceAtOrder: line.MenuItem.Price,
				Quantity:     line.Quantity,
			}
			total = total.Add(item.LineTotal())
			items = append(items, item)
		}

		order = &models.Order{
			CustomerID:   userID,
			RestaurantID: cart.RestaurantID,
			Total:        total,
			Status:       models.OrderStatusPending,
		}
		if err := orders.Create(order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orders.CreateItems(items); err != nil {
			return err
		}
		order.Items = items

		return carts.Delete(cart)
	})
	if err != nil {
		if apperr.Kind(err) == nil {
			s.log.WithError(err).WithField("user_id", userID).Error("Error placing order")
		}
		return nil, apperr.Persistence(err, "Error placing order")
	}

	s.metrics.OrderPlaced()
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total.StringFixed(2),
	}).Info("Order placed")
	return order, nil
}

// UpdateStatus moves a pending order to a terminal status. The write only
// succeeds if the stored order is still pending, so a concurrent update
// that committed first makes this one fail with InvalidTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, order *models.Order, newStatus string) (*models.Order, error) {
	status, ok := models.ParseOrderStatus(newStatus)
	if !ok {
		return nil, apperr.Newf(apperr.ErrInvalidStatusValue, "Invalid order status: %s", newStatus)
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperr.Newf(apperr.ErrInvalidTransition, "Order is already %s", order.Status)
	}
	if !CanTransition(order.Status, status) {
		return nil, apperr.Newf(apperr.ErrInvalidTransition, "Cannot change order status from %s to %s", order.Status, status)
	}

	affected, err := repository.NewOrderRepository(s.db.WithContext(ctx)).
		UpdateStatusGuard(order.ID, models.OrderStatusPending, status)
	if err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("Error updating order status")
		return nil, apperr.Persistence(err, "Error updating order status")
	}
	if affected == 0 {
		return nil, apperr.New(apperr.ErrInvalidTransition, "Order status was changed by someone else")
	}

	order.Status = status
	s.metrics.OrderTransitioned(string(status))
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "status": status}).Info("Order status updated")
	return order, nil
}

// statusFilter parses an optional status filter. Unknown values are logged
// and ignored so the caller gets the unfiltered list.
func (s *OrderService) statusFilter(filter string) *models.OrderStatus {
	if filter == "" {
		return nil
	}
	status, ok := models.ParseOrderStatus(filter)
	if !ok {
		s.log.WithField("status", filter).Warn("Ignoring invalid order status filter")
		return nil
	}
	return &status
}

// ListOrders returns the customer's orders, most recent first.
func (s *OrderService) ListOrders(ctx context.Context, userID uint, statusFilter string) ([]models.Order, error) {
	orders, err := repository.NewOrderRepository(s.db.WithContext(ctx)).
		ListByCustomer(userID, s.statusFilter(statusFilter))
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing orders")
	}
	return orders, nil
}

// RestaurantOrders returns the orders placed with a restaurant, most recent
// first.
func (s *OrderService) RestaurantOrders(ctx context.Context, restaurantID uint, statusFilter string) ([]models.Order, error) {
	orders, err := repository.NewOrderRepository(s.db.WithContext(ctx)).
		ListByRestaurant(restaurantID, s.statusFilter(statusFilter))
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing orders")
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := repository.NewOrderRepository(s.db.WithContext(ctx)).FindByID(orderID)
	if err != nil {
		return nil, apperr.Persistence(notFound(err, "Order not found"), "Error reading order")
	}
	return order, nil
}

// AddRatings records the customer's review of an order: one restaurant
// rating plus optional ratings for items of the order. Running averages of
// the restaurant and of every rated item are updated in the same
// transaction. An order can be reviewed once, and an item the customer
// already rated on an earlier order is skipped.
func (s *OrderService) AddRatings(ctx context.Context, userID uint, order *models.Order, itemRatings []ItemRating, review RestaurantReview) error {
	if !validRating(review.Rating) {
		return apperr.Newf(apperr.ErrValidation, "Restaurant rating must be between %d and %d", minRating, maxRating)
	}
	ordered := make(map[uint]bool, len(order.Items))
	for _, item := range order.Items {
		ordered[item.MenuItemID] = true
	}
	submitted := make(map[uint]bool, len(itemRatings))
	for _, ir := range itemRatings {
		if !validRating(ir.Rating) {
			return apperr.Newf(apperr.ErrValidation, "Item rating must be between %d and %d", minRating, maxRating)
		}
		if !ordered[ir.ItemID] {
			return apperr.Newf(apperr.ErrNotFound, "Item %d is not part of this order", ir.ItemID)
		}
		if submitted[ir.ItemID] {
			return apperr.Newf(apperr.ErrValidation, "Item %d is rated more than once", ir.ItemID)
		}
		submitted[ir.ItemID] = true
	}

	var applied int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ratings := repository.NewRatingRepository(tx)
		restaurants := repository.NewRestaurantRepository(tx)
		menuItems := repository.NewMenuItemRepository(tx)

		reviewed, err := ratings.ExistsForOrder(order.ID)
		if err != nil {
			return err
		}
		if reviewed {
			return apperr.New(apperr.ErrConflict, "You have already reviewed this order")
		}

		if err := ratings.CreateRestaurantRating(&models.RestaurantRating{
			UserID:       userID,
			RestaurantID: order.RestaurantID,
			OrderID:      order.ID,
			Rating:       review.Rating,
			Comment:      review.Comment,
		}); err != nil {
			return err
		}
		restaurant, err := restaurants.FindByID(order.RestaurantID)
		if err != nil {
			return notFound(err, "Restaurant not found")
		}
		ApplyRating(&restaurant.RatingStats, review.Rating)
		if err := restaurants.UpdateRatingStats(restaurant); err != nil {
			return err
		}

		for _, ir := range itemRatings {
			// a user rates an item once; later orders of it keep the first rating
			rated, err := ratings.MenuItemRatedBy(userID, ir.ItemID)
			if err != nil {
				return err
			}
			if rated {
				continue
			}
			if err := ratings.CreateMenuItemRating(&models.MenuItemRating{
				UserID:     userID,
				MenuItemID: ir.ItemID,
				OrderID:    order.ID,
				Rating:     ir.Rating,
			}); err != nil {
				return err
			}
			item, err := menuItems.FindByID(ir.ItemID)
			if err != nil {
				return notFound(err, "Item not found")
			}
			ApplyRating(&item.RatingStats, ir.Rating)
			if err := menuItems.UpdateRatingStats(item); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		if apperr.Kind(err) == nil {
			s.log.WithError(err).WithField("order_id", order.ID).Error("Error saving ratings")
		}
		return apperr.Persistence(err, "Error saving ratings")
	}

	s.metrics.RatingApplied("restaurant")
	for i := 0; i < applied; i++ {
		s.metrics.RatingApplied("menu_item")
	}
	s.restaurants.Invalidate(ctx)
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "items": applied}).Info("Order reviewed")
	return nil
}

// Reviews returns a restaurant's reviews, most recent first.
func (s *OrderService) Reviews(ctx context.Context, restaurantID uint) ([]models.RestaurantRating, error) {
	reviews, err := repository.NewRatingRepository(s.db.WithContext(ctx)).ListForRestaurant(restaurantID)
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing reviews")
	}
	return reviews, nil
}
