package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/models"
	"justeat/repository"
)

// CartService keeps each customer's single cart. A cart only ever holds
// items of the restaurant it was created for and disappears once its last
// line is removed.
type CartService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewCartService(db *gorm.DB, log logrus.FieldLogger) *CartService {
	return &CartService{db: db, log: log}
}

type CartSummary struct {
	ItemQty map[uint]int    `json:"item_qty"`
	Total   decimal.Decimal `json:"total"`
}

// AddItem puts one unit of itemID into the customer's cart, creating a cart
// bound to restaurantID when there is none.
func (s *CartService) AddItem(ctx context.Context, userID, itemID, restaurantID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repository.NewCartRepository(tx)

		cart, err := carts.FindByUser(userID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if cart != nil && cart.RestaurantID != restaurantID {
			s.log.WithFields(logrus.Fields{
				"user_id":         userID,
				"cart_restaurant": cart.RestaurantID,
				"restaurant_id":   restaurantID,
			}).Warn("Attempted to add item from a different restaurant")
			return apperr.New(apperr.ErrConflict, "Please checkout or clear cart")
		}

		item, err := repository.NewMenuItemRepository(tx).FindByID(itemID)
		if err != nil {
			return notFound(err, "Item not found")
		}
		if item.RestaurantID != restaurantID {
			return apperr.New(apperr.ErrNotFound, "Item not found")
		}
		if !item.IsActive {
			s.log.WithField("item_id", itemID).Warn("Attempted to add inactive item")
			return apperr.New(apperr.ErrItemUnavailable, "Cannot add inactive item")
		}

		if cart == nil {
			cart = &models.Cart{UserID: userID, RestaurantID: restaurantID}
			if err := carts.Create(cart); err != nil {
				return err
			}
		}

		line, err := carts.FindLine(cart.ID, itemID)
		switch {
		case err == nil:
			return carts.AddToLine(line, 1)
		case isNotFound(err):
			return carts.CreateLine(&models.CartItem{CartID: cart.ID, MenuItemID: itemID, Quantity: 1})
		default:
			return err
		}
	})
	if err != nil {
		if apperr.Kind(err) == nil {
			s.log.WithError(err).WithField("user_id", userID).Error("Error adding item to cart")
		}
		return apperr.Persistence(err, "Error updating cart")
	}
	return nil
}

// RemoveItem takes one unit of itemID out of the customer's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repository.NewCartRepository(tx)

		cart, err := carts.FindByUser(userID)
		if err != nil {
			return notFound(err, "Cart not found")
		}
		line, err := carts.FindLine(cart.ID, itemID)
		if err != nil {
			return notFound(err, "Item not in cart")
		}

		if line.Quantity > 1 {
			return carts.AddToLine(line, -1)
		}
		if err := carts.DeleteLine(line); err != nil {
			return err
		}
		remaining, err := carts.CountLines(cart.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return carts.Delete(cart)
		}
		return nil
	})
	if err != nil {
		if apperr.Kind(err) == nil {
			s.log.WithError(err).WithField("user_id", userID).Error("Error removing item from cart")
		}
		return apperr.Persistence(err, "Error updating cart")
	}
	return nil
}

// Summary reports per-item quantities and the total at current menu prices.
// A customer without a cart gets an empty summary.
func (s *CartService) Summary(ctx context.Context, userID uint) (CartSummary, error) {
	summary := CartSummary{ItemQty: map[uint]int{}, Total: decimal.Zero}

	cart, err := repository.NewCartRepository(s.db.WithContext(ctx)).FindByUserWithItems(userID)
	if isNotFound(err) {
		return summary, nil
	}
	if err != nil {
		return summary, apperr.Persistence(err, "Error reading cart")
	}

	for _, line := range cart.Items {
		summary.ItemQty[line.MenuItemID] += line.Quantity
		summary.Total = summary.Total.Add(line.MenuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return summary, nil
}

// Cart returns the customer's cart with its lines and menu items.
func (s *CartService) Cart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := repository.NewCartRepository(s.db.WithContext(ctx)).FindByUserWithItems(userID)
	if err != nil {
		return nil, apperr.Persistence(notFound(err, "Your cart is empty"), "Error reading cart")
	}
	return cart, nil
}

// Clear drops the customer's cart. Clearing a missing cart is not an error.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repository.NewCartRepository(tx)
		cart, err := carts.FindByUser(userID)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return carts.Delete(cart)
	})
	return apperr.Persistence(err, "Error clearing cart")
}

// ValidateCart checks that a cart can be turned into an order: it has lines
// and every item is still active. Lines must have their menu item loaded.
func ValidateCart(cart *models.Cart) error {
	if cart == nil || len(cart.Items) == 0 {
		return apperr.New(apperr.ErrValidation, "Your cart is empty. Please add items before ordering.")
	}

	var inactive []string
	for _, line := range cart.Items {
		if !line.MenuItem.IsActive {
			inactive = append(inactive, line.MenuItem.Name)
		}
	}
	if len(inactive) > 0 {
		return apperr.Newf(apperr.ErrItemUnavailable,
			"These items are no longer available: %s",
			strings.Join(inactive, ", "))
	}
	return nil
}
