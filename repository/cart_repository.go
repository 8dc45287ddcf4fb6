package repository

import (
	"gorm.io/gorm"

	"justeat/models"
)

// CartRepository reads and writes carts and their lines through whatever
// handle it was built with, usually a transaction.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByUserWithItems loads the cart with its lines and their menu items.
func (r *CartRepository) FindByUserWithItems(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.MenuItem").
		First(&cart).
		Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Create(cart *models.Cart) error {
	return r.db.Omit("Items").Create(cart).Error
}

func (r *CartRepository) FindLine(cartID, menuItemID uint) (*models.CartItem, error) {
	var line models.CartItem
	err := r.db.
		Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *CartRepository) CreateLine(line *models.CartItem) error {
	return r.db.Omit("MenuItem").Create(line).Error
}

// AddToLine changes a line's quantity by delta.
func (r *CartRepository) AddToLine(line *models.CartItem, delta int) error {
	err := r.db.
		Model(&models.CartItem{}).
		Where("id = ?", line.ID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).
		Error
	if err != nil {
		return err
	}
	line.Quantity += delta
	return nil
}

func (r *CartRepository) DeleteLine(line *models.CartItem) error {
	return r.db.Unscoped().Delete(&models.CartItem{}, line.ID).Error
}

func (r *CartRepository) CountLines(cartID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&n).Error
	return n, err
}

// Delete removes the cart and all of its lines.
func (r *CartRepository) Delete(cart *models.Cart) error {
	if err := r.db.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&models.Cart{}, cart.ID).Error
}

// DeleteByRestaurant removes every cart bound to the restaurant.
func (r *CartRepository) DeleteByRestaurant(restaurantID uint) error {
	cartIDs := r.db.Model(&models.Cart{}).Select("id").Where("restaurant_id = ?", restaurantID)
	if err := r.db.Unscoped().Where("cart_id IN (?)", cartIDs).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Where("restaurant_id = ?", restaurantID).Delete(&models.Cart{}).Error
}

// DeleteLinesForMenuItem removes the item from every cart and drops carts
// left empty by that.
func (r *CartRepository) DeleteLinesForMenuItem(menuItemID uint) error {
	if err := r.db.Unscoped().Where("menu_item_id = ?", menuItemID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().
		Where("NOT EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Delete(&models.Cart{}).
		Error
}
