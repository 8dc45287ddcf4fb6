package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"justeat/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order row only; items are written with CreateItems.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Omit(clause.Associations).Create(order).Error
}

func (r *OrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

func (r *OrderRepository) FindByID(orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("RestaurantRating").
		First(&order, orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) list(where string, id uint, status *models.OrderStatus) ([]models.Order, error) {
	query := r.db.
		Where(where, id).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Restaurant").
		Preload("RestaurantRating")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

// ListByCustomer returns the customer's orders, most recent first.
func (r *OrderRepository) ListByCustomer(customerID uint, status *models.OrderStatus) ([]models.Order, error) {
	return r.list("customer_id = ?", customerID, status)
}

func (r *OrderRepository) ListByRestaurant(restaurantID uint, status *models.OrderStatus) ([]models.Order, error) {
	return r.list("restaurant_id = ?", restaurantID, status)
}

// UpdateStatusGuard moves an order from one status to another only if it is
// still in the from status, and reports how many rows changed.
func (r *OrderRepository) UpdateStatusGuard(orderID uint, from, to models.OrderStatus) (int64, error) {
	result := r.db.
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *OrderRepository) CountByRestaurant(restaurantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Where("restaurant_id = ?", restaurantID).Count(&n).Error
	return n, err
}

func (r *OrderRepository) CountItemsForMenuItem(menuItemID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.OrderItem{}).Where("menu_item_id = ?", menuItemID).Count(&n).Error
	return n, err
}

// PopularMenuItemIDs returns the items of a restaurant whose ordered quantity
// since the given time exceeds threshold.
func (r *OrderRepository) PopularMenuItemIDs(restaurantID uint, since time.Time, threshold int) ([]uint, error) {
	var ids []uint
	err := r.db.
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND order_items.created_at >= ?", restaurantID, since).
		Group("order_items.menu_item_id").
		Having("SUM(order_items.quantity) > ?", threshold).
		Order("order_items.menu_item_id").
		Pluck("order_items.menu_item_id", &ids).
		Error
	return ids, err
}
