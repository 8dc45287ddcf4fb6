package repository

import (
	"gorm.io/gorm"

	"justeat/models"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) ExistsForOrder(orderID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.RestaurantRating{}).Where("order_id = ?", orderID).Count(&n).Error
	return n > 0, err
}

func (r *RatingRepository) CreateRestaurantRating(rating *models.RestaurantRating) error {
	return r.db.Omit("User").Create(rating).Error
}

func (r *RatingRepository) MenuItemRatedBy(userID, menuItemID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.MenuItemRating{}).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Count(&n).Error
	return n > 0, err
}

func (r *RatingRepository) CreateMenuItemRating(rating *models.MenuItemRating) error {
	return r.db.Create(rating).Error
}

// ListForRestaurant returns a restaurant's reviews, most recent first.
func (r *RatingRepository) ListForRestaurant(restaurantID uint) ([]models.RestaurantRating, error) {
	var ratings []models.RestaurantRating
	err := r.db.
		Where("restaurant_id = ?", restaurantID).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&ratings).
		Error
	return ratings, err
}

func (r *RatingRepository) DeleteForRestaurant(restaurantID uint) error {
	menuItemIDs := r.db.Model(&models.MenuItem{}).Select("id").Where("restaurant_id = ?", restaurantID)
	if err := r.db.Unscoped().Where("menu_item_id IN (?)", menuItemIDs).Delete(&models.MenuItemRating{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Where("restaurant_id = ?", restaurantID).Delete(&models.RestaurantRating{}).Error
}

func (r *RatingRepository) DeleteForMenuItem(menuItemID uint) error {
	return r.db.Unscoped().Where("menu_item_id = ?", menuItemID).Delete(&models.MenuItemRating{}).Error
}
