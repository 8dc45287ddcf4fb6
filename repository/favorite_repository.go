package repository

import (
	"gorm.io/gorm"

	"justeat/models"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) FindRestaurant(userID, restaurantID uint) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepository) CreateRestaurant(favorite *models.Favorite) error {
	return r.db.Omit("Restaurant").Create(favorite).Error
}

func (r *FavoriteRepository) DeleteRestaurant(favorite *models.Favorite) error {
	return r.db.Unscoped().Delete(&models.Favorite{}, favorite.ID).Error
}

// ListRestaurants returns the user's favorite restaurants, most recent first.
func (r *FavoriteRepository) ListRestaurants(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.
		Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&favorites).
		Error
	return favorites, err
}

func (r *FavoriteRepository) FindMenuItem(userID, menuItemID uint) (*models.FavoriteMenuItem, error) {
	var favorite models.FavoriteMenuItem
	err := r.db.Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepository) CreateMenuItem(favorite *models.FavoriteMenuItem) error {
	return r.db.Omit("MenuItem").Create(favorite).Error
}

func (r *FavoriteRepository) DeleteMenuItem(favorite *models.FavoriteMenuItem) error {
	return r.db.Unscoped().Delete(&models.FavoriteMenuItem{}, favorite.ID).Error
}

func (r *FavoriteRepository) ListMenuItems(userID uint) ([]models.FavoriteMenuItem, error) {
	var favorites []models.FavoriteMenuItem
	err := r.db.
		Preload("MenuItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&favorites).
		Error
	return favorites, err
}

// DeleteForRestaurant drops favorites of the restaurant and of its menu items.
func (r *FavoriteRepository) DeleteForRestaurant(restaurantID uint) error {
	menuItemIDs := r.db.Model(&models.MenuItem{}).Select("id").Where("restaurant_id = ?", restaurantID)
	if err := r.db.Unscoped().Where("menu_item_id IN (?)", menuItemIDs).Delete(&models.FavoriteMenuItem{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Where("restaurant_id = ?", restaurantID).Delete(&models.Favorite{}).Error
}

func (r *FavoriteRepository) DeleteForMenuItem(menuItemID uint) error {
	return r.db.Unscoped().Where("menu_item_id = ?", menuItemID).Delete(&models.FavoriteMenuItem{}).Error
}
