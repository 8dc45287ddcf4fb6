package repository

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"justeat/models"
)

type MenuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

func (r *MenuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Omit("Cuisine", "Category").Create(item).Error
}

func (r *MenuItemRepository) FindByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.Preload("Cuisine").Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByRestaurant returns the menu ordered by name. Inactive items are
// included only when withInactive is set.
func (r *MenuItemRepository) ListByRestaurant(restaurantID uint, withInactive bool) ([]models.MenuItem, error) {
	query := r.db.Preload("Cuisine").Preload("Category").Where("restaurant_id = ?", restaurantID)
	if !withInactive {
		query = query.Where("is_active = ?", true)
	}

	var items []models.MenuItem
	err := query.Order("name").Order("id").Find(&items).Error
	return items, err
}

func (r *MenuItemRepository) Update(item *models.MenuItem, fields map[string]interface{}) error {
	return r.db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(fields).Error
}

func (r *MenuItemRepository) UpdateRatingStats(item *models.MenuItem) error {
	return r.Update(item, map[string]interface{}{
		"avg_rating":   item.AvgRating,
		"rating_count": item.RatingCount,
	})
}

func (r *MenuItemRepository) Delete(item *models.MenuItem) error {
	return r.db.Unscoped().Delete(&models.MenuItem{}, item.ID).Error
}

func (r *MenuItemRepository) DeleteByRestaurant(restaurantID uint) error {
	return r.db.Unscoped().Where("restaurant_id = ?", restaurantID).Delete(&models.MenuItem{}).Error
}

type MenuItemFilter struct {
	Query         string
	CuisineIDs    []uint
	RestaurantIDs []uint
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
}

// Search matches active items of active restaurants by name, description,
// cuisine or category, ordered by name.
func (r *MenuItemRepository) Search(filter MenuItemFilter) ([]models.MenuItem, error) {
	query := r.db.
		Preload("Cuisine").
		Preload("Category").
		Joins("JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
		Where("menu_items.is_active = ? AND restaurants.is_active = ?", true, true)

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		query = query.
			Joins("JOIN cuisines ON cuisines.id = menu_items.cuisine_id").
			Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("(LOWER(menu_items.name) LIKE ? OR LOWER(menu_items.description) LIKE ? OR LOWER(cuisines.name) LIKE ? OR LOWER(categories.name) LIKE ?)",
				pattern, pattern, pattern, pattern)
	}
	if len(filter.CuisineIDs) > 0 {
		query = query.Where("menu_items.cuisine_id IN ?", filter.CuisineIDs)
	}
	if len(filter.RestaurantIDs) > 0 {
		query = query.Where("menu_items.restaurant_id IN ?", filter.RestaurantIDs)
	}
	if filter.PriceMin != nil {
		query = query.Where("menu_items.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("menu_items.price <= ?", *filter.PriceMax)
	}

	var items []models.MenuItem
	err := query.Order("menu_items.name").Order("menu_items.id").Find(&items).Error
	return items, err
}
