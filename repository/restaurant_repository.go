package repository

import (
	"strings"

	"gorm.io/gorm"

	"justeat/models"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Omit("Cuisines", "MenuItems").Create(restaurant).Error
}

func (r *RestaurantRepository) FindByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.Preload("Cuisines").First(&restaurant, id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *RestaurantRepository) FindBySlug(slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.Preload("Cuisines").Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// ListActive returns active restaurants, newest first.
func (r *RestaurantRepository) ListActive() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.
		Preload("Cuisines").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&restaurants).
		Error
	return restaurants, err
}

func (r *RestaurantRepository) ListByOwner(ownerID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.
		Preload("Cuisines").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&restaurants).
		Error
	return restaurants, err
}

// Update writes the given columns only.
func (r *RestaurantRepository) Update(restaurant *models.Restaurant, fields map[string]interface{}) error {
	return r.db.Model(&models.Restaurant{}).Where("id = ?", restaurant.ID).Updates(fields).Error
}

func (r *RestaurantRepository) UpdateRatingStats(restaurant *models.Restaurant) error {
	return r.Update(restaurant, map[string]interface{}{
		"avg_rating":   restaurant.AvgRating,
		"rating_count": restaurant.RatingCount,
	})
}

func (r *RestaurantRepository) ReplaceCuisines(restaurant *models.Restaurant, cuisines []models.Cuisine) error {
	return r.db.Model(restaurant).Association("Cuisines").Replace(cuisines)
}

// Delete removes the restaurant row and its cuisine links. Dependent rows
// must already be gone.
func (r *RestaurantRepository) Delete(restaurant *models.Restaurant) error {
	if err := r.db.Model(restaurant).Association("Cuisines").Clear(); err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&models.Restaurant{}, restaurant.ID).Error
}

type RestaurantFilter struct {
	Query         string
	CuisineIDs    []uint
	RestaurantIDs []uint
}

// Search matches active restaurants by name or location and the filter's
// cuisine and restaurant ids, ordered by name.
func (r *RestaurantRepository) Search(filter RestaurantFilter) ([]models.Restaurant, error) {
	query := r.db.Preload("Cuisines").Where("restaurants.is_active = ?", true)
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		query = query.Where("(LOWER(restaurants.name) LIKE ? OR LOWER(restaurants.location) LIKE ?)", pattern, pattern)
	}
	if len(filter.CuisineIDs) > 0 {
		linked := r.db.Table("restaurant_cuisines").Select("restaurant_id").Where("cuisine_id IN ?", filter.CuisineIDs)
		query = query.Where("restaurants.id IN (?)", linked)
	}
	if len(filter.RestaurantIDs) > 0 {
		query = query.Where("restaurants.id IN ?", filter.RestaurantIDs)
	}

	var restaurants []models.Restaurant
	err := query.Order("restaurants.name").Order("restaurants.id").Find(&restaurants).Error
	return restaurants, err
}

func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func (r *RestaurantRepository) ListCuisines() ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	err := r.db.Order("name").Find(&cuisines).Error
	return cuisines, err
}

func (r *RestaurantRepository) FindCuisines(ids []uint) ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	if len(ids) == 0 {
		return cuisines, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id").Find(&cuisines).Error
	return cuisines, err
}

func (r *RestaurantRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

func (r *RestaurantRepository) CuisineExists(id uint) (bool, error) {
	return exists(r.db.Model(&models.Cuisine{}).Where("id = ?", id))
}

func (r *RestaurantRepository) CategoryExists(id uint) (bool, error) {
	return exists(r.db.Model(&models.Category{}).Where("id = ?", id))
}

func exists(query *gorm.DB) (bool, error) {
	var n int64
	err := query.Count(&n).Error
	return n > 0, err
}
