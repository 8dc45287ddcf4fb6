package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/cache"
	"justeat/models"
	"justeat/repository"
)

type RestaurantService struct {
	db    *gorm.DB
	log   logrus.FieldLogger
	cache *cache.Restaurants
}

func NewRestaurantService(db *gorm.DB, log logrus.FieldLogger, restaurants *cache.Restaurants) *RestaurantService {
	return &RestaurantService{db: db, log: log, cache: restaurants}
}

type RestaurantInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Location    string `json:"location" binding:"max=200"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	Image       string `json:"image" binding:"max=255"`
}

func (in RestaurantInput) validate() error {
	for _, v := range []string{in.OpeningTime, in.ClosingTime} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return apperr.Newf(apperr.ErrValidation, "Invalid time %q, expected HH:MM", v)
		}
	}
	return nil
}

func restaurantSlug(name string, id uint) string {
	return fmt.Sprintf("%s-%d", slug.Make(name), id)
}

// Create registers a new restaurant for ownerID. It starts inactive; the
// slug is derived from the name and the assigned id.
func (s *RestaurantService) Create(ctx context.Context, ownerID uint, in RestaurantInput) (*models.Restaurant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		OwnerID:     ownerID,
		Name:        in.Name,
		Location:    in.Location,
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
		Image:       in.Image,
		Slug:        uuid.NewString(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restaurants := repository.NewRestaurantRepository(tx)
		if err := restaurants.Create(restaurant); err != nil {
			return err
		}
		restaurant.Slug = restaurantSlug(restaurant.Name, restaurant.ID)
		return restaurants.Update(restaurant, map[string]interface{}{"slug": restaurant.Slug})
	})
	if err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Error("Error creating restaurant")
		return nil, apperr.Persistence(err, "Error creating restaurant")
	}

	s.log.WithFields(logrus.Fields{"restaurant_id": restaurant.ID, "slug": restaurant.Slug}).Info("Restaurant created")
	return restaurant, nil
}

// Update replaces the editable details. Renaming regenerates the slug.
func (s *RestaurantService) Update(ctx context.Context, restaurant *models.Restaurant, in RestaurantInput) (*models.Restaurant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"name":         in.Name,
		"location":     in.Location,
		"opening_time": in.OpeningTime,
		"closing_time": in.ClosingTime,
	}
	if in.Image != "" {
		fields["image"] = in.Image
	}
	if in.Name != restaurant.Name {
		fields["slug"] = restaurantSlug(in.Name, restaurant.ID)
	}

	if err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).Update(restaurant, fields); err != nil {
		return nil, apperr.Persistence(err, "Error updating restaurant")
	}
	s.cache.Invalidate(ctx)
	return s.byID(ctx, restaurant.ID)
}

func (s *RestaurantService) SetActive(ctx context.Context, restaurant *models.Restaurant, active bool) error {
	err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).
		Update(restaurant, map[string]interface{}{"is_active": active})
	if err != nil {
		return apperr.Persistence(err, "Error updating restaurant status")
	}
	restaurant.IsActive = active
	s.cache.Invalidate(ctx)
	return nil
}

// SetCuisines replaces the restaurant's cuisines. Unknown ids are NotFound.
func (s *RestaurantService) SetCuisines(ctx context.Context, restaurant *models.Restaurant, cuisineIDs []uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restaurants := repository.NewRestaurantRepository(tx)
		cuisines, err := restaurants.FindCuisines(cuisineIDs)
		if err != nil {
			return err
		}
		if len(cuisines) != len(uniqueIDs(cuisineIDs)) {
			return apperr.New(apperr.ErrNotFound, "Cuisine not found")
		}
		if err := restaurants.ReplaceCuisines(restaurant, cuisines); err != nil {
			return err
		}
		restaurant.Cuisines = cuisines
		return nil
	})
	if err != nil {
		return apperr.Persistence(err, "Error updating cuisines")
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Delete removes a restaurant that has never received an order, together
// with its menu, carts, ratings, favorites and cuisine links.
func (s *RestaurantService) Delete(ctx context.Context, restaurant *models.Restaurant) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := repository.NewOrderRepository(tx).CountByRestaurant(restaurant.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.New(apperr.ErrConflict, "Restaurant has orders and cannot be deleted. Deactivate it instead.")
		}

		if err := repository.NewCartRepository(tx).DeleteByRestaurant(restaurant.ID); err != nil {
			return err
		}
		if err := repository.NewRatingRepository(tx).DeleteForRestaurant(restaurant.ID); err != nil {
			return err
		}
		if err := repository.NewFavoriteRepository(tx).DeleteForRestaurant(restaurant.ID); err != nil {
			return err
		}
		if err := repository.NewMenuItemRepository(tx).DeleteByRestaurant(restaurant.ID); err != nil {
			return err
		}
		return repository.NewRestaurantRepository(tx).Delete(restaurant)
	})
	if err != nil {
		if apperr.Kind(err) == nil {
			s.log.WithError(err).WithField("restaurant_id", restaurant.ID).Error("Error deleting restaurant")
		}
		return apperr.Persistence(err, "Error deleting restaurant")
	}

	s.cache.Invalidate(ctx)
	s.log.WithField("restaurant_id", restaurant.ID).Info("Restaurant deleted")
	return nil
}

// Active lists active restaurants, newest first, through the listing cache.
func (s *RestaurantService) Active(ctx context.Context, offset, limit int) ([]models.Restaurant, error) {
	restaurants, err := s.cache.Active(ctx, offset, limit, func(ctx context.Context) ([]models.Restaurant, error) {
		return repository.NewRestaurantRepository(s.db.WithContext(ctx)).ListActive()
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing restaurants")
	}
	return restaurants, nil
}

func (s *RestaurantService) ByOwner(ctx context.Context, ownerID uint) ([]models.Restaurant, error) {
	restaurants, err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).ListByOwner(ownerID)
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing restaurants")
	}
	return restaurants, nil
}

func (s *RestaurantService) BySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	restaurant, err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).FindBySlug(slug)
	if err != nil {
		return nil, apperr.Persistence(notFound(err, "Restaurant not found"), "Error reading restaurant")
	}
	return restaurant, nil
}

func (s *RestaurantService) byID(ctx context.Context, id uint) (*models.Restaurant, error) {
	restaurant, err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, apperr.Persistence(notFound(err, "Restaurant not found"), "Error reading restaurant")
	}
	return restaurant, nil
}

func (s *RestaurantService) Cuisines(ctx context.Context) ([]models.Cuisine, error) {
	cuisines, err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).ListCuisines()
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing cuisines")
	}
	return cuisines, nil
}

func (s *RestaurantService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := repository.NewRestaurantRepository(s.db.WithContext(ctx)).ListCategories()
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing categories")
	}
	return categories, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
