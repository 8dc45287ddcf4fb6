package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/models"
	"justeat/repository"
)

type FavoriteService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewFavoriteService(db *gorm.DB, log logrus.FieldLogger) *FavoriteService {
	return &FavoriteService{db: db, log: log}
}

// Toggle adds the restaurant to the user's favorites, or removes it if it
// is already there, and reports whether it is now a favorite.
func (s *FavoriteService) Toggle(ctx context.Context, userID, restaurantID uint) (bool, error) {
	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewRestaurantRepository(tx).FindByID(restaurantID); err != nil {
			return notFound(err, "Restaurant not found")
		}

		favorites := repository.NewFavoriteRepository(tx)
		favorite, err := favorites.FindRestaurant(userID, restaurantID)
		switch {
		case err == nil:
			return favorites.DeleteRestaurant(favorite)
		case isNotFound(err):
			favorited = true
			return favorites.CreateRestaurant(&models.Favorite{UserID: userID, RestaurantID: restaurantID})
		default:
			return err
		}
	})
	if err != nil {
		return false, apperr.Persistence(err, "Error updating favorites")
	}
	return favorited, nil
}

func (s *FavoriteService) ToggleMenuItem(ctx context.Context, userID, menuItemID uint) (bool, error) {
	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewMenuItemRepository(tx).FindByID(menuItemID); err != nil {
			return notFound(err, "Item not found")
		}

		favorites := repository.NewFavoriteRepository(tx)
		favorite, err := favorites.FindMenuItem(userID, menuItemID)
		switch {
		case err == nil:
			return favorites.DeleteMenuItem(favorite)
		case isNotFound(err):
			favorited = true
			return favorites.CreateMenuItem(&models.FavoriteMenuItem{UserID: userID, MenuItemID: menuItemID})
		default:
			return err
		}
	})
	if err != nil {
		return false, apperr.Persistence(err, "Error updating favorites")
	}
	return favorited, nil
}

type FavoriteList struct {
	Restaurants []models.Favorite         `json:"restaurants"`
	MenuItems   []models.FavoriteMenuItem `json:"menu_items"`
}

// List returns the user's favorite restaurants and items, most recent first.
func (s *FavoriteService) List(ctx context.Context, userID uint) (FavoriteList, error) {
	favorites := repository.NewFavoriteRepository(s.db.WithContext(ctx))

	restaurants, err := favorites.ListRestaurants(userID)
	if err != nil {
		return FavoriteList{}, apperr.Persistence(err, "Error listing favorites")
	}
	items, err := favorites.ListMenuItems(userID)
	if err != nil {
		return FavoriteList{}, apperr.Persistence(err, "Error listing favorites")
	}
	return FavoriteList{Restaurants: restaurants, MenuItems: items}, nil
}
