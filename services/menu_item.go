package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/models"
	"justeat/repository"
)

const (
	popularWindow    = 24 * time.Hour
	PopularThreshold = 10
)

type MenuItemService struct {
	db  *gorm.DB
	log logrus.FieldLogger
	now func() time.Time
}

func NewMenuItemService(db *gorm.DB, log logrus.FieldLogger) *MenuItemService {
	return &MenuItemService{db: db, log: log, now: time.Now}
}

type MenuItemInput struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Price       decimal.Decimal `json:"price"`
	CuisineID   uint            `json:"cuisine_id" binding:"required"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	IsNonVeg    bool            `json:"is_non_veg"`
	Image       string          `json:"image" binding:"max=255"`
}

func (in MenuItemInput) validate(tx *gorm.DB) error {
	if !in.Price.IsPositive() {
		return apperr.New(apperr.ErrValidation, "Price must be greater than zero")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return apperr.New(apperr.ErrValidation, "Price can have at most two decimal places")
	}

	restaurants := repository.NewRestaurantRepository(tx)
	ok, err := restaurants.CuisineExists(in.CuisineID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.ErrNotFound, "Cuisine not found")
	}
	ok, err = restaurants.CategoryExists(in.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.ErrNotFound, "Category not found")
	}
	return nil
}

// Create adds an active item to the restaurant's menu.
func (s *MenuItemService) Create(ctx context.Context, restaurant *models.Restaurant, in MenuItemInput) (*models.MenuItem, error) {
	item := &models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		CuisineID:    in.CuisineID,
		CategoryID:   in.CategoryID,
		IsNonVeg:     in.IsNonVeg,
		Image:        in.Image,
		IsActive:     true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := in.validate(tx); err != nil {
			return err
		}
		return repository.NewMenuItemRepository(tx).Create(item)
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Error creating menu item")
	}

	s.log.WithFields(logrus.Fields{"restaurant_id": restaurant.ID, "item_id": item.ID}).Info("Menu item created")
	return s.ByID(ctx, item.ID)
}

func (s *MenuItemService) Update(ctx context.Context, item *models.MenuItem, in MenuItemInput) (*models.MenuItem, error) {
	fields := map[string]interface{}{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"cuisine_id":  in.CuisineID,
		"category_id": in.CategoryID,
		"is_non_veg":  in.IsNonVeg,
	}
	if in.Image != "" {
		fields["image"] = in.Image
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := in.validate(tx); err != nil {
			return err
		}
		return repository.NewMenuItemRepository(tx).Update(item, fields)
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Error updating menu item")
	}
	return s.ByID(ctx, item.ID)
}

func (s *MenuItemService) SetSpecial(ctx context.Context, item *models.MenuItem, special bool) error {
	return s.setFlag(ctx, item, "is_special", special, func() { item.IsSpecial = special })
}

// SetActive toggles availability. Inactive items stay on orders but cannot
// be added to carts or checked out.
func (s *MenuItemService) SetActive(ctx context.Context, item *models.MenuItem, active bool) error {
	return s.setFlag(ctx, item, "is_active", active, func() { item.IsActive = active })
}

func (s *MenuItemService) setFlag(ctx context.Context, item *models.MenuItem, column string, value bool, apply func()) error {
	err := repository.NewMenuItemRepository(s.db.WithContext(ctx)).
		Update(item, map[string]interface{}{column: value})
	if err != nil {
		return apperr.Persistence(err, "Error updating menu item")
	}
	apply()
	return nil
}

// Delete removes an item that no order references, dropping it from carts
// and favorites. Ordered items must be deactivated instead.
func (s *MenuItemService) Delete(ctx context.Context, item *models.MenuItem) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := repository.NewOrderRepository(tx).CountItemsForMenuItem(item.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.New(apperr.ErrConflict, "Item has been ordered and cannot be deleted. Deactivate it instead.")
		}

		if err := repository.NewCartRepository(tx).DeleteLinesForMenuItem(item.ID); err != nil {
			return err
		}
		if err := repository.NewFavoriteRepository(tx).DeleteForMenuItem(item.ID); err != nil {
			return err
		}
		if err := repository.NewRatingRepository(tx).DeleteForMenuItem(item.ID); err != nil {
			return err
		}
		return repository.NewMenuItemRepository(tx).Delete(item)
	})
	if err != nil {
		if apperr.Kind(err) == nil {
			s.log.WithError(err).WithField("item_id", item.ID).Error("Error deleting menu item")
		}
		return apperr.Persistence(err, "Error deleting menu item")
	}
	return nil
}

func (s *MenuItemService) ByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := repository.NewMenuItemRepository(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, apperr.Persistence(notFound(err, "Item not found"), "Error reading menu item")
	}
	return item, nil
}

// Menu lists a restaurant's items. Customers only see active ones.
func (s *MenuItemService) Menu(ctx context.Context, restaurantID uint, withInactive bool) ([]models.MenuItem, error) {
	items, err := repository.NewMenuItemRepository(s.db.WithContext(ctx)).ListByRestaurant(restaurantID, withInactive)
	if err != nil {
		return nil, apperr.Persistence(err, "Error listing menu")
	}
	return items, nil
}

// PopularItemIDs returns the restaurant's items ordered more than threshold
// times in the last 24 hours.
func (s *MenuItemService) PopularItemIDs(ctx context.Context, restaurantID uint, threshold int) ([]uint, error) {
	ids, err := repository.NewOrderRepository(s.db.WithContext(ctx)).
		PopularMenuItemIDs(restaurantID, s.now().Add(-popularWindow), threshold)
	if err != nil {
		return nil, apperr.Persistence(err, "Error reading popular items")
	}
	return ids, nil
}
