package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"justeat/apperr"
	"justeat/models"
	"justeat/repository"
)

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

type SearchFilter struct {
	Query         string
	CuisineIDs    []uint
	RestaurantIDs []uint
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
}

// Empty reports whether no criterion is set.
func (f SearchFilter) Empty() bool {
	return f.Query == "" && len(f.CuisineIDs) == 0 && len(f.RestaurantIDs) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil
}

type SearchResult struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	MenuItems   []models.MenuItem   `json:"menu_items"`
}

// Search matches active restaurants and active menu items. Price bounds
// only apply to menu items.
func (s *SearchService) Search(ctx context.Context, filter SearchFilter) (SearchResult, error) {
	if filter.PriceMin != nil && filter.PriceMax != nil && filter.PriceMin.GreaterThan(*filter.PriceMax) {
		return SearchResult{}, apperr.New(apperr.ErrValidation, "Minimum price cannot exceed maximum price")
	}

	db := s.db.WithContext(ctx)
	restaurants, err := repository.NewRestaurantRepository(db).Search(repository.RestaurantFilter{
		Query:         filter.Query,
		CuisineIDs:    filter.CuisineIDs,
		RestaurantIDs: filter.RestaurantIDs,
	})
	if err != nil {
		return SearchResult{}, apperr.Persistence(err, "Error searching")
	}
	items, err := repository.NewMenuItemRepository(db).Search(repository.MenuItemFilter{
		Query:         filter.Query,
		CuisineIDs:    filter.CuisineIDs,
		RestaurantIDs: filter.RestaurantIDs,
		PriceMin:      filter.PriceMin,
		PriceMax:      filter.PriceMax,
	})
	if err != nil {
		return SearchResult{}, apperr.Persistence(err, "Error searching")
	}
	return SearchResult{Restaurants: restaurants, MenuItems: items}, nil
}
