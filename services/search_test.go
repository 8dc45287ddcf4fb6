package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"justeat/apperr"
	"justeat/models"
	"justeat/testutils"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	owner := testutils.CreateUser(t, db, "owner", models.RoleOwner)
	palace := testutils.CreateRestaurant(t, db, owner, "Pasta Palace")
	corner := testutils.CreateRestaurant(t, db, owner, "Curry Corner")
	closed := testutils.CreateRestaurant(t, db, owner, "Pasta Closed")
	require.NoError(t, db.Model(closed).Update("is_active", false).Error)

	pizza := testutils.CreateMenuItem(t, db, palace, "Pizza", "12.00")
	testutils.CreateMenuItem(t, db, palace, "Pasta Alfredo", "8.00")
	curry := testutils.CreateMenuItem(t, db, corner, "Paneer Curry", "6.00")
	testutils.CreateMenuItem(t, db, closed, "Pasta Secret", "3.00")
	s := NewSearchService(db)

	result, err := s.Search(ctx, SearchFilter{Query: "PASTA"})
	require.NoError(t, err)
	require.Len(t, result.Restaurants, 1)
	require.Equal(t, palace.ID, result.Restaurants[0].ID)
	require.Len(t, result.MenuItems, 1)
	require.Equal(t, "Pasta Alfredo", result.MenuItems[0].Name)

	low, high := decimal.RequireFromString("7"), decimal.RequireFromString("20")
	result, err = s.Search(ctx, SearchFilter{PriceMin: &low, PriceMax: &high})
	require.NoError(t, err)
	names := make([]string, 0, len(result.MenuItems))
	for _, item := range result.MenuItems {
		names = append(names, item.Name)
	}
	require.Equal(t, []string{"Pasta Alfredo", "Pizza"}, names)

	result, err = s.Search(ctx, SearchFilter{RestaurantIDs: []uint{corner.ID}})
	require.NoError(t, err)
	require.Len(t, result.Restaurants, 1)
	require.Len(t, result.MenuItems, 1)
	require.Equal(t, curry.ID, result.MenuItems[0].ID)

	result, err = s.Search(ctx, SearchFilter{Query: "italian"})
	require.NoError(t, err)
	require.Len(t, result.MenuItems, 3)
	require.Equal(t, pizza.ID, result.MenuItems[2].ID)

	_, err = s.Search(ctx, SearchFilter{PriceMin: &high, PriceMax: &low})
	require.True(t, errors.Is(err, apperr.ErrValidation), "%v", err)
}

func TestSearchFilterEmpty(t *testing.T) {
	require.True(t, SearchFilter{}.Empty())
	require.False(t, SearchFilter{Query: "x"}.Empty())
	require.False(t, SearchFilter{CuisineIDs: []uint{1}}.Empty())
}
