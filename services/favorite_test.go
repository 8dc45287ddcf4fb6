package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"justeat/apperr"
	"justeat/models"
	"justeat/testutils"
)

func TestToggleFavorites(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	owner := testutils.CreateUser(t, db, "owner", models.RoleOwner)
	customer := testutils.CreateUser(t, db, "customer", models.RoleCustomer)
	restaurant := testutils.CreateRestaurant(t, db, owner, "Pasta Palace")
	item := testutils.CreateMenuItem(t, db, restaurant, "Pizza", "10.00")
	s := NewFavoriteService(db, testutils.Logger())

	on, err := s.Toggle(ctx, customer.ID, restaurant.ID)
	require.NoError(t, err)
	require.True(t, on)
	on, err = s.ToggleMenuItem(ctx, customer.ID, item.ID)
	require.NoError(t, err)
	require.True(t, on)

	list, err := s.List(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, list.Restaurants, 1)
	require.Len(t, list.MenuItems, 1)

	on, err = s.Toggle(ctx, customer.ID, restaurant.ID)
	require.NoError(t, err)
	require.False(t, on)

	list, err = s.List(ctx, customer.ID)
	require.NoError(t, err)
	require.Empty(t, list.Restaurants)
	require.Len(t, list.MenuItems, 1)

	_, err = s.Toggle(ctx, customer.ID, 9999)
	require.True(t, errors.Is(err, apperr.ErrNotFound), "%v", err)
	_, err = s.ToggleMenuItem(ctx, customer.ID, 9999)
	require.True(t, errors.Is(err, apperr.ErrNotFound), "%v", err)
}
