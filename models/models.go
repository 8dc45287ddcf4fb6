package models

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&LoginToken{},
		&Cuisine{},
		&Category{},
		&Restaurant{},
		&MenuItem{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&RestaurantRating{},
		&MenuItemRating{},
		&Favorite{},
		&FavoriteMenuItem{},
	}
}
