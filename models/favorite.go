package models

import "gorm.io/gorm"

type Favorite struct {
	gorm.Model
	UserID       uint       `gorm:"uniqueIndex:idx_user_restaurant_favorite;not null"`
	RestaurantID uint       `gorm:"uniqueIndex:idx_user_restaurant_favorite;not null"`
	Restaurant   Restaurant `json:",omitempty"`
}

type FavoriteMenuItem struct {
	gorm.Model
	UserID     uint     `gorm:"uniqueIndex:idx_user_menu_item_favorite;not null"`
	MenuItemID uint     `gorm:"uniqueIndex:idx_user_menu_item_favorite;not null"`
	MenuItem   MenuItem `json:",omitempty"`
}
