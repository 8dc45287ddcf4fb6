package models

import "gorm.io/gorm"

type RestaurantRating struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	User         User   `json:",omitempty"`
	RestaurantID uint   `gorm:"index;not null"`
	OrderID      uint   `gorm:"uniqueIndex;not null"`
	Rating       int    `gorm:"not null"`
	Comment      string `gorm:"type:text"`
}

// MenuItemRating is unique per user and item.
type MenuItemRating struct {
	gorm.Model
	UserID     uint `gorm:"uniqueIndex:idx_menu_item_ratings_user_item;not null"`
	MenuItemID uint `gorm:"uniqueIndex:idx_menu_item_ratings_user_item;index;not null"`
	OrderID    uint `gorm:"index;not null"`
	Rating     int  `gorm:"not null"`
}
