package models

import "gorm.io/gorm"

// Cart is the single pre-order container of a customer. Every line belongs to
// the restaurant the cart is bound to.
type Cart struct {
	gorm.Model
	UserID       uint       `gorm:"uniqueIndex;not null"`
	RestaurantID uint       `gorm:"index;not null"`
	Items        []CartItem `gorm:"foreignKey:CartID"`
}

type CartItem struct {
	gorm.Model
	CartID     uint     `gorm:"index;not null"`
	MenuItemID uint     `gorm:"index;not null"`
	MenuItem   MenuItem `json:",omitempty"`
	Quantity   int      `gorm:"not null"`
}
