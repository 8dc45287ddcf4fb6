package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RatingStats is the running mean kept on rated entities. Only the rating
// aggregator writes it.
type RatingStats struct {
	AvgRating   float64 `gorm:"not null"`
	RatingCount int     `gorm:"not null"`
}

type Restaurant struct {
	gorm.Model
	OwnerID     uint   `gorm:"index;not null"`
	Name        string `gorm:"size:100;not null"`
	Location    string `gorm:"size:200"`
	OpeningTime string `gorm:"size:5"`
	ClosingTime string `gorm:"size:5"`
	Slug        string `gorm:"size:255;uniqueIndex;not null"`
	IsActive    bool   `gorm:"not null"`
	Image       string `gorm:"size:255"`
	RatingStats

	Cuisines  []Cuisine  `gorm:"many2many:restaurant_cuisines;"`
	MenuItems []MenuItem `json:",omitempty"`
}

type Cuisine struct {
	gorm.Model
	Name  string `gorm:"size:50;unique;not null"`
	Image string `gorm:"size:255"`
}

type Category struct {
	gorm.Model
	Name string `gorm:"size:50;unique;not null"`
}

type MenuItem struct {
	gorm.Model
	RestaurantID uint            `gorm:"index;not null"`
	Name         string          `gorm:"size:100;not null"`
	Description  string          `gorm:"size:255"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CuisineID    uint            `gorm:"not null"`
	Cuisine      Cuisine         `json:",omitempty"`
	CategoryID   uint            `gorm:"not null"`
	Category     Category        `json:",omitempty"`
	IsActive     bool            `gorm:"not null"`
	IsNonVeg     bool            `gorm:"not null"`
	IsSpecial    bool            `gorm:"not null"`
	Image        string          `gorm:"size:255"`
	RatingStats
}
