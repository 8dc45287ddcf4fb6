package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginToken records an issued bearer token. Deleting the row revokes it.
type LoginToken struct {
	gorm.Model
	TokenID        string `gorm:"size:36;uniqueIndex;not null"`
	ExpirationTime time.Time
	UserID         uint `gorm:"index;not null"`
	Role           Role `gorm:"size:16;not null"`
}
