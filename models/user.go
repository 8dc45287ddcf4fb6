package models

import "gorm.io/gorm"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOwner
}

type User struct {
	gorm.Model
	Name        string       `gorm:"size:100;not null"`
	Email       string       `gorm:"size:120;unique;not null"`
	Phone       string       `gorm:"size:15;unique;not null"`
	Password    string       `gorm:"not null" json:"-"`
	Role        Role         `gorm:"size:16;not null"`
	LoginTokens []LoginToken `json:"-"`
}
