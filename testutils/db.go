// Package testutils holds helpers shared by package tests: a migrated SQLite
// database per test and fixture constructors.
package testutils

import (
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"justeat/config"
	"justeat/models"
)

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewDB opens a fresh SQLite database with foreign keys enforced and all
// tables migrated. The file lives in the test's temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := config.SetupDatabase(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path),
	}, Logger())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@example.com", name, n),
		Phone:    fmt.Sprintf("555%07d", n),
		Password: "unused",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCuisineAndCategory(t testing.TB, db *gorm.DB) (*models.Cuisine, *models.Category) {
	t.Helper()
	cuisine := &models.Cuisine{Name: "Italian"}
	require.NoError(t, db.Where(models.Cuisine{Name: cuisine.Name}).FirstOrCreate(cuisine).Error)
	category := &models.Category{Name: "Mains"}
	require.NoError(t, db.Where(models.Category{Name: category.Name}).FirstOrCreate(category).Error)
	return cuisine, category
}

func CreateRestaurant(t testing.TB, db *gorm.DB, owner *models.User, name string) *models.Restaurant {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&n).Error)
	restaurant := &models.Restaurant{
		OwnerID:  owner.ID,
		Name:     name,
		Location: "Main street",
		Slug:     fmt.Sprintf("restaurant-%d", n+1),
		IsActive: true,
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}

func CreateMenuItem(t testing.TB, db *gorm.DB, restaurant *models.Restaurant, name, price string) *models.MenuItem {
	t.Helper()
	cuisine, category := CreateCuisineAndCategory(t, db)
	item := &models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		CuisineID:    cuisine.ID,
		CategoryID:   category.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
