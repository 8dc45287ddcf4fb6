package config

import (
	"gorm.io/gorm"

	"justeat/models"
)

var (
	seedCuisines = []models.Cuisine{
		{Name: "Italian", Image: "https://images.pexels.com/photos/1437267/pexels-photo-1437267.jpeg?auto=compress&cs=tinysrgb&w=400"},
		{Name: "Chinese", Image: "https://images.pexels.com/photos/699953/pexels-photo-699953.jpeg?auto=compress&cs=tinysrgb&w=400"},
		{Name: "Indian", Image: "https://images.pexels.com/photos/958545/pexels-photo-958545.jpeg?auto=compress&cs=tinysrgb&w=400"},
		{Name: "Mexican", Image: "https://images.pexels.com/photos/1640772/pexels-photo-1640772.jpeg?auto=compress&cs=tinysrgb&w=400"},
		{Name: "Thai", Image: "https://images.pexels.com/photos/162993/food-thai-spicy-asian-162993.jpeg?auto=compress&cs=tinysrgb&w=400"},
	}
	seedCategories = []string{"Appetizer", "Main Course", "Dessert", "Beverage", "Side"}
)

// SeedLookups inserts the cuisines and categories menu items refer to. It
// is idempotent.
func SeedLookups(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range seedCuisines {
			cuisine := c
			if err := tx.Where(models.Cuisine{Name: cuisine.Name}).Attrs(models.Cuisine{Image: cuisine.Image}).FirstOrCreate(&cuisine).Error; err != nil {
				return err
			}
		}
		for _, name := range seedCategories {
			if err := tx.Where(models.Category{Name: name}).FirstOrCreate(&models.Category{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
