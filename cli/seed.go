package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"justeat/apperr"
	"justeat/config"
	"justeat/handlers"
	"justeat/models"
	"justeat/services"
)

const demoPassword = "Password1!"

var withDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert cuisines, categories and optionally demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := config.SeedLookups(a.db); err != nil {
			return errors.Wrap(err, "seed lookups")
		}
		a.log.Info("Cuisines and categories seeded")
		if !withDemo {
			return nil
		}
		return seedDemo(cmd.Context(), a.handler, a.log)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&withDemo, "demo", false, "also create demo users, restaurants and menus")
}

type demoRestaurant struct {
	name     string
	location string
	cuisines []string
	items    []demoItem
}

type demoItem struct {
	name     string
	price    string
	cuisine  string
	category string
	nonVeg   bool
}

var demoRestaurants = []demoRestaurant{
	{"Pasta Palace", "New Delhi", []string{"Italian"}, []demoItem{
		{"Spaghetti", "12.50", "Italian", "Main Course", false},
		{"Pizza", "10.00", "Italian", "Main Course", false},
		{"Ice Cream", "4.00", "Italian", "Dessert", false},
	}},
	{"Curry Corner", "Bangalore", []string{"Indian"}, []demoItem{
		{"Biryani", "9.00", "Indian", "Main Course", true},
		{"Curry", "8.50", "Indian", "Main Course", true},
		{"Lassi", "2.50", "Indian", "Beverage", false},
	}},
	{"Thai Delight", "Hyderabad", []string{"Thai", "Chinese"}, []demoItem{
		{"Pad Thai", "11.00", "Thai", "Main Course", false},
		{"Spring Rolls", "5.50", "Chinese", "Appetizer", false},
		{"Tea", "1.50", "Chinese", "Beverage", false},
	}},
}

// seedDemo creates two customers, one owner and the demo restaurants
// through the regular services. It does nothing when the demo owner exists.
func seedDemo(ctx context.Context, h *handlers.Handler, log logrus.FieldLogger) error {
	users := []struct {
		name, email, phone string
		role               models.Role
	}{
		{"John Doe", "john@example.com", "1234567890", models.RoleCustomer},
		{"Jane Smith", "jane@example.com", "1234567891", models.RoleCustomer},
		{"Chef Mario", "mario@example.com", "1234567892", models.RoleOwner},
	}

	var owner *models.User
	for _, u := range users {
		user, err := h.Auth.Register(ctx, services.RegisterInput{
			Name:     u.name,
			Email:    u.email,
			Phone:    u.phone,
			Password: demoPassword,
			Role:     u.role,
		})
		if errors.Is(err, apperr.ErrConflict) {
			log.WithField("email", u.email).Info("Demo data already present")
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "register %s", u.email)
		}
		if u.role == models.RoleOwner {
			owner = user
		}
	}

	cuisines, err := h.Restaurants.Cuisines(ctx)
	if err != nil {
		return err
	}
	categories, err := h.Restaurants.Categories(ctx)
	if err != nil {
		return err
	}
	cuisineIDs := make(map[string]uint, len(cuisines))
	for _, c := range cuisines {
		cuisineIDs[c.Name] = c.ID
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	for _, r := range demoRestaurants {
		restaurant, err := h.Restaurants.Create(ctx, owner.ID, services.RestaurantInput{
			Name:        r.name,
			Location:    r.location,
			OpeningTime: "10:00",
			ClosingTime: "23:00",
		})
		if err != nil {
			return errors.Wrapf(err, "create %s", r.name)
		}
		ids := make([]uint, 0, len(r.cuisines))
		for _, name := range r.cuisines {
			ids = append(ids, cuisineIDs[name])
		}
		if err := h.Restaurants.SetCuisines(ctx, restaurant, ids); err != nil {
			return err
		}
		for _, item := range r.items {
			in := services.MenuItemInput{
				Name:       item.name,
				Price:      decimal.RequireFromString(item.price),
				CuisineID:  cuisineIDs[item.cuisine],
				CategoryID: categoryIDs[item.category],
				IsNonVeg:   item.nonVeg,
			}
			if _, err := h.MenuItems.Create(ctx, restaurant, in); err != nil {
				return errors.Wrapf(err, "create %s", item.name)
			}
		}
		if err := h.Restaurants.SetActive(ctx, restaurant, true); err != nil {
			return err
		}
		log.WithField("slug", restaurant.Slug).Info("Demo restaurant created")
	}
	return nil
}
