package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"restaurant-ordering-api/models"
)

const seedCouponCount = 100

var seedCategories = []models.Category{
	{ID: "1", Name: "Appetizers", Description: "Start your meal with our delicious appetizers"},
	{ID: "2", Name: "Pasta", Description: "Traditional Italian pasta dishes"},
	{ID: "3", Name: "Pizza", Description: "Wood-fired pizzas with authentic flavors"},
	{ID: "4", Name: "Main Courses", Description: "Hearty main dishes to satisfy your appetite"},
	{ID: "5", Name: "Desserts", Description: "Sweet endings to your perfect meal"},
}

func seedMenuItems() []models.MenuItem {
	return []models.MenuItem{
		{
			ID:          "1",
			Name:        "Spaghetti Carbonara",
			Description: "Classic Roman pasta with eggs, pecorino cheese, pancetta, and black pepper",
			Price:       models.MustParseMoney("18.50"),
			Image:       "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5",
			CategoryID:  "2",
			Ingredients: []string{"Spaghetti pasta", "eggs", "Pecorino Romano cheese", "Guanciale", "black pepper", "salt"},
			Recipe:      "Cook spaghetti al dente, crisp the guanciale, then toss the hot pasta with eggs and cheese off the heat.",
			IsAvailable: true,
			Allergens:   []string{"eggs", "dairy", "gluten"},
		},
		{
			ID:          "2",
			Name:        "Margherita Pizza",
			Description: "Traditional Neapolitan pizza with San Marzano tomatoes, fresh mozzarella, and basil",
			Price:       models.MustParseMoney("16.00"),
			Image:       "https://images.unsplash.com/photo-1574071318508-1cdbab80d002",
			CategoryID:  "3",
			Ingredients: []string{"Pizza dough", "San Marzano tomatoes", "fresh mozzarella", "fresh basil", "extra virgin olive oil", "sea salt"},
			Recipe:      "Stretch the dough by hand, add sauce and mozzarella, bake 90 seconds in a wood-fired oven, finish with basil.",
			IsAvailable: true,
			Allergens:   []string{"gluten", "dairy"},
		},
		{
			ID:          "3",
			Name:        "Bruschetta al Pomodoro",
			Description: "Toasted bread topped with fresh tomatoes, garlic, basil, and extra virgin olive oil",
			Price:       models.MustParseMoney("12.00"),
			Image:       "https://images.unsplash.com/photo-1572441713132-9b0d4b2c5ed9",
			CategoryID:  "1",
			Ingredients: []string{"Ciabatta bread", "fresh tomatoes", "garlic", "fresh basil", "extra virgin olive oil", "balsamic vinegar"},
			Recipe:      "Toast the bread, rub with garlic and top with tomatoes dressed in basil, olive oil and balsamic.",
			IsAvailable: true,
			Allergens:   []string{"gluten"},
		},
		{
			ID:          "4",
			Name:        "Tiramisu",
			Description: "Classic Italian dessert with espresso-soaked ladyfingers and mascarpone cream",
			Price:       models.MustParseMoney("9.50"),
			Image:       "https://images.unsplash.com/photo-1571877227200-a0d98ea607e9",
			CategoryID:  "5",
			Ingredients: []string{"Ladyfinger cookies", "mascarpone cheese", "eggs", "sugar", "espresso", "cocoa powder", "marsala wine"},
			Recipe:      "Layer espresso-dipped ladyfingers with mascarpone cream, chill overnight and dust with cocoa.",
			IsAvailable: true,
			Allergens:   []string{"eggs", "dairy", "gluten", "alcohol"},
		},
	}
}

// Seed loads the default catalog and coupons TASTE001..TASTE100 into empty tables.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			categories := append([]models.Category(nil), seedCategories...)
			if err := tx.Create(&categories).Error; err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
			items := seedMenuItems()
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("seed menu items: %w", err)
			}
			log.WithField("items", len(items)).Info("seeded catalog")
		}

		if err := tx.Model(&models.Coupon{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			coupons := make([]models.Coupon, 0, seedCouponCount)
			for i := 1; i <= seedCouponCount; i++ {
				coupons = append(coupons, models.Coupon{Code: fmt.Sprintf("TASTE%03d", i)})
			}
			if err := tx.Create(&coupons).Error; err != nil {
				return fmt.Errorf("seed coupons: %w", err)
			}
			log.WithField("coupons", len(coupons)).Info("seeded coupons")
		}
		return nil
	})
}
