package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"healthbite/backend/internal/scoring"
)

// CatalogEntry is one food in a YAML catalog file.
type CatalogEntry struct {
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Calories    float64 `yaml:"calories"`
	ProteinG    float64 `yaml:"protein_g"`
	CarbsG      float64 `yaml:"carbs_g"`
	FatG        float64 `yaml:"fat_g"`
	SugarG      float64 `yaml:"sugar_g"`
	SodiumMg    float64 `yaml:"sodium_mg"`
	DietaryType string  `yaml:"dietary_type"`
	ImageEmoji  string  `yaml:"image_emoji"`
	Available   *bool   `yaml:"available"`
}

type catalogFile struct {
	Foods []CatalogEntry `yaml:"foods"`
}

// LoadCatalogFile reads a YAML catalog of the form `foods: [...]`.
func LoadCatalogFile(path string) ([]FoodItem, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML into rows ready for insertion.
func ParseCatalog(data []byte) ([]FoodItem, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	items := make([]FoodItem, 0, len(file.Foods))
	for i, entry := range file.Foods {
		item, err := entry.ToFoodItem()
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ToFoodItem validates the entry and converts it into a catalog row.
func (e CatalogEntry) ToFoodItem() (FoodItem, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return FoodItem{}, errors.New("name required")
	}
	for field, v := range map[string]float64{
		"price": e.Price, "calories": e.Calories, "protein_g": e.ProteinG, "carbs_g": e.CarbsG,
		"fat_g": e.FatG, "sugar_g": e.SugarG, "sodium_mg": e.SodiumMg,
	} {
		if v < 0 {
			return FoodItem{}, fmt.Errorf("%s: negative %s", name, field)
		}
	}
	diet := scoring.DietVeg
	if strings.TrimSpace(e.DietaryType) != "" {
		parsed, ok := scoring.ParseDietaryPreference(e.DietaryType)
		if !ok {
			return FoodItem{}, fmt.Errorf("%s: unknown dietary type %q", name, e.DietaryType)
		}
		diet = parsed
	}
	available := true
	if e.Available != nil {
		available = *e.Available
	}
	emoji := e.ImageEmoji
	if emoji == "" {
		emoji = "🍽️"
	}
	return FoodItem{
		Name:        name,
		Category:    strings.TrimSpace(e.Category),
		Description: strings.TrimSpace(e.Description),
		Price:       e.Price,
		Calories:    e.Calories,
		ProteinG:    e.ProteinG,
		CarbsG:      e.CarbsG,
		FatG:        e.FatG,
		SugarG:      e.SugarG,
		SodiumMg:    e.SodiumMg,
		DietaryType: string(diet),
		ImageEmoji:  emoji,
		IsAvailable: available,
	}, nil
}

// SampleFoods returns the built-in canteen menu used when no catalog file is given.
func SampleFoods() []FoodItem {
	type sample struct {
		name, category, description, emoji, diet        string
		price, kcal, protein, carbs, fat, sugar, sodium float64
	}
	samples := []sample{
		{"Masala Dosa", "Breakfast", "Crispy rice crepe with spiced potato filling", "🌮", "Veg", 45, 250, 6, 38, 8, 3, 400},
		{"Idli Sambar", "Breakfast", "Steamed rice cakes with lentil sambar", "🍚", "Veg", 30, 150, 5, 28, 2, 3, 600},
		{"Poha", "Breakfast", "Flattened rice with peanuts and curry leaves", "🥗", "Veg", 25, 220, 3, 40, 6, 4, 300},
		{"Upma", "Breakfast", "Semolina porridge with vegetables", "🍲", "Veg", 25, 200, 4, 32, 7, 2, 350},
		{"Veg Thali", "Lunch", "Roti, rice, dal, seasonal sabzi and curd", "🍛", "Veg", 80, 650, 18, 95, 20, 8, 950},
		{"Chicken Biryani", "Lunch", "Basmati rice layered with spiced chicken", "🍗", "Non-Veg", 120, 700, 28, 80, 26, 4, 1100},
		{"Paneer Butter Masala", "Lunch", "Cottage cheese in a butter tomato gravy", "🍲", "Veg", 90, 550, 15, 20, 40, 9, 800},
		{"Dal Makhani", "Lunch", "Black lentils simmered with butter and cream", "🥣", "Veg", 60, 450, 12, 45, 22, 4, 700},
		{"Samosa", "Snacks", "Fried maida pastry with potato filling", "🥟", "Veg", 15, 260, 3, 30, 14, 2, 250},
		{"Vada Pav", "Snacks", "Spiced potato fritter in a pav bun", "🍔", "Veg", 20, 300, 4, 42, 12, 4, 350},
		{"Pani Puri", "Snacks", "Hollow puris with tangy tamarind water", "🥘", "Veg", 30, 150, 2, 26, 4, 5, 450},
		{"Bhel Puri", "Snacks", "Puffed rice with chutneys and sev", "🥗", "Veg", 25, 180, 3, 30, 5, 6, 400},
		{"Tea", "Beverages", "Masala chai with milk", "☕", "Veg", 10, 40, 1, 6, 1, 5, 10},
		{"Coffee", "Beverages", "Filter coffee with milk", "☕", "Veg", 15, 50, 1, 7, 2, 6, 15},
		{"Cold Coffee", "Beverages", "Chilled coffee blended with milk and ice cream", "🥤", "Veg", 35, 200, 4, 30, 7, 24, 60},
		{"Lassi", "Beverages", "Sweet churned curd drink", "🥛", "Veg", 30, 180, 6, 28, 5, 22, 40},
		{"Fresh Lime Soda", "Beverages", "Lime juice with soda and sugar", "🍋", "Vegan", 25, 80, 0, 20, 0, 18, 60},
		{"Mango Shake", "Beverages", "Alphonso mango blended with milk", "🥭", "Veg", 40, 250, 5, 42, 6, 36, 50},
		{"Gulab Jamun", "Desserts", "Fried khoya dumplings in sugar syrup", "🥘", "Veg", 20, 300, 2, 45, 12, 35, 20},
		{"Rasgulla", "Desserts", "Chenna balls in light sugar syrup", "🥣", "Veg", 20, 250, 2, 48, 2, 40, 15},
	}
	items := make([]FoodItem, 0, len(samples))
	for _, s := range samples {
		items = append(items, FoodItem{
			Name:        s.name,
			Category:    s.category,
			Description: s.description,
			Price:       s.price,
			Calories:    s.kcal,
			ProteinG:    s.protein,
			CarbsG:      s.carbs,
			FatG:        s.fat,
			SugarG:      s.sugar,
			SodiumMg:    s.sodium,
			DietaryType: s.diet,
			ImageEmoji:  s.emoji,
			IsAvailable: true,
		})
	}
	return items
}
