package data

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryProduce Category = "produce"
	CategoryDairy   Category = "dairy"
	CategoryMeat    Category = "meat"
	CategoryPantry  Category = "pantry"
	CategoryFrozen  Category = "frozen"
	CategoryDrinks  Category = "drinks"
)

var Categories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryPantry,
	CategoryFrozen,
	CategoryDrinks,
}

// ParseCategory maps free text onto a known category, falling back to pantry.
func ParseCategory(value string) Category {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, category := range Categories {
		if string(category) == value {
			return category
		}
	}
	return CategoryPantry
}

type Ingredient struct {
	Id       string    `json:"id" dynamodbav:"id"`
	Name     string    `json:"name" dynamodbav:"name"`
	Category Category  `json:"category" dynamodbav:"category"`
	AddedAt  time.Time `json:"addedAt" dynamodbav:"addedAt"`
}

// IngredientNames returns the names in list order.
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, len(ingredients))
	for i, ingredient := range ingredients {
		names[i] = ingredient.Name
	}
	return names
}
