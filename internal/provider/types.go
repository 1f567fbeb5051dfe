package provider

import (
	"context"

	"philcali.me/fridgesnap/internal/data"
)

// Kind names the namespace a recipe id belongs to.
type Kind string

const (
	MealDB      Kind = "mealdb"
	Spoonacular Kind = "spoonacular"
)

const (
	DefaultSuggestionLimit = 8
	DefaultSearchLimit     = 20
	DefaultFeaturedLimit   = 12
)

type RecipeProvider interface {
	Kind() Kind
	LookupByIngredients(ctx context.Context, names []string, limit int) ([]data.Recipe, error)
	SearchByText(ctx context.Context, query string, limit int) ([]data.Recipe, error)
	FetchFeatured(ctx context.Context, limit int) ([]data.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*data.Recipe, error)
}

// Truncate caps items at limit. A non-positive limit yields no items.
func Truncate[T interface{}](items []T, limit int) []T {
	if limit <= 0 {
		return items[:0]
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
