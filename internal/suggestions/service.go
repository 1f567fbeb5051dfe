// Package suggestions is the single entry point for recipe lookups. It picks a
// provider on every call and never returns an error to its callers.
package suggestions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/provider"
)

type Service struct {
	Free          provider.RecipeProvider
	Keyed         provider.RecipeProvider
	ApiKey        func() string
	ExcludeFilter bool
	Logger        *zap.Logger
}

func NewService(free provider.RecipeProvider, keyed provider.RecipeProvider, apiKey func() string, logger *zap.Logger) *Service {
	return &Service{
		Free:   free,
		Keyed:  keyed,
		ApiKey: apiKey,
		Logger: logger,
	}
}

// Provider returns the keyed provider iff a key is configured right now.
func (s *Service) Provider() provider.RecipeProvider {
	if s.Keyed != nil && s.ApiKey != nil && s.ApiKey() != "" {
		return s.Keyed
	}
	return s.Free
}

func _guard[T interface{}](s *Service, operation string, empty T, call func(provider.RecipeProvider) (T, error)) (result T) {
	p := s.Provider()
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Warn("recipe provider panicked",
				zap.String("operation", operation),
				zap.String("provider", string(p.Kind())),
				zap.Error(fmt.Errorf("%v", r)))
			result = empty
		}
	}()
	result, err := call(p)
	if err != nil {
		s.Logger.Warn("recipe provider failed",
			zap.String("operation", operation),
			zap.String("provider", string(p.Kind())),
			zap.Error(err))
		return empty
	}
	return result
}

func _orEmpty(recipes []data.Recipe) []data.Recipe {
	if recipes == nil {
		return make([]data.Recipe, 0)
	}
	return recipes
}

// SuggestForIngredients looks up recipes for the ingredients on hand. The
// excluded names only apply when ExcludeFilter is set.
func (s *Service) SuggestForIngredients(ctx context.Context, ingredients []data.Ingredient, excluded ...string) []data.Recipe {
	if len(ingredients) == 0 {
		return make([]data.Recipe, 0)
	}
	names := data.IngredientNames(ingredients)
	recipes := _guard(s, "suggest", []data.Recipe(nil), func(p provider.RecipeProvider) ([]data.Recipe, error) {
		return p.LookupByIngredients(ctx, names, provider.DefaultSuggestionLimit)
	})
	if s.ExcludeFilter {
		recipes = FilterExcluded(recipes, excluded)
	}
	return _orEmpty(recipes)
}

func (s *Service) Search(ctx context.Context, query string) []data.Recipe {
	return _orEmpty(_guard(s, "search", []data.Recipe(nil), func(p provider.RecipeProvider) ([]data.Recipe, error) {
		return p.SearchByText(ctx, query, provider.DefaultSearchLimit)
	}))
}

func (s *Service) Featured(ctx context.Context) []data.Recipe {
	return _orEmpty(_guard(s, "featured", []data.Recipe(nil), func(p provider.RecipeProvider) ([]data.Recipe, error) {
		return p.FetchFeatured(ctx, provider.DefaultFeaturedLimit)
	}))
}

// Details returns nil when the active provider has no recipe for id.
func (s *Service) Details(ctx context.Context, id string) *data.Recipe {
	return _guard(s, "details", (*data.Recipe)(nil), func(p provider.RecipeProvider) (*data.Recipe, error) {
		return p.GetRecipe(ctx, id)
	})
}

// FilterExcluded drops recipes with an ingredient line mentioning any
// excluded name. Matching is case-insensitive substring containment.
func FilterExcluded(recipes []data.Recipe, excluded []string) []data.Recipe {
	if len(excluded) == 0 {
		return recipes
	}
	kept := make([]data.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if !_mentionsAny(recipe, excluded) {
			kept = append(kept, recipe)
		}
	}
	return kept
}

func _mentionsAny(recipe data.Recipe, excluded []string) bool {
	for _, line := range recipe.Ingredients {
		line = strings.ToLower(line)
		for _, name := range excluded {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" && strings.Contains(line, name) {
				return true
			}
		}
	}
	return false
}
