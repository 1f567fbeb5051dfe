package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/provider"
)

const (
	DefaultEndpoint   = "https://www.themealdb.com/api/json"
	MaxLookupNames    = 4
	FeaturedFirstChar = "c"
)

// MealAPI talks to TheMealDB. It holds no state between calls.
type MealAPI struct {
	Endpoint string
	Version  string
	Token    string
	Client   *http.Client
	Logger   *zap.Logger
}

type StatusError struct {
	Resource   string
	StatusCode int
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("mealdb %s responded with status %d", se.Resource, se.StatusCode)
}

func _apiRequest(ctx context.Context, mc *MealAPI, resource string, params url.Values) ([]byte, error) {
	formatParams := ""
	if len(params) > 0 {
		formatParams = "?" + params.Encode()
	}
	endpoint := fmt.Sprintf("%s/%s/%s/%s.php%s", mc.Endpoint, mc.Version, mc.Token, resource, formatParams)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := mc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Resource: resource, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func _queryRequest(ctx context.Context, mc *MealAPI, resource string, params url.Values) ([]Meal, error) {
	body, err := _apiRequest(ctx, mc, resource, params)
	if err != nil {
		return nil, err
	}
	var query QueryResponse
	if err := json.Unmarshal(body, &query); err != nil {
		return nil, fmt.Errorf("mealdb %s: %w", resource, err)
	}
	return query.Meals, nil
}

func _convertMeals(meals []Meal, limit int) []data.Recipe {
	meals = provider.Truncate(meals, limit)
	recipes := make([]data.Recipe, len(meals))
	for i, meal := range meals {
		recipes[i] = ToRecipe(meal)
	}
	return recipes
}

// Filter returns the meal ids that use the given main ingredient.
func (mc *MealAPI) Filter(ctx context.Context, ingredient string) ([]FilteredMeal, error) {
	body, err := _apiRequest(ctx, mc, "filter", url.Values{"i": {ingredient}})
	if err != nil {
		return nil, err
	}
	var filter FilterResponse
	if err := json.Unmarshal(body, &filter); err != nil {
		return nil, fmt.Errorf("mealdb filter: %w", err)
	}
	return filter.Meals, nil
}

// Lookup returns the full meal for id, or nil when TheMealDB has none.
func (mc *MealAPI) Lookup(ctx context.Context, id string) (*Meal, error) {
	meals, err := _queryRequest(ctx, mc, "lookup", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func (mc *MealAPI) Kind() provider.Kind {
	return provider.MealDB
}

// LookupNames lower-cases and dedupes names, keeping the first MaxLookupNames.
func LookupNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	rtn := make([]string, 0, MaxLookupNames)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		rtn = append(rtn, name)
		if len(rtn) == MaxLookupNames {
			break
		}
	}
	return rtn
}

func (mc *MealAPI) _filterAll(ctx context.Context, names []string) []string {
	lists := make([][]FilteredMeal, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			meals, err := mc.Filter(ctx, name)
			if err != nil {
				mc.Logger.Debug("mealdb filter failed", zap.String("ingredient", name), zap.Error(err))
				return
			}
			lists[i] = meals
		}(i, name)
	}
	wg.Wait()
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, meals := range lists {
		for _, meal := range meals {
			if meal.Id == "" || seen[meal.Id] {
				continue
			}
			seen[meal.Id] = true
			ids = append(ids, meal.Id)
		}
	}
	return ids
}

func (mc *MealAPI) _lookupAll(ctx context.Context, ids []string) []data.Recipe {
	meals := make([]*Meal, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			meal, err := mc.Lookup(ctx, id)
			if err != nil {
				mc.Logger.Debug("mealdb lookup failed", zap.String("mealId", id), zap.Error(err))
				return
			}
			meals[i] = meal
		}(i, id)
	}
	wg.Wait()
	recipes := make([]data.Recipe, 0, len(meals))
	for _, meal := range meals {
		if meal != nil {
			recipes = append(recipes, ToRecipe(*meal))
		}
	}
	return recipes
}

// LookupByIngredients unions the filter results for each name, then fetches
// details for the surviving ids. Individual failures are dropped.
func (mc *MealAPI) LookupByIngredients(ctx context.Context, names []string, limit int) ([]data.Recipe, error) {
	lookupNames := LookupNames(names)
	if len(lookupNames) == 0 || limit <= 0 {
		return make([]data.Recipe, 0), nil
	}
	ids := provider.Truncate(mc._filterAll(ctx, lookupNames), limit)
	if len(ids) == 0 {
		return make([]data.Recipe, 0), nil
	}
	return mc._lookupAll(ctx, ids), nil
}

func (mc *MealAPI) SearchByText(ctx context.Context, query string, limit int) ([]data.Recipe, error) {
	cleanQuery := strings.TrimSpace(query)
	if cleanQuery == "" {
		return make([]data.Recipe, 0), nil
	}
	meals, err := _queryRequest(ctx, mc, "search", url.Values{"s": {cleanQuery}})
	if err != nil {
		return nil, err
	}
	return _convertMeals(meals, limit), nil
}

func (mc *MealAPI) FetchFeatured(ctx context.Context, limit int) ([]data.Recipe, error) {
	meals, err := _queryRequest(ctx, mc, "search", url.Values{"f": {FeaturedFirstChar}})
	if err != nil {
		return nil, err
	}
	return _convertMeals(meals, limit), nil
}

func (mc *MealAPI) GetRecipe(ctx context.Context, id string) (*data.Recipe, error) {
	meal, err := mc.Lookup(ctx, id)
	if err != nil || meal == nil {
		return nil, err
	}
	recipe := ToRecipe(*meal)
	return &recipe, nil
}

func NewDefaultMealClient(logger *zap.Logger) *MealAPI {
	return &MealAPI{
		Endpoint: DefaultEndpoint,
		Version:  "v1",
		Token:    "1",
		Client:   &http.Client{},
		Logger:   logger,
	}
}
