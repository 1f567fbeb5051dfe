package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/provider"
)

const (
	DefaultEndpoint = "https://api.spoonacular.com"
	MaxLookupNames  = 5
)

// Client is the keyed Spoonacular provider. Every failure is logged and turned
// into an empty result; no method returns an error.
type Client struct {
	Endpoint string
	ApiKey   func() string
	Client   *http.Client
	Logger   *zap.Logger
}

type StatusError struct {
	Path       string
	StatusCode int
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("spoonacular %s responded with status %d", se.Path, se.StatusCode)
}

func _apiRequest(ctx context.Context, c *Client, path string, params url.Values, out any) error {
	params.Set("apiKey", c.ApiKey())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func _convertRecipes(items []SpoonRecipe, limit int) []data.Recipe {
	items = provider.Truncate(items, limit)
	recipes := make([]data.Recipe, len(items))
	for i, item := range items {
		recipes[i] = ToRecipe(item)
	}
	return recipes
}

func (c *Client) _configured(operation string) bool {
	if c.ApiKey() == "" {
		c.Logger.Warn("spoonacular api key not configured", zap.String("operation", operation))
		return false
	}
	return true
}

func (c *Client) Kind() provider.Kind {
	return provider.Spoonacular
}

func (c *Client) LookupByIngredients(ctx context.Context, names []string, limit int) ([]data.Recipe, error) {
	if !c._configured("findByIngredients") {
		return make([]data.Recipe, 0), nil
	}
	cleaned := make([]string, 0, MaxLookupNames)
	for _, name := range names {
		if len(cleaned) == MaxLookupNames {
			break
		}
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 || limit <= 0 {
		return make([]data.Recipe, 0), nil
	}
	var items []SpoonRecipe
	err := _apiRequest(ctx, c, "/recipes/findByIngredients", url.Values{
		"ingredients": {strings.Join(cleaned, ",")},
		"number":      {strconv.Itoa(limit)},
		"ranking":     {"2"},
	}, &items)
	if err != nil {
		c.Logger.Error("error fetching recipes from spoonacular", zap.Error(err))
		return make([]data.Recipe, 0), nil
	}
	return _convertRecipes(items, limit), nil
}

func (c *Client) SearchByText(ctx context.Context, query string, limit int) ([]data.Recipe, error) {
	if !c._configured("complexSearch") {
		return make([]data.Recipe, 0), nil
	}
	cleanQuery := strings.TrimSpace(query)
	if cleanQuery == "" || limit <= 0 {
		return make([]data.Recipe, 0), nil
	}
	var response SearchResponse
	err := _apiRequest(ctx, c, "/recipes/complexSearch", url.Values{
		"query":                {cleanQuery},
		"number":               {strconv.Itoa(limit)},
		"addRecipeInformation": {"true"},
	}, &response)
	if err != nil {
		c.Logger.Error("error searching recipes from spoonacular", zap.Error(err))
		return make([]data.Recipe, 0), nil
	}
	return _convertRecipes(response.Results, limit), nil
}

func (c *Client) FetchFeatured(ctx context.Context, limit int) ([]data.Recipe, error) {
	if !c._configured("random") {
		return make([]data.Recipe, 0), nil
	}
	if limit <= 0 {
		return make([]data.Recipe, 0), nil
	}
	var response RandomResponse
	err := _apiRequest(ctx, c, "/recipes/random", url.Values{
		"number": {strconv.Itoa(limit)},
	}, &response)
	if err != nil {
		c.Logger.Error("error fetching featured recipes from spoonacular", zap.Error(err))
		return make([]data.Recipe, 0), nil
	}
	return _convertRecipes(response.Recipes, limit), nil
}

func (c *Client) GetRecipe(ctx context.Context, id string) (*data.Recipe, error) {
	if !c._configured("information") {
		return nil, nil
	}
	var item SpoonRecipe
	err := _apiRequest(ctx, c, "/recipes/"+url.PathEscape(id)+"/information", url.Values{
		"includeNutrition": {"false"},
	}, &item)
	if err != nil {
		c.Logger.Error("error fetching recipe details from spoonacular", zap.String("recipeId", id), zap.Error(err))
		return nil, nil
	}
	recipe := ToRecipe(item)
	return &recipe, nil
}

func NewClient(apiKey func() string, logger *zap.Logger) *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		ApiKey:   apiKey,
		Client:   &http.Client{},
		Logger:   logger,
	}
}
