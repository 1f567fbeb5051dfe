package routes_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/notifications"
	"philcali.me/fridgesnap/internal/provider"
	purchaseService "philcali.me/fridgesnap/internal/purchases"
	"philcali.me/fridgesnap/internal/routes"
	"philcali.me/fridgesnap/internal/routes/pantry"
	"philcali.me/fridgesnap/internal/routes/purchases"
	"philcali.me/fridgesnap/internal/routes/recipes"
	"philcali.me/fridgesnap/internal/store"
	"philcali.me/fridgesnap/internal/suggestions"
	"philcali.me/fridgesnap/internal/vision"
)

type LocalProvider struct {
	mu       sync.Mutex
	Recipes  []data.Recipe
	Names    [][]string
	Queries  []string
	Lookups  []string
	Featured int
}

func (lp *LocalProvider) Kind() provider.Kind {
	return provider.MealDB
}

func (lp *LocalProvider) LookupByIngredients(ctx context.Context, names []string, limit int) ([]data.Recipe, error) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.Names = append(lp.Names, names)
	return provider.Truncate(lp.Recipes, limit), nil
}

func (lp *LocalProvider) SearchByText(ctx context.Context, query string, limit int) ([]data.Recipe, error) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.Queries = append(lp.Queries, query)
	if query == "" {
		return nil, nil
	}
	return provider.Truncate(lp.Recipes, limit), nil
}

func (lp *LocalProvider) FetchFeatured(ctx context.Context, limit int) ([]data.Recipe, error) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.Featured++
	return nil, errors.New("featured is down")
}

func (lp *LocalProvider) GetRecipe(ctx context.Context, id string) (*data.Recipe, error) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.Lookups = append(lp.Lookups, id)
	for _, recipe := range lp.Recipes {
		if recipe.Id == id {
			found := recipe
			return &found, nil
		}
	}
	return nil, nil
}

type LocalNotifications struct {
	mu       sync.Mutex
	Messages []notifications.Message
}

func (ln *LocalNotifications) Publish(ctx context.Context, message notifications.Message) error {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	ln.Messages = append(ln.Messages, message)
	return nil
}

type LocalServer struct {
	Router        *routes.Router
	Provider      *LocalProvider
	Notifications *LocalNotifications
	Persistence   map[string]*store.MemoryPersistence
	Username      string
	mu            sync.Mutex
}

func NewLocalServer(t *testing.T) *LocalServer {
	server := &LocalServer{
		Provider: &LocalProvider{
			Recipes: []data.Recipe{
				{Id: "52795", Title: "Chicken Handi", Ingredients: []string{"1.2 kg Chicken"}, Servings: 2},
				{Id: "52796", Title: "Chicken Alfredo", Ingredients: []string{"2 Peanuts"}, Servings: 2},
			},
		},
		Notifications: &LocalNotifications{},
		Persistence:   make(map[string]*store.MemoryPersistence),
		Username:      "nobody",
	}
	now := time.Date(2026, time.October, 14, 9, 30, 0, 0, time.Local)
	opener := func(ctx context.Context, accountId string) *store.Store {
		return store.Open(ctx, server.PersistenceFor(accountId), store.WithClock(func() time.Time {
			return now
		}))
	}
	logger := zap.NewNop()
	service := suggestions.NewService(server.Provider, nil, nil, logger)
	purchasing := purchaseService.NewService(server.Notifications, logger)
	purchasing.Delay = 0
	detector := vision.DetectorFunc(func(ctx context.Context, base64Image string) ([]vision.Detection, error) {
		if base64Image == "broken" {
			return nil, errors.New("detector unavailable")
		}
		return []vision.Detection{{Name: "Milk", Confidence: 0.9}, {Name: "Chicken Thighs", Confidence: 0.8}}, nil
	})
	server.Router = routes.NewRouter(
		logger,
		recipes.NewRoute(service, opener),
		pantry.NewRoute(opener, detector),
		purchases.NewRoute(purchasing, opener),
	)
	return server
}

func (ls *LocalServer) PersistenceFor(accountId string) *store.MemoryPersistence {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if persistence, ok := ls.Persistence[accountId]; ok {
		return persistence
	}
	persistence := store.NewMemoryPersistence()
	ls.Persistence[accountId] = persistence
	return persistence
}

func (ls *LocalServer) UpdateIdentity(username string) {
	ls.Username = username
}

func (ls *LocalServer) Request(t *testing.T, method string, path string, body []byte, out any, params map[string]string) events.APIGatewayV2HTTPResponse {
	request := events.APIGatewayV2HTTPRequest{
		RawPath:               path,
		QueryStringParameters: params,
		Body:                  string(body),
	}
	request.RequestContext.HTTP.Method = method
	request.RequestContext.HTTP.Path = path
	if ls.Username != "" {
		request.RequestContext.Authorizer = &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
				Claims: map[string]string{
					"username": ls.Username,
				},
			},
		}
	}
	response := ls.Router.Invoke(request, context.TODO())
	if out != nil && response.Body != "" {
		if err := json.Unmarshal([]byte(response.Body), out); err != nil {
			t.Fatalf("Failed to deserialize payload for %s %s: %s", method, path, response.Body)
		}
	}
	return response
}

func (ls *LocalServer) Options(t *testing.T, path string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "OPTIONS", path, nil, nil, nil)
}

func (ls *LocalServer) Get(t *testing.T, out any, path string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "GET", path, nil, out, nil)
}

func (ls *LocalServer) GetQuery(t *testing.T, out any, path string, params map[string]string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "GET", path, nil, out, params)
}

func (ls *LocalServer) Post(t *testing.T, out any, path string, body any) events.APIGatewayV2HTTPResponse {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("Failed to serialize input: %s", err)
		}
	}
	return ls.Request(t, "POST", path, payload, out, nil)
}

func (ls *LocalServer) Put(t *testing.T, out any, path string, body any) events.APIGatewayV2HTTPResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to serialize input: %s", err)
	}
	return ls.Request(t, "PUT", path, payload, out, nil)
}

func (ls *LocalServer) Delete(t *testing.T, path string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "DELETE", path, nil, nil, nil)
}

func TestRouter(t *testing.T) {
	server := NewLocalServer(t)

	t.Run("PantryWorkflow", func(t *testing.T) {
		var chicken data.Ingredient
		created := server.Post(t, &chicken, "/ingredients", pantry.IngredientInput{Name: "Chicken", Category: "meat"})
		if created.StatusCode != 200 {
			t.Fatalf("Response on create %d: %s", created.StatusCode, created.Body)
		}
		if chicken.Id == "" || chicken.Category != data.CategoryMeat {
			t.Fatalf("Unexpected ingredient: %s", created.Body)
		}
		var lettuce data.Ingredient
		server.Post(t, &lettuce, "/ingredients", pantry.IngredientInput{Name: "Lettuce", Category: "leafy"})
		if lettuce.Category != data.CategoryPantry {
			t.Fatalf("Expected unknown category to become pantry, got %s", lettuce.Category)
		}
		blank := server.Post(t, nil, "/ingredients", pantry.IngredientInput{Name: "  "})
		if blank.StatusCode != 400 {
			t.Fatalf("Expected 400 for a blank name, got %d: %s", blank.StatusCode, blank.Body)
		}
		var results data.QueryResults[data.Ingredient]
		list := server.Get(t, &results, "/ingredients")
		if len(results.Items) != 2 || results.Items[0].Id != chicken.Id {
			t.Fatalf("List does not contain %s: %s", created.Body, list.Body)
		}
		removed := server.Delete(t, "/ingredients/"+lettuce.Id)
		if removed.StatusCode != 204 {
			t.Fatalf("Response on delete %d: %s", removed.StatusCode, removed.Body)
		}
		var state pantry.StateOutput
		get := server.Get(t, &state, "/state")
		if get.StatusCode != 200 {
			t.Fatalf("Response on state %d: %s", get.StatusCode, get.Body)
		}
		if len(state.Ingredients) != 1 || state.Ingredients[0].Name != "Chicken" {
			t.Fatalf("Failed to remove ingredient: %s", get.Body)
		}
		if state.RemainingScans != data.FreeScanLimit || state.Unlimited {
			t.Fatalf("Expected %d fresh scans: %s", data.FreeScanLimit, get.Body)
		}
	})

	t.Run("SuggestionWorkflow", func(t *testing.T) {
		var results data.QueryResults[data.Recipe]
		resp := server.Get(t, &results, "/recipes/suggestions")
		if resp.StatusCode != 200 {
			t.Fatalf("Response on suggestions %d: %s", resp.StatusCode, resp.Body)
		}
		if len(results.Items) != 2 {
			t.Fatalf("Expected 2 suggestions, got %s", resp.Body)
		}
		names := server.Provider.Names[len(server.Provider.Names)-1]
		if len(names) != 1 || names[0] != "Chicken" {
			t.Fatalf("Provider received unexpected names %v", names)
		}
		cleared := server.Delete(t, "/ingredients")
		if cleared.StatusCode != 204 {
			t.Fatalf("Response on clear %d: %s", cleared.StatusCode, cleared.Body)
		}
		calls := len(server.Provider.Names)
		empty := server.Get(t, &results, "/recipes/suggestions")
		if empty.Body != `{"items":[]}` {
			t.Fatalf("Expected empty suggestions, got %s", empty.Body)
		}
		if len(server.Provider.Names) != calls {
			t.Fatal("Expected no provider call for an empty pantry")
		}
	})

	t.Run("SearchAndFeatured", func(t *testing.T) {
		var results data.QueryResults[data.Recipe]
		search := server.GetQuery(t, &results, "/recipes/search", map[string]string{"q": " chicken "})
		if search.StatusCode != 200 || len(results.Items) != 2 {
			t.Fatalf("Response on search %d: %s", search.StatusCode, search.Body)
		}
		if server.Provider.Queries[len(server.Provider.Queries)-1] != "chicken" {
			t.Fatalf("Expected trimmed query, got %v", server.Provider.Queries)
		}
		if len(server.Provider.Lookups) != 0 {
			t.Fatalf("Search was routed to recipe details: %v", server.Provider.Lookups)
		}
		featured := server.Get(t, &results, "/recipes/featured")
		if featured.StatusCode != 200 || featured.Body != `{"items":[]}` {
			t.Fatalf("Expected failed featured to be empty, got %d: %s", featured.StatusCode, featured.Body)
		}
	})

	t.Run("RecipeDetails", func(t *testing.T) {
		var recipe data.Recipe
		get := server.Get(t, &recipe, "/recipes/52796")
		if get.StatusCode != 200 || recipe.Title != "Chicken Alfredo" {
			t.Fatalf("Response on details %d: %s", get.StatusCode, get.Body)
		}
		server.Get(t, nil, "/recipes/52795")
		var recent data.QueryResults[data.Recipe]
		server.Get(t, &recent, "/recent")
		if len(recent.Items) != 2 || recent.Items[0].Id != "52795" || recent.Items[1].Id != "52796" {
			t.Fatalf("Expected most recent first, got %v", recent.Items)
		}
		missing := server.Get(t, nil, "/recipes/0")
		if missing.StatusCode != 404 {
			t.Fatalf("Expected 404 for a missing recipe, got %d: %s", missing.StatusCode, missing.Body)
		}
	})

	t.Run("SavedWorkflow", func(t *testing.T) {
		saved := server.Post(t, nil, "/saved", data.Recipe{Id: "7", Title: "Soup", Servings: 1})
		if saved.StatusCode != 200 {
			t.Fatalf("Response on save %d: %s", saved.StatusCode, saved.Body)
		}
		server.Post(t, nil, "/saved", data.Recipe{Id: "7", Title: "Better Soup", Servings: 1})
		var results data.QueryResults[data.Recipe]
		server.Get(t, &results, "/saved")
		if len(results.Items) != 1 || results.Items[0].Title != "Better Soup" {
			t.Fatalf("Expected replaced saved recipe, got %v", results.Items)
		}
		invalid := server.Post(t, nil, "/saved", data.Recipe{Title: "No Id"})
		if invalid.StatusCode != 400 {
			t.Fatalf("Expected 400 for a recipe without id, got %d", invalid.StatusCode)
		}
		removed := server.Delete(t, "/saved/7")
		if removed.StatusCode != 204 {
			t.Fatalf("Response on unsave %d: %s", removed.StatusCode, removed.Body)
		}
		server.Get(t, &results, "/saved")
		if len(results.Items) != 0 {
			t.Fatalf("Expected no saved recipes, got %v", results.Items)
		}
	})

	t.Run("PreferencesWorkflow", func(t *testing.T) {
		var preferences data.Preferences
		dietary := server.Put(t, &preferences, "/preferences/dietary", pantry.DietaryInput{
			DietaryRestrictions: []string{"vegetarian", "vegetarian", "halal"},
		})
		if dietary.StatusCode != 200 || len(preferences.DietaryRestrictions) != 2 {
			t.Fatalf("Response on dietary %d: %s", dietary.StatusCode, dietary.Body)
		}
		server.Post(t, &preferences, "/preferences/excluded", pantry.ExcludedInput{Name: "Peanuts"})
		if len(preferences.ExcludedIngredients) != 1 || preferences.ExcludedIngredients[0] != "peanuts" {
			t.Fatalf("Expected lower-cased exclusion, got %v", preferences.ExcludedIngredients)
		}
		removed := server.Delete(t, "/preferences/excluded/Peanuts")
		if removed.StatusCode != 204 {
			t.Fatalf("Response on remove exclusion %d: %s", removed.StatusCode, removed.Body)
		}
		server.Get(t, &preferences, "/preferences")
		if len(preferences.ExcludedIngredients) != 0 {
			t.Fatalf("Expected exclusion removed, got %v", preferences.ExcludedIngredients)
		}
	})

	t.Run("OnboardingWorkflow", func(t *testing.T) {
		server.Post(t, nil, "/onboarding", nil)
		var state pantry.StateOutput
		server.Get(t, &state, "/state")
		if !state.HasCompletedOnboarding {
			t.Fatal("Expected onboarding to be completed")
		}
		server.Delete(t, "/onboarding")
		server.Get(t, &state, "/state")
		if state.HasCompletedOnboarding {
			t.Fatal("Expected onboarding to be reset")
		}
	})

	t.Run("ScanQuotaWorkflow", func(t *testing.T) {
		server.UpdateIdentity("scanner")
		defer server.UpdateIdentity("nobody")
		for i := 1; i <= data.FreeScanLimit; i++ {
			var result pantry.ScanResult
			scan := server.Post(t, &result, "/scans", nil)
			if scan.StatusCode != 200 {
				t.Fatalf("Scan %d failed with %d: %s", i, scan.StatusCode, scan.Body)
			}
			if result.RemainingScans != data.FreeScanLimit-i {
				t.Fatalf("Expected %d remaining, got %s", data.FreeScanLimit-i, scan.Body)
			}
		}
		limited := server.Post(t, nil, "/scans", nil)
		if limited.StatusCode != 402 {
			t.Fatalf("Expected 402 after the free scans, got %d: %s", limited.StatusCode, limited.Body)
		}
		var purchase purchases.PurchaseResult
		bought := server.Post(t, &purchase, "/purchases/monthly", nil)
		if bought.StatusCode != 200 || !purchase.Success || !purchase.IsPremium {
			t.Fatalf("Response on purchase %d: %s", bought.StatusCode, bought.Body)
		}
		if len(server.Notifications.Messages) != 1 || server.Notifications.Messages[0].Attributes["plan"] != "monthly" {
			t.Fatalf("Expected a purchase notification, got %v", server.Notifications.Messages)
		}
		var result pantry.ScanResult
		premium := server.Post(t, &result, "/scans", nil)
		if premium.StatusCode != 200 || !result.Unlimited {
			t.Fatalf("Expected premium scan, got %d: %s", premium.StatusCode, premium.Body)
		}
	})

	t.Run("ImageScan", func(t *testing.T) {
		server.UpdateIdentity("photographer")
		defer server.UpdateIdentity("nobody")
		broken := "broken"
		failed := server.Post(t, nil, "/scans", pantry.ScanInput{Image: &broken})
		if failed.StatusCode != 500 {
			t.Fatalf("Expected detector failure to surface, got %d: %s", failed.StatusCode, failed.Body)
		}
		image := "aGVsbG8="
		var result pantry.ScanResult
		scan := server.Post(t, &result, "/scans", pantry.ScanInput{Image: &image})
		if scan.StatusCode != 200 || result.Added != 2 {
			t.Fatalf("Response on scan %d: %s", scan.StatusCode, scan.Body)
		}
		if result.RemainingScans != data.FreeScanLimit-1 {
			t.Fatalf("Expected only the successful scan to count: %s", scan.Body)
		}
		var state pantry.StateOutput
		server.Get(t, &state, "/state")
		categories := make(map[string]data.Category)
		for _, ingredient := range state.Ingredients {
			categories[ingredient.Name] = ingredient.Category
		}
		expected := map[string]data.Category{
			"Milk":           data.CategoryDairy,
			"Chicken Thighs": data.CategoryMeat,
		}
		if !maps.Equal(categories, expected) {
			t.Fatalf("Detected categories %v, do not match expected %v", categories, expected)
		}
	})

	t.Run("PurchaseFailures", func(t *testing.T) {
		unknown := server.Post(t, nil, "/purchases/lifetime", nil)
		if unknown.StatusCode != 400 {
			t.Fatalf("Expected 400 for an unknown plan, got %d: %s", unknown.StatusCode, unknown.Body)
		}
		var restore purchases.PurchaseResult
		restored := server.Post(t, &restore, "/purchases/restore", nil)
		if restored.StatusCode != 200 || restore.Success {
			t.Fatalf("Expected restore to find nothing, got %d: %s", restored.StatusCode, restored.Body)
		}
	})

	t.Run("StateIsPerUser", func(t *testing.T) {
		server.UpdateIdentity("somebody")
		defer server.UpdateIdentity("nobody")
		var state pantry.StateOutput
		server.Get(t, &state, "/state")
		if len(state.Ingredients) != 0 || len(state.RecentRecipes) != 0 {
			t.Fatalf("Expected a fresh state for a new user: %v", state)
		}
		if saves := server.PersistenceFor("nobody").Saves(); saves == 0 {
			t.Fatal("Expected writes to be flushed before each response")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		missing := server.Get(t, nil, "/nothing")
		if missing.StatusCode != 404 {
			t.Fatalf("Expected status code of 404, but got %d: %s", missing.StatusCode, missing.Body)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		server.UpdateIdentity("")
		defer server.UpdateIdentity("nobody")
		denied := server.Get(t, nil, "/state")
		if denied.StatusCode != 401 {
			t.Fatalf("Expected status code of 401, but got %d: %s", denied.StatusCode, denied.Body)
		}
	})

	t.Run("CorsPreflight", func(t *testing.T) {
		preflight := server.Options(t, "/recipes/search")
		if preflight.StatusCode != 200 {
			t.Fatalf("Received a %d status code, expected 200", preflight.StatusCode)
		}
		if preflight.Body != "" {
			t.Fatalf("Received a response body for OPTIONS: %s", preflight.Body)
		}
		expected := map[string]string{
			"content-length":               "0",
			"access-control-allow-headers": "Content-Type, Content-Length, Authorization",
			"access-control-allow-methods": "GET, PUT, POST, DELETE",
			"access-control-allow-origin":  "*",
		}
		if !maps.Equal(preflight.Headers, expected) {
			t.Fatalf("Headers from preflight %v, do not match expected %v", preflight.Headers, expected)
		}
	})
}

func TestRouteOrdering(t *testing.T) {
	router := routes.NewRouter(zap.NewNop(), &staticService{})
	var paths []string
	for _, route := range router.Routes {
		paths = append(paths, fmt.Sprintf("%s:%s", route.Method, route.Path))
	}
	expected := []string{"GET:/recipes/search", "GET:/recipes/:recipeId"}
	if len(paths) != 2 || paths[0] != expected[0] || paths[1] != expected[1] {
		t.Fatalf("Expected %v, got %v", expected, paths)
	}
}

type staticService struct{}

func (s *staticService) GetRoutes() map[string]routes.Route {
	noop := func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		return events.APIGatewayV2HTTPResponse{StatusCode: 204}, nil
	}
	return map[string]routes.Route{
		"GET:/recipes/:recipeId": noop,
		"GET:/recipes/search":    noop,
	}
}
