package spoonacular_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"philcali.me/fridgesnap/internal/spoonacular"
)

func _recipes(n int) []spoonacular.SpoonRecipe {
	items := make([]spoonacular.SpoonRecipe, n)
	for i := range items {
		items[i] = spoonacular.SpoonRecipe{Id: i + 1, Title: "Recipe", ReadyInMinutes: 20, Servings: 2}
	}
	return items
}

type FakeSpoonacular struct {
	Status   int
	Requests atomic.Int32
	LastKey  atomic.Value
	LastURL  atomic.Value
}

func (f *FakeSpoonacular) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.Requests.Add(1)
	f.LastKey.Store(r.URL.Query().Get("apiKey"))
	f.LastURL.Store(r.URL.String())
	if f.Status != 0 {
		w.WriteHeader(f.Status)
		return
	}
	switch r.URL.Path {
	case "/recipes/findByIngredients":
		json.NewEncoder(w).Encode(_recipes(10))
	case "/recipes/complexSearch":
		json.NewEncoder(w).Encode(spoonacular.SearchResponse{Results: _recipes(10)})
	case "/recipes/random":
		json.NewEncoder(w).Encode(spoonacular.RandomResponse{Recipes: _recipes(10)})
	case "/recipes/42/information":
		json.NewEncoder(w).Encode(spoonacular.SpoonRecipe{Id: 42, Title: "Answer", Servings: 1})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func NewFakeClient(t *testing.T, fake *FakeSpoonacular, key string) (*spoonacular.Client, *observer.ObservedLogs) {
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	core, logs := observer.New(zapcore.DebugLevel)
	client := spoonacular.NewClient(func() string { return key }, zap.New(core))
	client.Endpoint = server.URL
	client.Client = server.Client()
	return client, logs
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("len(recipes)<=limit", func(t *testing.T) {
		fake := &FakeSpoonacular{}
		client, _ := NewFakeClient(t, fake, "secret")
		found, err := client.LookupByIngredients(ctx, []string{"Apples", "Flour"}, 3)
		require.NoError(t, err)
		assert.Len(t, found, 3)
		assert.Contains(t, fake.LastURL.Load(), "ingredients=apples%2Cflour")
		assert.Contains(t, fake.LastURL.Load(), "number=3")
		searched, err := client.SearchByText(ctx, "pasta", 4)
		require.NoError(t, err)
		assert.Len(t, searched, 4)
		featured, err := client.FetchFeatured(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, featured, 5)
		assert.Equal(t, "secret", fake.LastKey.Load())
	})

	t.Run("non-2xx becomes empty", func(t *testing.T) {
		fake := &FakeSpoonacular{Status: http.StatusPaymentRequired}
		client, logs := NewFakeClient(t, fake, "secret")
		found, err := client.SearchByText(ctx, "pasta", 4)
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		recipe, err := client.GetRecipe(ctx, "42")
		require.NoError(t, err)
		assert.Nil(t, recipe)
	})

	t.Run("missing key never calls out", func(t *testing.T) {
		fake := &FakeSpoonacular{}
		client, logs := NewFakeClient(t, fake, "")
		found, err := client.FetchFeatured(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.Equal(t, int32(0), fake.Requests.Load())
		assert.Equal(t, 1, logs.FilterMessage("spoonacular api key not configured").Len())
	})

	t.Run("details", func(t *testing.T) {
		fake := &FakeSpoonacular{}
		client, _ := NewFakeClient(t, fake, "secret")
		recipe, err := client.GetRecipe(ctx, "42")
		require.NoError(t, err)
		require.NotNil(t, recipe)
		assert.Equal(t, "Answer", recipe.Title)
	})

	t.Run("empty inputs short circuit", func(t *testing.T) {
		fake := &FakeSpoonacular{}
		client, _ := NewFakeClient(t, fake, "secret")
		found, _ := client.LookupByIngredients(ctx, nil, 8)
		assert.Empty(t, found)
		searched, _ := client.SearchByText(ctx, " ", 8)
		assert.Empty(t, searched)
		assert.Equal(t, int32(0), fake.Requests.Load())
	})
}
