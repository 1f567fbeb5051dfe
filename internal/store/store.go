// Package store holds the user's client state: ingredients, saved and recent
// recipes, preferences, onboarding, and the daily scan quota. Every mutation
// is written through to a Persistence in the background.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/exceptions"
)

type Store struct {
	mu     sync.RWMutex
	state  data.State
	writer *Writer
	now    func() time.Time
	newId  func() string
	logger *zap.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIdGenerator(newId func() string) Option {
	return func(s *Store) {
		s.newId = newId
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func _newId() string {
	gid, err := uuid.NewUUID()
	if err != nil {
		return uuid.NewString()
	}
	return gid.String()
}

// Open rehydrates the store. A failed load is logged and the store starts
// empty; the in-memory state stays authoritative either way.
func Open(ctx context.Context, persistence Persistence, opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		newId:  _newId,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	state, err := persistence.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load client state", zap.Error(err))
		state = data.NewState()
	}
	s.state = state.Normalize()
	s.writer = NewWriter(persistence, s.logger)
	return s
}

func (s *Store) _mutate(fn func(state *data.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.writer.Submit(s.state.Clone())
}

func (s *Store) _today() string {
	return data.Today(s.now())
}

func (s *Store) Snapshot() data.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Flush waits for pending writes; use it where the process may be frozen
// right after a mutation.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

// AddIngredient always appends; adding the same name twice keeps both.
func (s *Store) AddIngredient(name string, category string) (data.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return data.Ingredient{}, exceptions.InvalidInput("Ingredient name must not be empty")
	}
	ingredient := data.Ingredient{
		Id:       s.newId(),
		Name:     name,
		Category: data.ParseCategory(category),
		AddedAt:  s.now(),
	}
	s._mutate(func(state *data.State) {
		state.Ingredients = append(state.Ingredients, ingredient)
	})
	return ingredient, nil
}

func (s *Store) Ingredients() []data.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Ingredients)
}

func (s *Store) RemoveIngredient(id string) {
	s._mutate(func(state *data.State) {
		index := slices.IndexFunc(state.Ingredients, func(i data.Ingredient) bool {
			return i.Id == id
		})
		if index >= 0 {
			state.Ingredients = slices.Delete(state.Ingredients, index, index+1)
		}
	})
}

func (s *Store) ClearIngredients() {
	s._mutate(func(state *data.State) {
		state.Ingredients = make([]data.Ingredient, 0)
	})
}

func _withoutRecipe(recipes []data.Recipe, id string) []data.Recipe {
	kept := make([]data.Recipe, 0, len(recipes)+1)
	for _, recipe := range recipes {
		if recipe.Id != id {
			kept = append(kept, recipe)
		}
	}
	return kept
}

// AddSavedRecipe replaces any saved recipe sharing the id.
func (s *Store) AddSavedRecipe(recipe data.Recipe) {
	s._mutate(func(state *data.State) {
		state.SavedRecipes = append(_withoutRecipe(state.SavedRecipes, recipe.Id), recipe)
	})
}

func (s *Store) RemoveSavedRecipe(id string) {
	s._mutate(func(state *data.State) {
		state.SavedRecipes = _withoutRecipe(state.SavedRecipes, id)
	})
}

func (s *Store) IsSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.state.SavedRecipes, func(r data.Recipe) bool {
		return r.Id == id
	})
}

// AddRecentRecipe moves the recipe to the front, keeping MaxRecentRecipes.
func (s *Store) AddRecentRecipe(recipe data.Recipe) {
	s._mutate(func(state *data.State) {
		recent := append([]data.Recipe{recipe}, _withoutRecipe(state.RecentRecipes, recipe.Id)...)
		if len(recent) > data.MaxRecentRecipes {
			recent = recent[:data.MaxRecentRecipes]
		}
		state.RecentRecipes = recent
	})
}

func _dedupe(values []string, normalize func(string) string) []string {
	rtn := make([]string, 0, len(values))
	for _, value := range values {
		value = normalize(value)
		if value != "" && !slices.Contains(rtn, value) {
			rtn = append(rtn, value)
		}
	}
	return rtn
}

func _excludedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Store) SetDietaryRestrictions(restrictions []string) {
	cleaned := _dedupe(restrictions, strings.TrimSpace)
	s._mutate(func(state *data.State) {
		state.Preferences.DietaryRestrictions = cleaned
	})
}

func (s *Store) AddExcludedIngredient(name string) {
	name = _excludedName(name)
	if name == "" {
		return
	}
	s._mutate(func(state *data.State) {
		if !slices.Contains(state.Preferences.ExcludedIngredients, name) {
			state.Preferences.ExcludedIngredients = append(state.Preferences.ExcludedIngredients, name)
		}
	})
}

func (s *Store) RemoveExcludedIngredient(name string) {
	name = _excludedName(name)
	s._mutate(func(state *data.State) {
		state.Preferences.ExcludedIngredients = slices.DeleteFunc(state.Preferences.ExcludedIngredients, func(e string) bool {
			return e == name
		})
	})
}

func (s *Store) Preferences() data.Preferences {
	return s.Snapshot().Preferences
}

func (s *Store) CompleteOnboarding() {
	s._mutate(func(state *data.State) {
		state.HasCompletedOnboarding = true
	})
}

// ResetOnboarding is only reachable from debug tooling.
func (s *Store) ResetOnboarding() {
	s._mutate(func(state *data.State) {
		state.HasCompletedOnboarding = false
	})
}

func (s *Store) SetPremium(value bool) {
	s._mutate(func(state *data.State) {
		state.IsPremium = value
	})
}

func _increment(state *data.State, today string) {
	if state.ScanDate != today {
		state.ScanDate = today
		state.ScanCount = 1
		return
	}
	state.ScanCount++
}

func _canScan(state data.State, today string) bool {
	if state.IsPremium || state.ScanDate != today {
		return true
	}
	return state.ScanCount < data.FreeScanLimit
}

// IncrementScanCount resets the counter to 1 on the first scan of a new day.
func (s *Store) IncrementScanCount() {
	today := s._today()
	s._mutate(func(state *data.State) {
		_increment(state, today)
	})
}

func (s *Store) CanScan() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return _canScan(s.state, s._today())
}

// ConsumeScan checks and increments under one lock.
func (s *Store) ConsumeScan() bool {
	today := s._today()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !_canScan(s.state, today) {
		return false
	}
	_increment(&s.state, today)
	s.writer.Submit(s.state.Clone())
	return true
}

// RemainingScans reports the free scans left today; unlimited is true for
// premium users.
func (s *Store) RemainingScans() (remaining int, unlimited bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.IsPremium {
		return 0, true
	}
	if s.state.ScanDate != s._today() {
		return data.FreeScanLimit, false
	}
	if s.state.ScanCount >= data.FreeScanLimit {
		return 0, false
	}
	return data.FreeScanLimit - s.state.ScanCount, false
}

// Opener opens the store belonging to one account.
type Opener func(ctx context.Context, accountId string) *Store
