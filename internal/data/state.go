package data

import "time"

const (
	StorageKey       = "fridgesnap-storage"
	MaxRecentRecipes = 20
	FreeScanLimit    = 3
	DateLayout       = "2006-01-02"
)

type Preferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions" dynamodbav:"dietaryRestrictions"`
	ExcludedIngredients []string `json:"excludedIngredients" dynamodbav:"excludedIngredients"`
}

// ScanQuota tracks free image scans. ScanCount only counts for ScanDate.
type ScanQuota struct {
	IsPremium bool   `json:"isPremium" dynamodbav:"isPremium"`
	ScanCount int    `json:"scanCount" dynamodbav:"scanCount"`
	ScanDate  string `json:"scanDate" dynamodbav:"scanDate"`
}

// State is the whole persisted client container, written as a single blob.
type State struct {
	Ingredients            []Ingredient `json:"ingredients" dynamodbav:"ingredients"`
	SavedRecipes           []Recipe     `json:"savedRecipes" dynamodbav:"savedRecipes"`
	RecentRecipes          []Recipe     `json:"recentRecipes" dynamodbav:"recentRecipes"`
	Preferences            Preferences  `json:"preferences" dynamodbav:"preferences"`
	HasCompletedOnboarding bool         `json:"hasCompletedOnboarding" dynamodbav:"hasCompletedOnboarding"`
	ScanQuota
}

func NewState() State {
	return State{
		Ingredients:   make([]Ingredient, 0),
		SavedRecipes:  make([]Recipe, 0),
		RecentRecipes: make([]Recipe, 0),
		Preferences: Preferences{
			DietaryRestrictions: make([]string, 0),
			ExcludedIngredients: make([]string, 0),
		},
	}
}

// Normalize replaces nil collections so a rehydrated blob behaves like a new one.
func (s State) Normalize() State {
	if s.Ingredients == nil {
		s.Ingredients = make([]Ingredient, 0)
	}
	if s.SavedRecipes == nil {
		s.SavedRecipes = make([]Recipe, 0)
	}
	if s.RecentRecipes == nil {
		s.RecentRecipes = make([]Recipe, 0)
	}
	if s.Preferences.DietaryRestrictions == nil {
		s.Preferences.DietaryRestrictions = make([]string, 0)
	}
	if s.Preferences.ExcludedIngredients == nil {
		s.Preferences.ExcludedIngredients = make([]string, 0)
	}
	if s.ScanCount < 0 {
		s.ScanCount = 0
	}
	return s
}

// Clone copies every collection so the result shares nothing with s.
func (s State) Clone() State {
	c := s
	c.Ingredients = append(make([]Ingredient, 0, len(s.Ingredients)), s.Ingredients...)
	c.SavedRecipes = append(make([]Recipe, 0, len(s.SavedRecipes)), s.SavedRecipes...)
	c.RecentRecipes = append(make([]Recipe, 0, len(s.RecentRecipes)), s.RecentRecipes...)
	c.Preferences.DietaryRestrictions = append(make([]string, 0, len(s.Preferences.DietaryRestrictions)), s.Preferences.DietaryRestrictions...)
	c.Preferences.ExcludedIngredients = append(make([]string, 0, len(s.Preferences.ExcludedIngredients)), s.Preferences.ExcludedIngredients...)
	return c
}

func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}
