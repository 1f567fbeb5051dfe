package pantry

import "philcali.me/fridgesnap/internal/data"

type IngredientInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type DietaryInput struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
}

type ExcludedInput struct {
	Name string `json:"name"`
}

type PremiumInput struct {
	IsPremium bool `json:"isPremium"`
}

type ScanInput struct {
	Image *string `json:"image"`
}

type ScanResult struct {
	Added          int  `json:"added"`
	RemainingScans int  `json:"remainingScans"`
	Unlimited      bool `json:"unlimited"`
}

type StateOutput struct {
	data.State
	RemainingScans int  `json:"remainingScans"`
	Unlimited      bool `json:"unlimited"`
}
