package data

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// DifficultyFor buckets a total preparation time in minutes.
func DifficultyFor(totalMinutes int) Difficulty {
	if totalMinutes < 30 {
		return DifficultyEasy
	}
	if totalMinutes < 60 {
		return DifficultyMedium
	}
	return DifficultyHard
}

// Recipe is the canonical shape every provider is normalized into. Ids are
// only unique within the provider that produced them.
type Recipe struct {
	Id           string     `json:"id" dynamodbav:"id"`
	Title        string     `json:"title" dynamodbav:"title"`
	Description  string     `json:"description" dynamodbav:"description"`
	Ingredients  []string   `json:"ingredients" dynamodbav:"ingredients"`
	Instructions []string   `json:"instructions" dynamodbav:"instructions"`
	PrepTime     int        `json:"prepTime" dynamodbav:"prepTime"`
	CookTime     int        `json:"cookTime" dynamodbav:"cookTime"`
	Servings     int        `json:"servings" dynamodbav:"servings"`
	Difficulty   Difficulty `json:"difficulty" dynamodbav:"difficulty"`
	Image        *string    `json:"image,omitempty" dynamodbav:"image,omitempty"`
}
