package mealdb

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"philcali.me/fridgesnap/internal/data"
)

const (
	DefaultInstruction = "Follow the standard preparation steps for this recipe."
	DefaultPrepTime    = 15
	DefaultCookTime    = 25
	DefaultServings    = 2
	IngredientSlots    = 20
)

var sentenceBoundary = regexp.MustCompile(`\.\s+[A-Z]`)
var lineBreak = regexp.MustCompile(`\r?\n`)

type Meal struct {
	Id           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	Category     string `json:"strCategory"`
	Area         string `json:"strArea"`
	Instructions string `json:"strInstructions"`
	Thumbnail    string `json:"strMealThumb"`
	Source       string `json:"strSource"`
	Ingredient1  string `json:"strIngredient1"`
	Ingredient2  string `json:"strIngredient2"`
	Ingredient3  string `json:"strIngredient3"`
	Ingredient4  string `json:"strIngredient4"`
	Ingredient5  string `json:"strIngredient5"`
	Ingredient6  string `json:"strIngredient6"`
	Ingredient7  string `json:"strIngredient7"`
	Ingredient8  string `json:"strIngredient8"`
	Ingredient9  string `json:"strIngredient9"`
	Ingredient10 string `json:"strIngredient10"`
	Ingredient11 string `json:"strIngredient11"`
	Ingredient12 string `json:"strIngredient12"`
	Ingredient13 string `json:"strIngredient13"`
	Ingredient14 string `json:"strIngredient14"`
	Ingredient15 string `json:"strIngredient15"`
	Ingredient16 string `json:"strIngredient16"`
	Ingredient17 string `json:"strIngredient17"`
	Ingredient18 string `json:"strIngredient18"`
	Ingredient19 string `json:"strIngredient19"`
	Ingredient20 string `json:"strIngredient20"`
	Measure1     string `json:"strMeasure1"`
	Measure2     string `json:"strMeasure2"`
	Measure3     string `json:"strMeasure3"`
	Measure4     string `json:"strMeasure4"`
	Measure5     string `json:"strMeasure5"`
	Measure6     string `json:"strMeasure6"`
	Measure7     string `json:"strMeasure7"`
	Measure8     string `json:"strMeasure8"`
	Measure9     string `json:"strMeasure9"`
	Measure10    string `json:"strMeasure10"`
	Measure11    string `json:"strMeasure11"`
	Measure12    string `json:"strMeasure12"`
	Measure13    string `json:"strMeasure13"`
	Measure14    string `json:"strMeasure14"`
	Measure15    string `json:"strMeasure15"`
	Measure16    string `json:"strMeasure16"`
	Measure17    string `json:"strMeasure17"`
	Measure18    string `json:"strMeasure18"`
	Measure19    string `json:"strMeasure19"`
	Measure20    string `json:"strMeasure20"`
}

// IngredientLines joins each non-empty ingredient slot with its measure.
func IngredientLines(m Meal) []string {
	lines := make([]string, 0)
	body, err := json.Marshal(m)
	if err != nil {
		return lines
	}
	var bagOfStrings map[string]string
	if err := json.Unmarshal(body, &bagOfStrings); err != nil {
		return lines
	}
	for i := 1; i <= IngredientSlots; i++ {
		name := strings.TrimSpace(bagOfStrings[fmt.Sprintf("strIngredient%d", i)])
		measure := strings.TrimSpace(bagOfStrings[fmt.Sprintf("strMeasure%d", i)])
		if name == "" {
			continue
		}
		if measure == "" {
			lines = append(lines, name)
		} else {
			lines = append(lines, measure+" "+name)
		}
	}
	return lines
}

func _splitSentences(line string) []string {
	var fragments []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(line, -1) {
		fragments = append(fragments, line[start:loc[0]])
		start = loc[0] + 1
	}
	return append(fragments, line[start:])
}

// SplitInstructions breaks one block of text into steps on line breaks and on
// sentence ends followed by a capital letter.
func SplitInstructions(instructions string) []string {
	raw := strings.TrimSpace(instructions)
	if raw == "" {
		return []string{DefaultInstruction}
	}
	steps := make([]string, 0)
	for _, line := range lineBreak.Split(instructions, -1) {
		for _, fragment := range _splitSentences(line) {
			step := strings.TrimSpace(fragment)
			if step == "" {
				continue
			}
			if !strings.HasSuffix(step, ".") {
				step += "."
			}
			steps = append(steps, step)
		}
	}
	if len(steps) == 0 {
		return []string{raw}
	}
	return steps
}

func ToRecipe(m Meal) data.Recipe {
	description := "Recipe sourced from TheMealDB"
	if category := strings.TrimSpace(m.Category); category != "" {
		description = category + " recipe from TheMealDB"
	}
	var image *string
	if m.Thumbnail != "" {
		thumbnail := m.Thumbnail
		image = &thumbnail
	}
	return data.Recipe{
		Id:           m.Id,
		Title:        m.Name,
		Description:  description,
		Ingredients:  IngredientLines(m),
		Instructions: SplitInstructions(m.Instructions),
		PrepTime:     DefaultPrepTime,
		CookTime:     DefaultCookTime,
		Servings:     DefaultServings,
		Difficulty:   data.DifficultyEasy,
		Image:        image,
	}
}

type FilteredMeal struct {
	Id        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

type QueryResponse struct {
	Meals []Meal `json:"meals"`
}

type FilterResponse struct {
	Meals []FilteredMeal `json:"meals"`
}
