package spoonacular

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"philcali.me/fridgesnap/internal/data"
)

const (
	DefaultInstruction = "Follow standard preparation steps."
	PrepTime           = 10
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)
var lineBreak = regexp.MustCompile(`\r?\n`)

type Ingredient struct {
	Id     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Image  string  `json:"image"`
}

type Step struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

type InstructionBlock struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// SpoonRecipe covers the information, complexSearch and findByIngredients
// shapes. Fields a shape does not carry stay at their zero value.
type SpoonRecipe struct {
	Id                   int                `json:"id"`
	Title                string             `json:"title"`
	Image                string             `json:"image"`
	ImageType            string             `json:"imageType"`
	ReadyInMinutes       int                `json:"readyInMinutes"`
	Servings             int                `json:"servings"`
	SourceUrl            string             `json:"sourceUrl"`
	Summary              *string            `json:"summary"`
	Instructions         *string            `json:"instructions"`
	AnalyzedInstructions []InstructionBlock `json:"analyzedInstructions"`
	ExtendedIngredients  []Ingredient       `json:"extendedIngredients"`
	UsedIngredients      []Ingredient       `json:"usedIngredients"`
	MissedIngredients    []Ingredient       `json:"missedIngredients"`
	Vegetarian           bool               `json:"vegetarian"`
	Vegan                bool               `json:"vegan"`
	GlutenFree           bool               `json:"glutenFree"`
	DairyFree            bool               `json:"dairyFree"`
}

type SearchResponse struct {
	Results      []SpoonRecipe `json:"results"`
	Offset       int           `json:"offset"`
	Number       int           `json:"number"`
	TotalResults int           `json:"totalResults"`
}

type RandomResponse struct {
	Recipes []SpoonRecipe `json:"recipes"`
}

func IngredientLine(in Ingredient) string {
	return strings.TrimSpace(fmt.Sprintf("%.1f %s %s", in.Amount, in.Unit, in.Name))
}

func _ingredientLines(r SpoonRecipe) []string {
	source := r.ExtendedIngredients
	if len(source) == 0 {
		source = append(append(source, r.UsedIngredients...), r.MissedIngredients...)
	}
	lines := make([]string, len(source))
	for i, in := range source {
		lines[i] = IngredientLine(in)
	}
	return lines
}

func _instructions(r SpoonRecipe) []string {
	steps := make([]string, 0)
	if len(r.AnalyzedInstructions) > 0 {
		for _, step := range r.AnalyzedInstructions[0].Steps {
			if text := strings.TrimSpace(step.Step); text != "" {
				steps = append(steps, text)
			}
		}
	}
	if len(steps) == 0 && r.Instructions != nil {
		for _, line := range lineBreak.Split(*r.Instructions, -1) {
			if text := strings.TrimSpace(line); text != "" {
				steps = append(steps, text)
			}
		}
	}
	if len(steps) == 0 {
		steps = append(steps, DefaultInstruction)
	}
	return steps
}

// ToRecipe normalizes any Spoonacular recipe shape. Cook time is the ready
// time less the fixed prep time and is not clamped.
func ToRecipe(r SpoonRecipe) data.Recipe {
	servings := r.Servings
	if servings < 1 {
		servings = 1
	}
	description := fmt.Sprintf("%d servings", servings)
	if r.Summary != nil {
		description = htmlTag.ReplaceAllString(*r.Summary, "")
	}
	var image *string
	if r.Image != "" {
		thumbnail := r.Image
		image = &thumbnail
	}
	return data.Recipe{
		Id:           strconv.Itoa(r.Id),
		Title:        r.Title,
		Description:  description,
		Ingredients:  _ingredientLines(r),
		Instructions: _instructions(r),
		PrepTime:     PrepTime,
		CookTime:     r.ReadyInMinutes - PrepTime,
		Servings:     servings,
		Difficulty:   data.DifficultyFor(r.ReadyInMinutes),
		Image:        image,
	}
}
