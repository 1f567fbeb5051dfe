package spoonacular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/spoonacular"
)

func _string(s string) *string {
	return &s
}

func TestToRecipe(t *testing.T) {
	item := spoonacular.SpoonRecipe{
		Id:             716429,
		Title:          "Pasta with Garlic",
		Image:          "https://img.spoonacular.com/recipes/716429-556x370.jpg",
		ReadyInMinutes: 45,
		Servings:       2,
		Summary:        _string("You can never have <b>too many</b> pasta recipes."),
		AnalyzedInstructions: []spoonacular.InstructionBlock{
			{Steps: []spoonacular.Step{{Number: 1, Step: "Boil the pasta."}, {Number: 2, Step: "Add garlic."}}},
		},
		ExtendedIngredients: []spoonacular.Ingredient{
			{Name: "pasta", Amount: 2, Unit: "cups"},
			{Name: "garlic", Amount: 0.5, Unit: ""},
		},
	}

	recipe := spoonacular.ToRecipe(item)

	assert.Equal(t, "716429", recipe.Id)
	assert.Equal(t, "You can never have too many pasta recipes.", recipe.Description)
	assert.Equal(t, []string{"2.0 cups pasta", "0.5  garlic"}, recipe.Ingredients)
	assert.Equal(t, []string{"Boil the pasta.", "Add garlic."}, recipe.Instructions)
	assert.Equal(t, 10, recipe.PrepTime)
	assert.Equal(t, 35, recipe.CookTime)
	assert.Equal(t, data.DifficultyMedium, recipe.Difficulty)
	assert.Equal(t, recipe, spoonacular.ToRecipe(item))

	t.Run("difficulty buckets", func(t *testing.T) {
		cases := map[int]data.Difficulty{0: data.DifficultyEasy, 29: data.DifficultyEasy, 30: data.DifficultyMedium, 59: data.DifficultyMedium, 60: data.DifficultyHard, 240: data.DifficultyHard}
		for minutes, expected := range cases {
			r := spoonacular.ToRecipe(spoonacular.SpoonRecipe{ReadyInMinutes: minutes, Servings: 1})
			assert.Equal(t, expected, r.Difficulty, "minutes=%d", minutes)
		}
	})

	t.Run("short recipes keep a negative cook time", func(t *testing.T) {
		r := spoonacular.ToRecipe(spoonacular.SpoonRecipe{ReadyInMinutes: 5, Servings: 1})
		assert.Equal(t, -5, r.CookTime)
	})

	t.Run("fallbacks", func(t *testing.T) {
		r := spoonacular.ToRecipe(spoonacular.SpoonRecipe{Id: 1, Servings: 4, Instructions: _string("Mix\n\nBake")})
		assert.Equal(t, "4 servings", r.Description)
		assert.Equal(t, []string{"Mix", "Bake"}, r.Instructions)
		assert.Nil(t, r.Image)

		bare := spoonacular.ToRecipe(spoonacular.SpoonRecipe{Id: 2})
		assert.Equal(t, []string{spoonacular.DefaultInstruction}, bare.Instructions)
		assert.Equal(t, 1, bare.Servings)
	})

	t.Run("findByIngredients shape uses used and missed ingredients", func(t *testing.T) {
		r := spoonacular.ToRecipe(spoonacular.SpoonRecipe{
			Id:                3,
			UsedIngredients:   []spoonacular.Ingredient{{Name: "apples", Amount: 6, Unit: "large"}},
			MissedIngredients: []spoonacular.Ingredient{{Name: "flour", Amount: 1, Unit: "cup"}},
		})
		assert.Equal(t, []string{"6.0 large apples", "1.0 cup flour"}, r.Ingredients)
	})
}
