// Package vision holds the boundary to the image ingredient detector. The
// detector itself is an external collaborator; this package only adapts its
// output into pantry ingredients.
package vision

import (
	"context"
	"strings"

	"philcali.me/fridgesnap/internal/data"
)

type Detection struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Detector turns a base64 encoded JPEG into detections. Errors are returned
// to the caller untouched so they can be surfaced to the user.
type Detector interface {
	Detect(ctx context.Context, base64Image string) ([]Detection, error)
}

type DetectorFunc func(ctx context.Context, base64Image string) ([]Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, base64Image string) ([]Detection, error) {
	return f(ctx, base64Image)
}

type IngredientAdder interface {
	AddIngredient(name string, category string) (data.Ingredient, error)
}

type keyword struct {
	Key      string
	Category data.Category
}

// Checked in order; the first key contained in the name wins.
var keywords = []keyword{
	{"produce", data.CategoryProduce},
	{"vegetable", data.CategoryProduce},
	{"fruit", data.CategoryProduce},
	{"herb", data.CategoryProduce},
	{"dairy", data.CategoryDairy},
	{"milk", data.CategoryDairy},
	{"cheese", data.CategoryDairy},
	{"butter", data.CategoryDairy},
	{"egg", data.CategoryDairy},
	{"yogurt", data.CategoryDairy},
	{"meat", data.CategoryMeat},
	{"chicken", data.CategoryMeat},
	{"beef", data.CategoryMeat},
	{"pork", data.CategoryMeat},
	{"fish", data.CategoryMeat},
	{"seafood", data.CategoryMeat},
	{"bacon", data.CategoryMeat},
	{"ground", data.CategoryMeat},
	{"pantry", data.CategoryPantry},
	{"rice", data.CategoryPantry},
	{"pasta", data.CategoryPantry},
	{"flour", data.CategoryPantry},
	{"sugar", data.CategoryPantry},
	{"oil", data.CategoryPantry},
	{"spice", data.CategoryPantry},
	{"sauce", data.CategoryPantry},
	{"canned", data.CategoryPantry},
	{"frozen", data.CategoryFrozen},
	{"drinks", data.CategoryDrinks},
	{"beverage", data.CategoryDrinks},
	{"water", data.CategoryDrinks},
	{"juice", data.CategoryDrinks},
}

// CategoryFor infers a category from the ingredient name alone.
func CategoryFor(name string) data.Category {
	lowerName := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lowerName, kw.Key) {
			return kw.Category
		}
	}
	return data.CategoryPantry
}

// AddDetected adds every named detection and returns how many were added.
func AddDetected(adder IngredientAdder, detections []Detection) (int, error) {
	added := 0
	for _, detection := range detections {
		if strings.TrimSpace(detection.Name) == "" {
			continue
		}
		if _, err := adder.AddIngredient(detection.Name, string(CategoryFor(detection.Name))); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Scan runs the detector and adds what it found.
func Scan(ctx context.Context, detector Detector, adder IngredientAdder, base64Image string) (int, error) {
	detections, err := detector.Detect(ctx, base64Image)
	if err != nil {
		return 0, err
	}
	return AddDetected(adder, detections)
}
