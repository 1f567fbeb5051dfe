package exceptions_test

import (
	"errors"
	"fmt"
	"testing"

	"philcali.me/fridgesnap/internal/exceptions"
)

func TestStatusCode(t *testing.T) {
	cases := map[string]struct {
		err      error
		expected int
	}{
		"not found":       {exceptions.NotFound("recipe", "7"), 404},
		"invalid input":   {exceptions.InvalidInput("bad"), 400},
		"scan limit":      {exceptions.ScanLimit(3), 402},
		"internal server": {exceptions.InternalServer("oops"), 500},
		"wrapped":         {fmt.Errorf("saving: %w", exceptions.NotFound("ingredient", "1")), 404},
		"plain":           {errors.New("plain"), 500},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if code := exceptions.StatusCode(tc.err); code != tc.expected {
				t.Fatalf("Expected %d, got %d", tc.expected, code)
			}
		})
	}
}
