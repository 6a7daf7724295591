// Package menu turns free-form model output into a validated weekly dinner
// menu: exactly seven items, Monday through Sunday, each with a meal name
// and a short description.
package menu

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DaysPerMenu is the number of dinners in a weekly menu.
const DaysPerMenu = 7

// MenuItem is one day/meal/description record. It is only ever constructed
// from the model's response, never assembled server-side.
type MenuItem struct {
	Day               string `json:"day" yaml:"day"`
	MealName          string `json:"meal_name" yaml:"meal_name"`
	SimpleDescription string `json:"simple_description" yaml:"simple_description"`
}

// Validation errors for model output that parsed but does not form a menu.
var (
	ErrInvalidStructure = errors.New("invalid menu structure")
	ErrInvalidItem      = errors.New("invalid menu item")
)

// ValidateMenu checks that items form a full weekly menu: exactly seven
// entries, each with a non-empty day, meal name and description. Order is
// not validated; the model is asked for Monday through Sunday.
func ValidateMenu(items []MenuItem) error {
	if len(items) != DaysPerMenu {
		return fmt.Errorf("%w: expected %d items, got %d", ErrInvalidStructure, DaysPerMenu, len(items))
	}
	for i, item := range items {
		if item.Day == "" || item.MealName == "" || item.SimpleDescription == "" {
			return fmt.Errorf("%w: item %d is missing a required field", ErrInvalidItem, i)
		}
	}
	return nil
}

// ParseMenu turns raw model output into a validated menu. The text may be
// wrapped in markdown fences and may carry prose around the JSON array.
func ParseMenu(text string) ([]MenuItem, error) {
	cleaned := StripMarkdownFences(text)

	arr, err := ExtractJSONArray(cleaned)
	if err != nil {
		return nil, err
	}

	var items []MenuItem
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if err := ValidateMenu(items); err != nil {
		return nil, err
	}
	return items, nil
}
