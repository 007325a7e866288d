package core

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the closed set of expense categories.
type Category string

const (
	CategoryGroceries   Category = "GROCERIES"
	CategoryLeisure     Category = "LEISURE"
	CategoryElectronics Category = "ELECTRONICS"
	CategoryUtilities   Category = "UTILITIES"
	CategoryClothing    Category = "CLOTHING"
	CategoryHealth      Category = "HEALTH"
	CategoryOthers      Category = "OTHERS"
)

// Categories lists all valid categories in declaration order.
func Categories() []Category {
	return []Category{
		CategoryGroceries,
		CategoryLeisure,
		CategoryElectronics,
		CategoryUtilities,
		CategoryClothing,
		CategoryHealth,
		CategoryOthers,
	}
}

// ErrInvalidCategory wraps every category parse failure so callers can match
// it with errors.Is while still surfacing the list of valid values.
var ErrInvalidCategory = errors.New("invalid category")

// ParseCategory resolves a case-insensitive category name to its canonical
// upper-case value. Unknown names fail with an error listing valid values.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Categories() {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q: valid categories are %s", ErrInvalidCategory, s, categoryNames())
}

func (c Category) Validate() error {
	_, err := ParseCategory(string(c))
	return err
}

func categoryNames() string {
	names := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
