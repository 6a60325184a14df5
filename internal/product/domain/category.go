package domain

import (
	"fmt"
	"slices"
	"strings"
)

var categories = []string{
	"Tecnología",
	"Electrohogar",
	"Juguetería",
	"Ropa",
	"Muebles",
	"Comida",
	"Libros",
}

// Categories returns the allowed product types.
func Categories() []string {
	return slices.Clone(categories)
}

// ValidateCategory checks category against the allow-list. Matching is exact.
func ValidateCategory(category string) error {
	if category == "" {
		return ErrCategoryRequired
	}
	if !slices.Contains(categories, category) {
		return fmt.Errorf("%w (valid categories: %s)", ErrInvalidCategory, strings.Join(categories, ", "))
	}
	return nil
}
