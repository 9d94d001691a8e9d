package core

import "strings"

// IngredientKey is the identity shared by recipe ingredients and stock items.
// Names that differ only in case or spacing refer to the same ingredient.
func IngredientKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
