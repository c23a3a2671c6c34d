package models

import (
	"sort"
	"strings"
)

// CatchAllCategory is the display label of the catch-all category; it
// always sorts after every other category.
const CatchAllCategory = "Altro"

// Category classifies events (pizza night, birthday, ...).
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SortCategories orders categories lexicographically by name, with the
// catch-all category ("Altro", case-insensitive) last.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		ci := strings.EqualFold(categories[i].Name, CatchAllCategory)
		cj := strings.EqualFold(categories[j].Name, CatchAllCategory)
		if ci != cj {
			return cj
		}
		return categories[i].Name < categories[j].Name
	})
}
