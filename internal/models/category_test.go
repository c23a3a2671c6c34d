package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func names(categories []Category) []string {
	out := make([]string, len(categories))
	for i := range categories {
		out[i] = categories[i].Name
	}
	return out
}

func TestSortCategories(t *testing.T) {
	t.Run("catch-all sorts last", func(t *testing.T) {
		cats := []Category{{Name: "Zeta"}, {Name: "Altro"}, {Name: "Alpha"}}
		SortCategories(cats)
		require.Equal(t, []string{"Alpha", "Zeta", "Altro"}, names(cats))
	})

	t.Run("catch-all comparison is case-insensitive", func(t *testing.T) {
		cats := []Category{{Name: "altro"}, {Name: "Birra"}}
		SortCategories(cats)
		require.Equal(t, []string{"Birra", "altro"}, names(cats))
	})

	t.Run("without catch-all is plain lexicographic", func(t *testing.T) {
		cats := []Category{{Name: "Pizza"}, {Name: "Fritti"}, {Name: "Dolci"}}
		SortCategories(cats)
		require.Equal(t, []string{"Dolci", "Fritti", "Pizza"}, names(cats))
	})

	t.Run("empty and single", func(t *testing.T) {
		SortCategories(nil)
		one := []Category{{Name: "Altro"}}
		SortCategories(one)
		require.Equal(t, []string{"Altro"}, names(one))
	})
}
