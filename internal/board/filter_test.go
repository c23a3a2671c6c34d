package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Talts01/SocialPizza/internal/models"
)

func date(day int) time.Time {
	return time.Date(2026, time.September, day, 20, 30, 0, 0, time.UTC)
}

func sampleEvents() []models.Event {
	milano := &models.City{ID: 1, Name: "Milano"}
	torino := &models.City{ID: 2, Name: "Torino"}
	return []models.Event{
		{
			ID: 1, Title: "Serata Margherita", Description: "pizza classica",
			EventDate:  date(5),
			Category:   models.Category{ID: 1, Name: "Pizza"},
			Restaurant: models.Restaurant{ID: 1, Name: "Da Mario", City: milano},
		},
		{
			ID: 2, Title: "Gran fritto misto", Description: "per chi ama il fritto",
			EventDate:  date(8),
			Category:   models.Category{ID: 2, Name: "Fritti"},
			Restaurant: models.Restaurant{ID: 2, Name: "Osteria del Porto", City: torino},
		},
		{
			ID: 3, Title: "Pizza gourmet", Description: "degustazione",
			EventDate:  date(12),
			Category:   models.Category{ID: 1, Name: "Pizza"},
			Restaurant: models.Restaurant{ID: 3, Name: "La Brace", City: milano},
		},
	}
}

func ids(events []models.Event) []int64 {
	out := make([]int64, len(events))
	for i := range events {
		out[i] = events[i].ID
	}
	return out
}

func TestApplyEmptyFilterIsIdentity(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Filter{})
	require.Equal(t, events, got)
	// same backing slice, not a copy
	require.Equal(t, &events[0], &got[0])
}

func TestApplyText(t *testing.T) {
	events := sampleEvents()

	t.Run("title match is case-insensitive", func(t *testing.T) {
		require.Equal(t, []int64{1, 3}, ids(Apply(events, Filter{Text: "PIZZA"})))
	})

	t.Run("description matches too", func(t *testing.T) {
		require.Equal(t, []int64{2}, ids(Apply(events, Filter{Text: "fritto"})))
	})

	t.Run("restaurant name matches", func(t *testing.T) {
		require.Equal(t, []int64{1}, ids(Apply(events, Filter{Text: "mario"})))
	})

	t.Run("no match yields empty", func(t *testing.T) {
		require.Empty(t, Apply(events, Filter{Text: "sushi"}))
	})
}

func TestApplyCategoryAndCity(t *testing.T) {
	events := sampleEvents()

	require.Equal(t, []int64{1, 3}, ids(Apply(events, Filter{CategoryID: 1})))
	require.Equal(t, []int64{2}, ids(Apply(events, Filter{CityID: 2})))
	require.Equal(t, []int64{1, 3}, ids(Apply(events, Filter{CategoryID: 1, CityID: 1})))

	t.Run("missing city never matches a city filter", func(t *testing.T) {
		noCity := []models.Event{{ID: 9, Restaurant: models.Restaurant{ID: 9}}}
		require.Empty(t, Apply(noCity, Filter{CityID: 1}))
	})
}

func TestApplyDates(t *testing.T) {
	events := sampleEvents()

	t.Run("single day", func(t *testing.T) {
		on := date(8)
		require.Equal(t, []int64{2}, ids(Apply(events, Filter{On: &on})))
	})

	t.Run("day comparison ignores time of day", func(t *testing.T) {
		on := time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC)
		require.Equal(t, []int64{2}, ids(Apply(events, Filter{On: &on})))
	})

	t.Run("inclusive range", func(t *testing.T) {
		from, to := date(5), date(8)
		require.Equal(t, []int64{1, 2}, ids(Apply(events, Filter{From: &from, To: &to})))
	})

	t.Run("open-ended range", func(t *testing.T) {
		from := date(8)
		require.Equal(t, []int64{2, 3}, ids(Apply(events, Filter{From: &from})))
	})
}

func TestApplyIsIdempotent(t *testing.T) {
	events := sampleEvents()
	f := Filter{CategoryID: 1}

	once := Apply(events, f)
	twice := Apply(once, f)
	require.Equal(t, once, twice)
}

func TestApplyPreservesOrder(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Filter{Text: "a"}) // matches all three
	require.Equal(t, []int64{1, 2, 3}, ids(got))
}
