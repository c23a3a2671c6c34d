// Package board holds the client-visible event collections: a stable
// filter over fetched events and the reconciliation of confirmed action
// outcomes, so the displayed lists stay consistent without a full refetch.
package board

import (
	"strings"
	"time"

	"github.com/Talts01/SocialPizza/internal/models"
)

// Filter is a specification for narrowing an event collection.
// Zero ids mean "any"; date criteria select their mode by which fields
// are populated: On matches a single calendar day, From/To an inclusive
// day range.
type Filter struct {
	Text       string
	CategoryID int64
	CityID     int64
	On         *time.Time
	From       *time.Time
	To         *time.Time
}

// Empty reports whether no criterion is active.
func (f Filter) Empty() bool {
	return f.Text == "" && f.CategoryID == 0 && f.CityID == 0 &&
		f.On == nil && f.From == nil && f.To == nil
}

// Matches reports whether the event satisfies every active criterion.
// Text matches case-insensitively against title, description and
// restaurant name (substring, not tokenized).
func (f Filter) Matches(e *models.Event) bool {
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) &&
			!strings.Contains(strings.ToLower(e.Restaurant.Name), needle) {
			return false
		}
	}
	if f.CategoryID != 0 && e.Category.ID != f.CategoryID {
		return false
	}
	if f.CityID != 0 {
		if e.Restaurant.City == nil || e.Restaurant.City.ID != f.CityID {
			return false
		}
	}
	if f.On != nil && !sameDay(e.EventDate, *f.On) {
		return false
	}
	if f.From != nil && dayOf(e.EventDate).Before(dayOf(*f.From)) {
		return false
	}
	if f.To != nil && dayOf(e.EventDate).After(dayOf(*f.To)) {
		return false
	}
	return true
}

// Apply returns the ordered subset of events matching the filter,
// preserving relative order. An empty filter returns the input as-is.
func Apply(events []models.Event, f Filter) []models.Event {
	if f.Empty() {
		return events
	}
	out := make([]models.Event, 0, len(events))
	for i := range events {
		if f.Matches(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
