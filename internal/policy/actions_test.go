package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Talts01/SocialPizza/internal/models"
)

func makeEvent(id int64, status models.EventStatus, organizerID, restaurantID int64, count, max int) *models.Event {
	return &models.Event{
		ID:               id,
		Title:            "Pizzata di prova",
		Status:           status,
		MaxParticipants:  max,
		ParticipantCount: count,
		Restaurant:       models.Restaurant{ID: restaurantID, Name: "Da Mario"},
		Organizer:        models.UserPublic{ID: organizerID, Role: models.RoleUser},
	}
}

func TestRelationOf(t *testing.T) {
	e := makeEvent(1, models.StatusApproved, 10, 1, 0, 8)

	require.Equal(t, RelationOrganizer, RelationOf(10, e, false))
	// organizer wins even when joined
	require.Equal(t, RelationOrganizer, RelationOf(10, e, true))
	require.Equal(t, RelationParticipant, RelationOf(20, e, true))
	require.Equal(t, RelationNone, RelationOf(20, e, false))
}

func TestActionsForUser(t *testing.T) {
	viewer := Viewer{ID: 20, Role: models.RoleUser}

	t.Run("approved with free seat offers join", func(t *testing.T) {
		e := makeEvent(1, models.StatusApproved, 10, 1, 3, 8)
		actions := ActionsFor(viewer, RelationNone, e)
		require.True(t, actions.Has(ActionJoin))
		require.Len(t, actions, 1)
	})

	t.Run("sold out never offers join", func(t *testing.T) {
		e := makeEvent(1, models.StatusApproved, 10, 1, 8, 8)
		actions := ActionsFor(viewer, RelationNone, e)
		require.False(t, actions.Has(ActionJoin))
		require.Empty(t, actions)
	})

	t.Run("pending offers nothing to a stranger", func(t *testing.T) {
		e := makeEvent(1, models.StatusPending, 10, 1, 0, 8)
		require.Empty(t, ActionsFor(viewer, RelationNone, e))
	})

	t.Run("participant of approved event can leave", func(t *testing.T) {
		e := makeEvent(1, models.StatusApproved, 10, 1, 3, 8)
		actions := ActionsFor(viewer, RelationParticipant, e)
		require.True(t, actions.Has(ActionLeave))
		require.False(t, actions.Has(ActionJoin))
	})

	t.Run("organizer actions follow status", func(t *testing.T) {
		org := Viewer{ID: 10, Role: models.RoleUser}

		pending := makeEvent(1, models.StatusPending, 10, 1, 0, 8)
		require.True(t, ActionsFor(org, RelationOrganizer, pending).Has(ActionWithdraw))

		approved := makeEvent(2, models.StatusApproved, 10, 1, 0, 8)
		require.True(t, ActionsFor(org, RelationOrganizer, approved).Has(ActionViewComment))

		rejected := makeEvent(3, models.StatusRejected, 10, 1, 0, 8)
		require.True(t, ActionsFor(org, RelationOrganizer, rejected).Has(ActionViewRejection))
	})
}

func TestActionsForRestaurateur(t *testing.T) {
	owner := Viewer{ID: 30, Role: models.RoleRestaurateur, RestaurantID: 1}
	other := Viewer{ID: 31, Role: models.RoleRestaurateur, RestaurantID: 2}

	pending := makeEvent(1, models.StatusPending, 10, 1, 0, 8)
	actions := ActionsFor(owner, RelationNone, pending)
	require.True(t, actions.Has(ActionApprove))
	require.True(t, actions.Has(ActionReject))

	approved := makeEvent(2, models.StatusApproved, 10, 1, 0, 8)
	require.True(t, ActionsFor(owner, RelationNone, approved).Has(ActionCancel))

	rejected := makeEvent(3, models.StatusRejected, 10, 1, 0, 8)
	require.Empty(t, ActionsFor(owner, RelationNone, rejected))

	// another venue's owner gets nothing
	require.Empty(t, ActionsFor(other, RelationNone, pending))
	require.Empty(t, ActionsFor(other, RelationNone, approved))
}

func TestActionsForAdmin(t *testing.T) {
	admin := Viewer{ID: 1, Role: models.RoleAdmin}
	for _, status := range []models.EventStatus{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		e := makeEvent(1, status, 10, 1, 0, 8)
		actions := ActionsFor(admin, RelationNone, e)
		require.True(t, actions.Has(ActionDelete), "admin can delete %s events", status)
		require.Len(t, actions, 1)
	}
}

func TestCheckJoin(t *testing.T) {
	e := makeEvent(1, models.StatusApproved, 10, 1, 3, 8)
	require.NoError(t, CheckJoin(false, e))
	require.ErrorIs(t, CheckJoin(true, e), ErrAlreadyJoined)

	pending := makeEvent(2, models.StatusPending, 10, 1, 0, 8)
	require.ErrorIs(t, CheckJoin(false, pending), ErrNotApproved)

	full := makeEvent(3, models.StatusApproved, 10, 1, 8, 8)
	require.ErrorIs(t, CheckJoin(false, full), ErrEventFull)
}

func TestCheckWithdraw(t *testing.T) {
	pending := makeEvent(1, models.StatusPending, 10, 1, 0, 8)
	require.NoError(t, CheckWithdraw(10, pending))
	require.ErrorIs(t, CheckWithdraw(20, pending), ErrNotOrganizer)

	approved := makeEvent(2, models.StatusApproved, 10, 1, 0, 8)
	require.ErrorIs(t, CheckWithdraw(10, approved), ErrNotPending)
}
