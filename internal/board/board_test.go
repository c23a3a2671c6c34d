package board

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Talts01/SocialPizza/internal/models"
)

func approvedEvent(id int64) models.Event {
	return models.Event{
		ID:         id,
		Status:     models.StatusApproved,
		Restaurant: models.Restaurant{ID: 1, Name: "Da Mario"},
	}
}

func TestInstallDiscardsStaleFetch(t *testing.T) {
	b := New()

	first := b.NextFetch()
	second := b.NextFetch()

	// the later fetch responds first
	require.True(t, b.Install(ListPublic, second, []models.Event{approvedEvent(1), approvedEvent(2)}))
	require.Len(t, b.Public, 2)

	// the superseded response arrives late and is discarded
	require.False(t, b.Install(ListPublic, first, []models.Event{approvedEvent(99)}))
	require.Len(t, b.Public, 2)
	require.Equal(t, int64(1), b.Public[0].ID)
}

func TestInstallTokensAreIndependentPerList(t *testing.T) {
	b := New()

	publicToken := b.NextFetch()
	joinedToken := b.NextFetch()

	require.True(t, b.Install(ListJoined, joinedToken, []models.Event{approvedEvent(7)}))
	// the public fetch has an older token but targets another list
	require.True(t, b.Install(ListPublic, publicToken, []models.Event{approvedEvent(1)}))
}

func TestInstallJoinedRebuildsJoinedSet(t *testing.T) {
	b := New()
	b.ApplyJoin(approvedEvent(3))
	require.True(t, b.IsJoined(3))

	token := b.NextFetch()
	b.Install(ListJoined, token, []models.Event{approvedEvent(7)})

	require.True(t, b.IsJoined(7))
	require.False(t, b.IsJoined(3))
}

func TestApplyJoin(t *testing.T) {
	b := New()
	token := b.NextFetch()
	b.Install(ListPublic, token, []models.Event{approvedEvent(7), approvedEvent(8)})

	b.ApplyJoin(approvedEvent(7))

	require.True(t, b.IsJoined(7))
	require.Len(t, b.Joined, 1)
	// the public list is untouched
	require.Len(t, b.Public, 2)

	// joining twice does not duplicate
	b.ApplyJoin(approvedEvent(7))
	require.Len(t, b.Joined, 1)
}

func TestApplyLeave(t *testing.T) {
	b := New()
	b.ApplyJoin(approvedEvent(7))
	b.ApplyJoin(approvedEvent(8))

	b.ApplyLeave(7)

	require.False(t, b.IsJoined(7))
	require.True(t, b.IsJoined(8))
	require.Equal(t, int64(8), b.Joined[0].ID)
}

func TestApplyWithdraw(t *testing.T) {
	b := New()
	token := b.NextFetch()
	pending := models.Event{ID: 5, Status: models.StatusPending}
	b.Install(ListMine, token, []models.Event{pending, approvedEvent(6)})

	b.ApplyWithdraw(5)

	require.Len(t, b.Mine, 1)
	require.Equal(t, int64(6), b.Mine[0].ID)
}

func TestApplyDecision(t *testing.T) {
	b := New()
	token := b.NextFetch()
	b.Install(ListPending, token, []models.Event{
		{ID: 9, Status: models.StatusPending},
		{ID: 10, Status: models.StatusPending},
	})

	b.ApplyDecision(9)

	require.Len(t, b.Pending, 1)
	require.Equal(t, int64(10), b.Pending[0].ID)
	// nothing is added anywhere else; the next refetch brings it back
	require.Empty(t, b.Public)
}

func TestApplyDeleteDropsEventEverywhere(t *testing.T) {
	b := New()
	e := approvedEvent(3)
	b.Install(ListPublic, b.NextFetch(), []models.Event{e, approvedEvent(4)})
	b.Install(ListMine, b.NextFetch(), []models.Event{e})
	b.ApplyJoin(e)

	b.ApplyDelete(3)

	require.Empty(t, b.Joined)
	require.Empty(t, b.Mine)
	require.False(t, b.IsJoined(3))
	require.Len(t, b.Public, 1)
	require.Equal(t, int64(4), b.Public[0].ID)
}
