package board

import (
	"github.com/Talts01/SocialPizza/internal/models"
)

// List identifies one of the event collections the board tracks.
type List string

const (
	ListPublic       List = "public"
	ListJoined       List = "joined"
	ListMine         List = "mine"
	ListPending      List = "pending"
	ListApprovedMine List = "approved_mine"
)

// Board keeps the event collections a viewer sees, reconciled against
// confirmed action outcomes. It mutates only through Apply and Install
// methods: callers invoke them after the server's response is observed,
// never before, so an event is marked joined only after a successful join
// and no event the server still considers active is dropped. The board
// follows the UI's single-writer model and is not safe for concurrent use.
type Board struct {
	Public       []models.Event // approved events visible to everyone
	Joined       []models.Event // events the viewer participates in
	Mine         []models.Event // events the viewer organized
	Pending      []models.Event // proposals awaiting the owner's decision
	ApprovedMine []models.Event // approved events at the owner's venue

	joinedIDs map[int64]struct{}

	issued    uint64          // last fetch token handed out
	installed map[List]uint64 // newest token installed per list
}

// New creates an empty board.
func New() *Board {
	return &Board{
		joinedIDs: make(map[int64]struct{}),
		installed: make(map[List]uint64),
	}
}

// IsJoined reports whether a successful join has been confirmed (or a
// fetched joined list contains the event).
func (b *Board) IsJoined(eventID int64) bool {
	_, ok := b.joinedIDs[eventID]
	return ok
}

// NextFetch issues a token for an outgoing fetch. Responses install with
// the token they were issued; a superseded fetch completing late is
// discarded instead of overwriting newer results.
func (b *Board) NextFetch() uint64 {
	b.issued++
	return b.issued
}

// Install replaces a list with fetched events if the token is newer than
// the last installed one for that list. Returns whether it applied.
func (b *Board) Install(list List, token uint64, events []models.Event) bool {
	if token <= b.installed[list] {
		return false
	}
	b.installed[list] = token

	switch list {
	case ListPublic:
		b.Public = events
	case ListJoined:
		b.Joined = events
		b.joinedIDs = make(map[int64]struct{}, len(events))
		for i := range events {
			b.joinedIDs[events[i].ID] = struct{}{}
		}
	case ListMine:
		b.Mine = events
	case ListPending:
		b.Pending = events
	case ListApprovedMine:
		b.ApprovedMine = events
	}
	return true
}

// ApplyJoin records a confirmed join: the event id enters the joined set
// and the joined list; the public list is left untouched.
func (b *Board) ApplyJoin(e models.Event) {
	if b.IsJoined(e.ID) {
		return
	}
	b.joinedIDs[e.ID] = struct{}{}
	b.Joined = append(b.Joined, e)
}

// ApplyLeave records a confirmed leave: the event drops out of the
// joined set and the joined list.
func (b *Board) ApplyLeave(eventID int64) {
	delete(b.joinedIDs, eventID)
	b.Joined = remove(b.Joined, eventID)
}

// ApplyWithdraw records a confirmed withdrawal of the viewer's own
// pending proposal.
func (b *Board) ApplyWithdraw(eventID int64) {
	b.Mine = remove(b.Mine, eventID)
}

// ApplyDecision records a confirmed moderation decision: the event leaves
// the pending list. An approved event becomes visible in the public list
// on the next refetch; nothing is added locally.
func (b *Board) ApplyDecision(eventID int64) {
	b.Pending = remove(b.Pending, eventID)
}

// ApplyDelete records a confirmed deletion (admin delete or restaurateur
// cancel): the event disappears from every list that displays it.
func (b *Board) ApplyDelete(eventID int64) {
	b.Public = remove(b.Public, eventID)
	b.Joined = remove(b.Joined, eventID)
	b.Mine = remove(b.Mine, eventID)
	b.Pending = remove(b.Pending, eventID)
	b.ApprovedMine = remove(b.ApprovedMine, eventID)
	delete(b.joinedIDs, eventID)
}

func remove(events []models.Event, id int64) []models.Event {
	for i := range events {
		if events[i].ID == id {
			return append(events[:i:i], events[i+1:]...)
		}
	}
	return events
}
