// Package policy decides which actions a viewer may take on an event.
// It is pure: callers pass the viewer explicitly, issue the matching
// remote call themselves, and update local state only on success.
package policy

import (
	"errors"

	"github.com/Talts01/SocialPizza/internal/models"
)

// Action is something a viewer can do with an event.
type Action string

const (
	ActionJoin          Action = "join"
	ActionLeave         Action = "leave"
	ActionWithdraw      Action = "withdraw"
	ActionViewComment   Action = "view_moderator_comment"
	ActionViewRejection Action = "view_rejection_reason"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionCancel        Action = "cancel"
	ActionDelete        Action = "delete"
)

// Relation is the viewer's relationship to a given event.
type Relation string

const (
	RelationNone        Relation = "none"
	RelationParticipant Relation = "participant"
	RelationOrganizer   Relation = "organizer"
)

// Viewer is the authenticated identity evaluating an event.
// RestaurantID is the restaurant the viewer owns (0 if none); only
// meaningful for RESTAURATEUR.
type Viewer struct {
	ID           int64
	Role         models.Role
	RestaurantID int64
}

// OwnsVenue reports whether the viewer owns the restaurant hosting e.
func (v Viewer) OwnsVenue(e *models.Event) bool {
	return v.Role == models.RoleRestaurateur && v.RestaurantID != 0 && v.RestaurantID == e.Restaurant.ID
}

// ActionSet is the set of permitted actions.
type ActionSet map[Action]struct{}

// Has reports whether the set contains a.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

func (s ActionSet) add(a Action) { s[a] = struct{}{} }

// RelationOf derives the viewer's relation to an event from identity and
// the confirmed joined state. Organizer wins over participant.
func RelationOf(viewerID int64, e *models.Event, joined bool) Relation {
	if e.Organizer.ID == viewerID {
		return RelationOrganizer
	}
	if joined {
		return RelationParticipant
	}
	return RelationNone
}

// ActionsFor returns the permitted action set for a viewer with the given
// relation to the event. A full event never offers join; everything else
// follows from role, relation and status alone.
func ActionsFor(v Viewer, rel Relation, e *models.Event) ActionSet {
	actions := make(ActionSet)

	switch v.Role {
	case models.RoleUser:
		switch rel {
		case RelationNone:
			if e.Status == models.StatusApproved && !e.Full() {
				actions.add(ActionJoin)
			}
		case RelationParticipant:
			if e.Status == models.StatusApproved {
				actions.add(ActionLeave)
			}
		case RelationOrganizer:
			switch e.Status {
			case models.StatusPending:
				actions.add(ActionWithdraw)
			case models.StatusApproved:
				actions.add(ActionViewComment)
			case models.StatusRejected:
				actions.add(ActionViewRejection)
			}
		}

	case models.RoleRestaurateur:
		if v.OwnsVenue(e) {
			switch e.Status {
			case models.StatusPending:
				actions.add(ActionApprove)
				actions.add(ActionReject)
			case models.StatusApproved:
				actions.add(ActionCancel)
			}
		}

	case models.RoleAdmin:
		actions.add(ActionDelete)
	}

	return actions
}

// Ineligible-action errors. They are surfaced to the viewer as text and
// never fatal to the session.
var (
	ErrNotApproved   = errors.New("event is not open for registration")
	ErrAlreadyJoined = errors.New("already registered for this event")
	ErrEventFull     = errors.New("event is sold out")
	ErrNotOrganizer  = errors.New("only the organizer may do this")
	ErrNotPending    = errors.New("only pending proposals can be withdrawn")
	ErrNotOwner      = errors.New("only the restaurant owner may decide")
)

// CheckJoin validates a join attempt: the event must be APPROVED, the
// viewer not yet a participant, and a seat must be free.
func CheckJoin(joined bool, e *models.Event) error {
	if e.Status != models.StatusApproved {
		return ErrNotApproved
	}
	if joined {
		return ErrAlreadyJoined
	}
	if e.Full() {
		return ErrEventFull
	}
	return nil
}

// CheckWithdraw validates an organizer withdrawing a proposal.
func CheckWithdraw(viewerID int64, e *models.Event) error {
	if e.Organizer.ID != viewerID {
		return ErrNotOrganizer
	}
	if e.Status != models.StatusPending {
		return ErrNotPending
	}
	return nil
}
