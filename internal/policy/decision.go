package policy

import (
	"errors"
	"strings"

	"github.com/Talts01/SocialPizza/internal/models"
)

// Validation errors for moderation decisions. They are caught before any
// remote call is made.
var (
	ErrCommentRequired = errors.New("a rejection requires a comment for the organizer")
	ErrInvalidVerdict  = errors.New("decision must be APPROVED or REJECTED")
)

// Decision is a restaurant owner's verdict on a PENDING event, in the
// form it is transmitted in. Only PENDING events accept a decision and
// both outcomes are terminal.
type Decision struct {
	EventID int64              `json:"-"`
	Verdict models.EventStatus `json:"decision"`
	Comment string             `json:"comment,omitempty"`
}

// NewDecision validates and records a moderation decision. A REJECTED
// verdict requires a non-empty comment; an APPROVED one may omit it.
func NewDecision(eventID int64, verdict models.EventStatus, comment string) (*Decision, error) {
	comment = strings.TrimSpace(comment)

	switch verdict {
	case models.StatusApproved:
	case models.StatusRejected:
		if comment == "" {
			return nil, ErrCommentRequired
		}
	default:
		return nil, ErrInvalidVerdict
	}

	return &Decision{EventID: eventID, Verdict: verdict, Comment: comment}, nil
}
