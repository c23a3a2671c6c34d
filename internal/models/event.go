package models

import (
	"time"
)

// EventStatus is the lifecycle state of an event proposal.
type EventStatus string

const (
	StatusPending  EventStatus = "PENDING"
	StatusApproved EventStatus = "APPROVED"
	StatusRejected EventStatus = "REJECTED"
)

// Terminal reports whether no further moderation decision applies.
// Transitions only leave PENDING; APPROVED and REJECTED never go back.
func (s EventStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Event represents a proposed or confirmed group dining occasion.
type Event struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	EventDate        time.Time   `json:"event_date"`
	MaxParticipants  int         `json:"max_participants"`
	Status           EventStatus `json:"status"`
	RejectionReason  string      `json:"rejection_reason,omitempty"`
	ModeratorComment string      `json:"moderator_comment,omitempty"`
	DecisionAt       *time.Time  `json:"decision_at,omitempty"`
	Category         Category    `json:"category"`
	Restaurant       Restaurant  `json:"restaurant"`
	Organizer        UserPublic  `json:"organizer"`
	ParticipantCount int         `json:"participant_count"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Full reports whether the event has no seats left.
func (e *Event) Full() bool {
	return e.ParticipantCount >= e.MaxParticipants
}
