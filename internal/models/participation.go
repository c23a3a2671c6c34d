package models

import (
	"time"
)

// Participation links a user to an event they joined.
type Participation struct {
	ID           int64      `json:"id"`
	EventID      int64      `json:"event_id"`
	UserID       int64      `json:"user_id"`
	User         UserPublic `json:"user"`
	RegisteredAt time.Time  `json:"registered_at"`
}
