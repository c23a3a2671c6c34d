package models

// City is a location option for restaurants and filtering.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Restaurant is a partner venue hosting events.
type Restaurant struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address,omitempty"`
	MaxCapacity int         `json:"max_capacity"`
	City        *City       `json:"city,omitempty"`
	Owner       *UserPublic `json:"owner,omitempty"`
}

// OwnedBy reports whether the restaurant belongs to the given user.
func (r *Restaurant) OwnedBy(userID int64) bool {
	return r.Owner != nil && r.Owner.ID == userID
}
