package chat

import "time"

// Session captures a transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
	// Pending counts replies scheduled but not yet delivered.
	Pending int `json:"pending"`
}

// Typing reports whether the assistant has a reply in flight.
func (s Session) Typing() bool {
	return s.Pending > 0
}
