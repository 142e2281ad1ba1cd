package models

import "time"

// ChatRecord is a persisted conversation turn on the backend side, keyed by
// session token.
type ChatRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Origin    Origin    `json:"origin"`
	Text      string    `json:"text"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
