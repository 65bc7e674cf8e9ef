package chat

import "time"

// Session is one user's (or one tab's) conversation with the assistant.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
