package chat

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// LoadingMessageID is the sentinel id of the transient placeholder shown while a reply is pending.
const LoadingMessageID = "loading"

// Message is one entry of a session transcript. A steady-state bot message carries either Text or
// Suggestions, never both.
type Message struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"sessionId,omitempty"`
	Sender      Sender       `json:"sender"`
	Text        string       `json:"text,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	IsLoading   bool         `json:"isLoading,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Placeholder returns the loading message inserted while the assistant is thinking.
func Placeholder(sessionID string) Message {
	return Message{
		ID:        LoadingMessageID,
		SessionID: sessionID,
		Sender:    SenderBot,
		IsLoading: true,
		CreatedAt: time.Now().UTC(),
	}
}

// Location is an optional coordinate pair attached to a user message.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
