package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// Provider is a hosted model reachable in two modes: one-shot structured output and stateful chat.
type Provider interface {
	// Name identifies the backend in logs.
	Name() string
	// GenerateJSON issues a single stateless request constrained to schema and returns the raw text.
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
	// NewConversation opens a chat session that keeps prior turns as context.
	NewConversation(ctx context.Context, systemInstruction string) (Conversation, error)
}

// Conversation is a stateful chat handle. Each successful Send appends to its history.
type Conversation interface {
	ID() string
	Send(ctx context.Context, text string) (string, error)
	History() []Turn
}

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a conversation history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Synchronized serializes access to a conversation so concurrent senders cannot interleave
// history updates. Wrapping an already synchronized conversation returns it unchanged.
func Synchronized(conv Conversation) Conversation {
	if conv == nil {
		return nil
	}
	if _, ok := conv.(*lockedConversation); ok {
		return conv
	}
	return &lockedConversation{inner: conv}
}

type lockedConversation struct {
	mu    sync.Mutex
	inner Conversation
}

func (c *lockedConversation) ID() string {
	return c.inner.ID()
}

func (c *lockedConversation) Send(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Send(ctx, text)
}

func (c *lockedConversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.History()
}
