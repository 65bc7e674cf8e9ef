package llm

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockProvider lets tests run without calling a real model.
type MockProvider struct {
	mu sync.Mutex

	JSONResponse string
	JSONErr      error
	ChatResponse string
	ChatErr      error
	ConvErr      error

	// FailFirst makes the first n calls (JSON or chat) fail with JSONErr or ChatErr before succeeding.
	FailFirst int

	Prompts      []string
	ChatMessages []string
	Systems      []string
	LastSchema   *Schema
	Calls        int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	m.LastSchema = schema
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.JSONErr != nil && (m.FailFirst == 0 || m.Calls <= m.FailFirst) {
		return "", m.JSONErr
	}
	return m.JSONResponse, nil
}

func (m *MockProvider) NewConversation(_ context.Context, systemInstruction string) (Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ConvErr != nil {
		return nil, m.ConvErr
	}
	m.Systems = append(m.Systems, systemInstruction)
	return Synchronized(&mockConversation{id: uuid.NewString(), provider: m}), nil
}

type mockConversation struct {
	id       string
	provider *MockProvider
	history  []Turn
}

func (c *mockConversation) ID() string { return c.id }

func (c *mockConversation) Send(ctx context.Context, text string) (string, error) {
	m := c.provider
	m.mu.Lock()
	m.Calls++
	m.ChatMessages = append(m.ChatMessages, text)
	calls := m.Calls
	resp, respErr := m.ChatResponse, m.ChatErr
	failFirst := m.FailFirst
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if respErr != nil && (failFirst == 0 || calls <= failFirst) {
		return "", respErr
	}

	c.history = append(c.history, Turn{Role: RoleUser, Text: text}, Turn{Role: RoleModel, Text: resp})
	return resp, nil
}

func (c *mockConversation) History() []Turn {
	return append([]Turn(nil), c.history...)
}
