package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

var (
	ErrUserRequired            = errors.New("user id is required")
	ErrSessionNotFound         = errors.New("session not found")
	ErrEmptyMessage            = errors.New("message text is required")
	ErrReplyInFlight           = errors.New("a reply is already in progress for this session")
	ErrNoPendingReply          = errors.New("no reply is pending for this session")
	ErrConversationUnavailable = errors.New("assistant conversation unavailable")
)

// ConversationFactory opens the assistant conversation owned by a new session.
type ConversationFactory func(ctx context.Context) (llm.Conversation, error)

type sessionState struct {
	session      chat.Session
	conversation llm.Conversation
	messages     []chat.Message
}

// Service keeps session transcripts and their assistant conversations in memory.
type Service struct {
	mu              sync.RWMutex
	sessions        map[string]*sessionState
	newConversation ConversationFactory
	greeting        string
}

// NewService builds the chat service. greeting, when set, opens every transcript.
func NewService(newConversation ConversationFactory, greeting string) *Service {
	return &Service{
		sessions:        make(map[string]*sessionState),
		newConversation: newConversation,
		greeting:        greeting,
	}
}

// CreateSession provisions a session for userID with its own conversation and returns it with the
// initial transcript.
func (s *Service) CreateSession(ctx context.Context, userID string) (chat.Session, []chat.Message, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return chat.Session{}, nil, ErrUserRequired
	}

	var conv llm.Conversation
	if s.newConversation != nil {
		var err error
		conv, err = s.newConversation(ctx)
		if err != nil {
			return chat.Session{}, nil, fmt.Errorf("%w: %v", ErrConversationUnavailable, err)
		}
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	state := &sessionState{
		session:      session,
		conversation: conv,
		messages:     make([]chat.Message, 0, 16),
	}
	if s.greeting != "" {
		state.messages = append(state.messages, chat.Message{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Sender:    chat.SenderBot,
			Text:      s.greeting,
			CreatedAt: session.CreatedAt,
		})
	}

	s.mu.Lock()
	s.sessions[session.ID] = state
	s.mu.Unlock()

	return session, cloneMessages(state.messages), nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return state.session, nil
}

// Conversation returns the assistant conversation bound to a session.
func (s *Service) Conversation(_ context.Context, sessionID string) (llm.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state.conversation, nil
}

// StartExchange appends the user message and the placeholder in one step, so two concurrent
// senders cannot both get a message in before one of them is rejected.
func (s *Service) StartExchange(_ context.Context, sessionID, text string) (chat.Message, chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.pendingFree(sessionID)
	if err != nil {
		return chat.Message{}, chat.Message{}, err
	}
	user, err := state.appendUser(text)
	if err != nil {
		return chat.Message{}, chat.Message{}, err
	}
	return user, state.appendPlaceholder(), nil
}

// ResolveReply removes the placeholder and appends the final bot message.
func (s *Service) ResolveReply(_ context.Context, sessionID string, reply chat.Message) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	idx := state.placeholderIndex()
	if idx < 0 {
		return chat.Message{}, ErrNoPendingReply
	}
	state.messages = append(state.messages[:idx], state.messages[idx+1:]...)

	if reply.ID == "" || reply.ID == chat.LoadingMessageID {
		reply.ID = uuid.NewString()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	reply.SessionID = sessionID
	reply.Sender = chat.SenderBot
	reply.IsLoading = false

	state.messages = append(state.messages, reply)
	return reply, nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneMessages(state.messages), nil
}

func (s *Service) pendingFree(sessionID string) (*sessionState, error) {
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if state.placeholderIndex() >= 0 {
		return nil, ErrReplyInFlight
	}
	return state, nil
}

func (st *sessionState) appendUser(text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: st.session.ID,
		Sender:    chat.SenderUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	st.messages = append(st.messages, msg)
	return msg, nil
}

func (st *sessionState) appendPlaceholder() chat.Message {
	placeholder := chat.Placeholder(st.session.ID)
	st.messages = append(st.messages, placeholder)
	return placeholder
}

func (st *sessionState) placeholderIndex() int {
	for i := len(st.messages) - 1; i >= 0; i-- {
		if st.messages[i].ID == chat.LoadingMessageID {
			return i
		}
	}
	return -1
}

func cloneMessages(messages []chat.Message) []chat.Message {
	copied := make([]chat.Message, len(messages))
	for i, msg := range messages {
		if msg.Suggestions != nil {
			msg.Suggestions = append([]chat.Suggestion(nil), msg.Suggestions...)
		}
		copied[i] = msg
	}
	return copied
}
