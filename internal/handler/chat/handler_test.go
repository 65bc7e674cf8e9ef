package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/planning"
	"github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	chatservice "github.com/zhouzirui/jashn-planner/backend/internal/service/chat"
	planningservice "github.com/zhouzirui/jashn-planner/backend/internal/service/planning"
)

const suggestionsJSON = `[{"name":"Leopold Cafe","type":"Restaurant","rating":4.3,"reason":"Iconic Colaba adda","address":"Colaba Causeway, Mumbai"}]`

// blockingAssistant holds every reply until release is closed.
type blockingAssistant struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingAssistant) SendMessage(ctx context.Context, _ llm.Conversation, message string, _ *chat.Location) assistant.Result {
	b.started <- struct{}{}
	<-b.release
	return assistant.Result{
		Message: chat.Message{ID: "bot-1", Sender: chat.SenderBot, Text: "done: " + message},
		Kind:    assistant.KindText,
	}
}

func setupRouter(provider *llm.MockProvider) (*chi.Mux, *chatservice.Service) {
	gateway := assistant.NewGateway(provider, nil, assistant.Config{Timeout: time.Second}, nil)
	return setupRouterWith(gateway, gateway.NewConversation, gateway.Greeting())
}

func setupRouterWith(a Assistant, factory chatservice.ConversationFactory, greeting string) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(factory, greeting)
	users := planningservice.NewService(planning.Seed())
	handler := New(chatSvc, a, users, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	resp := doRequest(r, http.MethodPost, "/sessions", map[string]string{"userId": "u1"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Session  chat.Session   `json:"session"`
		Messages []chat.Message `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0].Text != assistant.PlanPal.WelcomeMessage {
		t.Fatalf("expected greeting, got %+v", body.Messages)
	}
	return body.Session.ID
}

func TestCreateSessionValidation(t *testing.T) {
	r, _ := setupRouter(&llm.MockProvider{})

	cases := []struct {
		name string
		body any
		want int
	}{
		{"missing user", map[string]string{}, http.StatusBadRequest},
		{"unknown user", map[string]string{"userId": "nobody"}, http.StatusBadRequest},
		{"bad body", "[]", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := doRequest(r, http.MethodPost, "/sessions", tc.body); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestSendMessageSuggestions(t *testing.T) {
	provider := &llm.MockProvider{JSONResponse: suggestionsJSON}
	r, chatSvc := setupRouter(provider)
	sessionID := createSession(t, r)

	resp := doRequest(r, http.MethodPost, "/sessions/"+sessionID+"/messages", map[string]any{
		"text":     "suggest a cafe",
		"location": map[string]float64{"latitude": 18.9220, "longitude": 72.8347},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body exchangeResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Kind != assistant.KindSuggestions || len(body.Reply.Suggestions) != 1 {
		t.Fatalf("unexpected reply %+v", body)
	}
	if body.UserMessage.Text != "suggest a cafe" {
		t.Fatalf("location must not leak into the stored user message, got %q", body.UserMessage.Text)
	}

	transcript, _ := chatSvc.LoadTranscript(context.Background(), sessionID)
	if len(transcript) != 3 || transcript[2].ID != body.Reply.ID {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
}

func TestSendMessageFallback(t *testing.T) {
	provider := &llm.MockProvider{ChatErr: context.DeadlineExceeded}
	r, _ := setupRouter(provider)
	sessionID := createSession(t, r)

	resp := doRequest(r, http.MethodPost, "/sessions/"+sessionID+"/messages", map[string]string{"text": "hello"})
	var body exchangeResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if resp.Code != http.StatusOK || body.Kind != assistant.KindFallback || body.Reply.Text != assistant.FallbackText {
		t.Fatalf("unexpected response %d %+v", resp.Code, body)
	}
}

func TestSendMessageErrors(t *testing.T) {
	r, _ := setupRouter(&llm.MockProvider{ChatResponse: "hi"})
	sessionID := createSession(t, r)

	if resp := doRequest(r, http.MethodPost, "/sessions/missing/messages", map[string]string{"text": "hi"}); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := doRequest(r, http.MethodPost, "/sessions/"+sessionID+"/messages", map[string]string{"text": "  "}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := doRequest(r, http.MethodGet, "/sessions/missing/messages", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendMessageWithoutAssistant(t *testing.T) {
	r, _ := setupRouterWith(nil, nil, "")
	sessionID := createSessionRaw(t, r)

	if resp := doRequest(r, http.MethodPost, "/sessions/"+sessionID+"/messages", map[string]string{"text": "hi"}); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestConcurrentSendIsRejected(t *testing.T) {
	blocker := &blockingAssistant{started: make(chan struct{}, 1), release: make(chan struct{})}
	provider := &llm.MockProvider{}
	r, _ := setupRouterWith(blocker, func(ctx context.Context) (llm.Conversation, error) {
		return provider.NewConversation(ctx, "system")
	}, "")
	sessionID := createSessionRaw(t, r)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doRequest(r, http.MethodPost, "/sessions/"+sessionID+"/messages", map[string]string{"text": "first"})
	}()
	<-blocker.started

	second := doRequest(r, http.MethodPost, "/sessions/"+sessionID+"/messages", map[string]string{"text": "second"})
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", second.Code)
	}

	close(blocker.release)
	if first := <-done; first.Code != http.StatusOK {
		t.Fatalf("expected first send to succeed, got %d", first.Code)
	}
}

func createSessionRaw(t *testing.T, r http.Handler) string {
	t.Helper()
	resp := doRequest(r, http.MethodPost, "/sessions", map[string]string{"userId": "u2"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var body struct {
		Session chat.Session `json:"session"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return body.Session.ID
}
