package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/planning"
	"github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/jashn-planner/backend/internal/service/chat"
	planningService "github.com/zhouzirui/jashn-planner/backend/internal/service/planning"
)

func newTestRouter() http.Handler {
	gateway := assistant.NewGateway(&llm.MockProvider{ChatResponse: "Masti time!"}, nil, assistant.Config{}, nil)
	return NewRouter(Dependencies{
		Planning:  planningService.NewService(planning.Seed()),
		Chat:      chatService.NewService(gateway.NewConversation, gateway.Greeting()),
		Assistant: gateway,
	})
}

func TestHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRoutesMountedUnderAPI(t *testing.T) {
	r := newTestRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for /api/users, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS headers on API responses")
	}

	payload, _ := json.Marshal(map[string]string{"userId": "u1"})
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(payload)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for /api/sessions, got %d", resp.Code)
	}
}
