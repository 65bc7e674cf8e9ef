package planning

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/jashn-planner/backend/internal/model/planning"
	planningService "github.com/zhouzirui/jashn-planner/backend/internal/service/planning"
)

func setupRouter() *chi.Mux {
	handler := New(planningService.NewService(model.Seed()))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
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

func TestListGroupsIncludesSelection(t *testing.T) {
	resp := doRequest(setupRouter(), http.MethodGet, "/groups", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Groups          []model.Group `json:"groups"`
		SelectedGroupID string        `json:"selectedGroupId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Groups) != 3 || body.SelectedGroupID != "g1" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSelectGroup(t *testing.T) {
	r := setupRouter()

	if resp := doRequest(r, http.MethodPost, "/groups/g3/select", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := doRequest(r, http.MethodPost, "/groups/nope/select", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestGroupScopedLists(t *testing.T) {
	r := setupRouter()

	resp := doRequest(r, http.MethodGet, "/groups/g3/polls", nil)
	var polls struct {
		Polls []model.Poll `json:"polls"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &polls)
	if len(polls.Polls) != 1 || polls.Polls[0].ID != "p1" {
		t.Fatalf("unexpected polls %+v", polls)
	}

	resp = doRequest(r, http.MethodGet, "/groups/g3/events", nil)
	var events struct {
		Events []model.Event `json:"events"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &events)
	if resp.Code != http.StatusOK || len(events.Events) != 0 {
		t.Fatalf("expected empty events list, got %d %+v", resp.Code, events)
	}

	if resp := doRequest(r, http.MethodGet, "/groups/missing/events", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestVoteToggleOverHTTP(t *testing.T) {
	r := setupRouter()
	body := map[string]string{"optionId": "o3", "userId": "u4"}

	resp := doRequest(r, http.MethodPost, "/polls/p1/votes", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var poll model.Poll
	_ = json.Unmarshal(resp.Body.Bytes(), &poll)
	if got := poll.Options[2].Votes; len(got) != 1 || got[0] != "u4" {
		t.Fatalf("expected u4 on o3, got %v", got)
	}

	resp = doRequest(r, http.MethodPost, "/polls/p1/votes", body)
	_ = json.Unmarshal(resp.Body.Bytes(), &poll)
	if len(poll.Options[2].Votes) != 0 {
		t.Fatalf("expected vote toggled off, got %v", poll.Options[2].Votes)
	}

	var totals struct {
		TotalVotes int `json:"totalVotes"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &totals)
	if totals.TotalVotes != 3 {
		t.Fatalf("expected totalVotes 3 after toggling off, got %d", totals.TotalVotes)
	}
}

func TestVoteErrors(t *testing.T) {
	r := setupRouter()
	cases := []struct {
		name string
		path string
		body any
		want int
	}{
		{"unknown poll", "/polls/p9/votes", map[string]string{"optionId": "o1", "userId": "u1"}, http.StatusNotFound},
		{"unknown option", "/polls/p1/votes", map[string]string{"optionId": "o9", "userId": "u1"}, http.StatusNotFound},
		{"unknown user", "/polls/p1/votes", map[string]string{"optionId": "o1", "userId": "zz"}, http.StatusBadRequest},
		{"missing user", "/polls/p1/votes", map[string]string{"optionId": "o1"}, http.StatusBadRequest},
		{"missing option", "/polls/p1/votes", map[string]string{"userId": "u1"}, http.StatusBadRequest},
		{"bad body", "/polls/p1/votes", "not-an-object", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := doRequest(r, http.MethodPost, tc.path, tc.body); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}
