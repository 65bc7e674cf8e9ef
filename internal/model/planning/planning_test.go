package planning

import (
	"encoding/json"
	"testing"
)

func TestPollJSONIncludesTotalVotes(t *testing.T) {
	poll := Seed().Polls[0]

	data, err := json.Marshal(poll)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}

	var body struct {
		ID         string       `json:"id"`
		Options    []PollOption `json:"options"`
		TotalVotes int          `json:"totalVotes"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}
	if body.ID != "p1" || len(body.Options) != 3 {
		t.Fatalf("unexpected poll body %s", data)
	}
	if body.TotalVotes != 3 {
		t.Fatalf("expected totalVotes 3, got %d", body.TotalVotes)
	}
}
