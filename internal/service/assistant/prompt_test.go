package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhouzirui/jashn-planner/backend/internal/config"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

func TestWithLocation(t *testing.T) {
	if got := WithLocation("hi", nil); got != "hi" {
		t.Fatalf("expected message unchanged, got %q", got)
	}

	got := WithLocation("cafes nearby", &chat.Location{Latitude: -33.8688, Longitude: 151.2093})
	if got != "cafes nearby (My current location is latitude: -33.8688, longitude: 151.2093)" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSystemInstructionIncludesRules(t *testing.T) {
	instruction := PlanPal.SystemInstruction()
	for _, rule := range PlanPal.ContextRules {
		if !strings.Contains(instruction, rule) {
			t.Fatalf("instruction missing rule %q", rule)
		}
	}
}

func TestSuggestionSchemaRequiredFields(t *testing.T) {
	s := SuggestionSchema()
	if s.Items == nil || len(s.Items.Required) != 4 {
		t.Fatalf("unexpected schema %+v", s)
	}
	if got := s.Items.Properties["type"].Enum; len(got) != 4 || got[2] != "Hangout Spot" {
		t.Fatalf("unexpected type enum %v", got)
	}
}

func TestNewProviderRequiresCredentials(t *testing.T) {
	_, err := NewProvider(context.Background(), config.AIConfig{Provider: config.ProviderGemini, Model: "gemini-2.5-flash"}, nil)
	if !errors.Is(err, ErrProviderDisabled) {
		t.Fatalf("expected ErrProviderDisabled, got %v", err)
	}
}

func TestSystemInstructionKeepsJSONOnlyRule(t *testing.T) {
	instruction := PlanPal.SystemInstruction()

	if !strings.HasPrefix(instruction, "You are 'PlanPal', a cheerful and energetic AI assistant") {
		t.Fatalf("unexpected opening %q", instruction)
	}
	want := "\n- When asked for suggestions for places, movies, or activities, you MUST respond ONLY with a JSON object that strictly follows the provided schema. Do not add any text before or after the JSON."
	if !strings.Contains(instruction, want) {
		t.Fatalf("instruction missing JSON-only rule:\n%s", instruction)
	}
	if !strings.Contains(instruction, "tailor your JSON suggestions to match that mood") {
		t.Fatal("instruction missing mood rule")
	}
}

func TestSuggestionSchemaSteersFieldExclusivity(t *testing.T) {
	props := SuggestionSchema().Items.Properties
	if !strings.HasSuffix(props["address"].Description, "Only for 'Restaurant' or 'Hangout Spot'.") {
		t.Fatalf("unexpected address description %q", props["address"].Description)
	}
	if !strings.Contains(props["posterUrl"].Description, "https://image.tmdb.org/t/p/w500/") ||
		!strings.HasSuffix(props["posterUrl"].Description, "Only for 'Movie'.") {
		t.Fatalf("unexpected posterUrl description %q", props["posterUrl"].Description)
	}
	if props["rating"].Description != "A rating out of 5, e.g., 4.5" {
		t.Fatalf("unexpected rating description %q", props["rating"].Description)
	}
}
