package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// CleanJSONResponse strips a BOM and surrounding markdown code fences from model output.
func CleanJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// rawSuggestion uses pointers so missing required fields can be told apart from zero values.
type rawSuggestion struct {
	Name      *string  `json:"name"`
	Type      *string  `json:"type"`
	Rating    *float64 `json:"rating"`
	Reason    *string  `json:"reason"`
	Address   string   `json:"address"`
	PosterURL string   `json:"posterUrl"`
}

// Adjustment records a field dropped or clamped while validating a suggestion.
type Adjustment struct {
	Index  int
	Name   string
	Fields []string
}

// ParseSuggestions decodes the model's JSON array into validated suggestions. Missing required
// fields, unknown types, an empty array or any text outside the JSON fail with ErrMalformedResponse.
// Fields the type must not carry are stripped and reported as adjustments.
func ParseSuggestions(raw string) ([]chat.Suggestion, []Adjustment, error) {
	cleaned := CleanJSONResponse(raw)
	if cleaned == "" {
		return nil, nil, fmt.Errorf("%w: empty output", ErrMalformedResponse)
	}

	var items []rawSuggestion
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("%w: no suggestions", ErrMalformedResponse)
	}

	suggestions := make([]chat.Suggestion, 0, len(items))
	var adjustments []Adjustment
	for i, item := range items {
		suggestion, err := item.validate()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: item %d: %v", ErrMalformedResponse, i, err)
		}

		normalized, changed := suggestion.Normalize()
		if len(changed) > 0 {
			adjustments = append(adjustments, Adjustment{Index: i, Name: normalized.Name, Fields: changed})
		}
		suggestions = append(suggestions, normalized)
	}

	return suggestions, adjustments, nil
}

func (r rawSuggestion) validate() (chat.Suggestion, error) {
	var missing []string
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		missing = append(missing, "name")
	}
	if r.Type == nil {
		missing = append(missing, "type")
	}
	if r.Rating == nil {
		missing = append(missing, "rating")
	}
	if r.Reason == nil || strings.TrimSpace(*r.Reason) == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return chat.Suggestion{}, fmt.Errorf("missing required fields %s", strings.Join(missing, ", "))
	}

	kind, ok := chat.ParseSuggestionType(*r.Type)
	if !ok {
		return chat.Suggestion{}, fmt.Errorf("unknown type %q", *r.Type)
	}

	return chat.Suggestion{
		Name:      strings.TrimSpace(*r.Name),
		Type:      kind,
		Rating:    *r.Rating,
		Reason:    strings.TrimSpace(*r.Reason),
		Address:   strings.TrimSpace(r.Address),
		PosterURL: strings.TrimSpace(r.PosterURL),
	}, nil
}
