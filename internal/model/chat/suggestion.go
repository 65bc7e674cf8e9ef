package chat

import "strings"

// SuggestionType is the category of a suggestion.
type SuggestionType string

const (
	TypeRestaurant  SuggestionType = "Restaurant"
	TypeMovie       SuggestionType = "Movie"
	TypeHangoutSpot SuggestionType = "Hangout Spot"
	TypeOther       SuggestionType = "Other"
)

// SuggestionTypes lists the values accepted in the type field, in schema order.
var SuggestionTypes = []SuggestionType{TypeRestaurant, TypeMovie, TypeHangoutSpot, TypeOther}

const (
	MinRating = 0
	MaxRating = 5
)

// Suggestion is a structured recommendation returned by the assistant.
type Suggestion struct {
	Name      string         `json:"name"`
	Type      SuggestionType `json:"type"`
	Rating    float64        `json:"rating"`
	Reason    string         `json:"reason"`
	Address   string         `json:"address,omitempty"`
	PosterURL string         `json:"posterUrl,omitempty"`
}

// ParseSuggestionType maps a model-provided label to a SuggestionType.
// "HangoutSpot" and case differences are accepted.
func ParseSuggestionType(raw string) (SuggestionType, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	switch normalized {
	case "restaurant":
		return TypeRestaurant, true
	case "movie":
		return TypeMovie, true
	case "hangoutspot":
		return TypeHangoutSpot, true
	case "other":
		return TypeOther, true
	default:
		return "", false
	}
}

// AllowsAddress reports whether a suggestion of this type may carry an address.
func (t SuggestionType) AllowsAddress() bool {
	return t == TypeRestaurant || t == TypeHangoutSpot
}

// AllowsPoster reports whether a suggestion of this type may carry a poster URL.
func (t SuggestionType) AllowsPoster() bool {
	return t == TypeMovie
}

// Normalize drops fields the type must not carry and clamps the rating into range.
// The second return value lists the fields that were changed.
func (s Suggestion) Normalize() (Suggestion, []string) {
	var changed []string

	if s.Address != "" && !s.Type.AllowsAddress() {
		s.Address = ""
		changed = append(changed, "address")
	}
	if s.PosterURL != "" && !s.Type.AllowsPoster() {
		s.PosterURL = ""
		changed = append(changed, "posterUrl")
	}
	if s.Rating < MinRating {
		s.Rating = MinRating
		changed = append(changed, "rating")
	} else if s.Rating > MaxRating {
		s.Rating = MaxRating
		changed = append(changed, "rating")
	}

	return s, changed
}
