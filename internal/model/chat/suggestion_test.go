package chat

import "testing"

func TestParseSuggestionType(t *testing.T) {
	cases := map[string]SuggestionType{
		"Restaurant":   TypeRestaurant,
		"movie":        TypeMovie,
		"Hangout Spot": TypeHangoutSpot,
		"HangoutSpot":  TypeHangoutSpot,
		"OTHER":        TypeOther,
	}
	for raw, want := range cases {
		got, ok := ParseSuggestionType(raw)
		if !ok || got != want {
			t.Fatalf("ParseSuggestionType(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}

	if _, ok := ParseSuggestionType("Concert"); ok {
		t.Fatal("expected unknown type to be rejected")
	}
}

func TestNormalizeStripsForeignFields(t *testing.T) {
	movie, changed := Suggestion{
		Name:      "Jawan",
		Type:      TypeMovie,
		Rating:    4.5,
		Reason:    "Mass entertainer",
		Address:   "PVR, Juhu",
		PosterURL: "https://image.tmdb.org/t/p/w500/jawan.jpg",
	}.Normalize()
	if movie.Address != "" {
		t.Fatalf("expected movie address stripped, got %q", movie.Address)
	}
	if movie.PosterURL == "" {
		t.Fatal("expected movie poster kept")
	}
	if len(changed) != 1 || changed[0] != "address" {
		t.Fatalf("unexpected changed fields %v", changed)
	}

	cafe, changed := Suggestion{
		Name:      "Prithvi Cafe",
		Type:      TypeHangoutSpot,
		Rating:    7,
		Reason:    "Chill vibes",
		PosterURL: "https://example.com/poster.jpg",
	}.Normalize()
	if cafe.PosterURL != "" {
		t.Fatal("expected hangout poster stripped")
	}
	if cafe.Rating != MaxRating {
		t.Fatalf("expected rating clamped to %d, got %v", MaxRating, cafe.Rating)
	}
	if len(changed) != 2 {
		t.Fatalf("unexpected changed fields %v", changed)
	}
}

func TestNormalizeKeepsMissingOptionalFields(t *testing.T) {
	restaurant := Suggestion{Name: "Bademiya", Type: TypeRestaurant, Rating: 4.2, Reason: "Late-night kebabs"}
	got, changed := restaurant.Normalize()
	if got != restaurant {
		t.Fatalf("expected restaurant unchanged, got %+v", got)
	}
	if len(changed) != 0 {
		t.Fatalf("expected no changes, got %v", changed)
	}
}
