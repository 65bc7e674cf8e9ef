package main

import "testing"

func TestParseLocation(t *testing.T) {
	loc, err := parseLocation("", "")
	if err != nil || loc != nil {
		t.Fatalf("expected no location, got %+v, %v", loc, err)
	}

	loc, err = parseLocation("28.6139", "77.2090")
	if err != nil || loc.Latitude != 28.6139 || loc.Longitude != 77.2090 {
		t.Fatalf("unexpected location %+v, %v", loc, err)
	}

	if _, err := parseLocation("28.6", ""); err == nil {
		t.Fatal("expected error when longitude is missing")
	}
}
