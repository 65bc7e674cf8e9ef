package assistant

import (
	"fmt"
	"strconv"

	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

// WithLocation appends the caller's coordinates to a message. A nil location leaves it unchanged.
func WithLocation(message string, loc *chat.Location) string {
	if loc == nil {
		return message
	}
	return fmt.Sprintf("%s (My current location is latitude: %s, longitude: %s)",
		message, formatCoordinate(loc.Latitude), formatCoordinate(loc.Longitude))
}

// SuggestionPrompt wraps a message for the structured suggestion request.
func SuggestionPrompt(message string) string {
	return fmt.Sprintf("Based on this request, provide some suggestions: \"%s\"", message)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
