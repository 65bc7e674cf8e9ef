package intent

import "strings"

// Label is the route an utterance takes through the assistant.
type Label string

const (
	// Suggestion requests go to schema-constrained structured output.
	Suggestion Label = "suggestion"
	// Conversation covers everything else and goes to the chat session.
	Conversation Label = "conversation"
)

// Decision is the classification result and the keyword that triggered it, if any.
type Decision struct {
	Label   Label
	Keyword string
}

// suggestionKeywords are matched as plain substrings of the lower-cased utterance, so
// "ideas", "suggestion" and "recommended" all count. "no suggestions needed" also counts.
var suggestionKeywords = []string{"suggest", "recommend", "idea"}

// Analyze classifies an utterance by keyword containment.
func Analyze(utterance string) Decision {
	normalized := strings.ToLower(utterance)
	for _, word := range suggestionKeywords {
		if strings.Contains(normalized, word) {
			return Decision{Label: Suggestion, Keyword: word}
		}
	}
	return Decision{Label: Conversation}
}
