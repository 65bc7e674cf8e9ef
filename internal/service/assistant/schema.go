package assistant

import (
	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

// SuggestionSchema is the structured output requested for suggestion prompts.
func SuggestionSchema() *llm.Schema {
	types := make([]string, 0, len(chat.SuggestionTypes))
	for _, t := range chat.SuggestionTypes {
		types = append(types, string(t))
	}

	return &llm.Schema{
		Type: llm.TypeArray,
		Items: &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"name":   {Type: llm.TypeString, Description: "Name of the place, movie, or activity."},
				"type":   {Type: llm.TypeString, Enum: types, Description: "The category of the suggestion."},
				"rating": {Type: llm.TypeNumber, Description: "A rating out of 5, e.g., 4.5"},
				"reason": {Type: llm.TypeString, Description: "A short, compelling reason why this is a good suggestion for the group."},
				"address": {
					Type:        llm.TypeString,
					Description: "A plausible physical address for the suggested place. Only for 'Restaurant' or 'Hangout Spot'.",
				},
				"posterUrl": {
					Type:        llm.TypeString,
					Description: "A plausible placeholder image URL for the movie poster from a service like https://image.tmdb.org/t/p/w500/.... Only for 'Movie'.",
				},
			},
			Required: []string{"name", "type", "rating", "reason"},
			Ordering: []string{"name", "type", "rating", "reason", "address", "posterUrl"},
		},
	}
}
