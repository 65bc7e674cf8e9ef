package llm

import "encoding/json"

// Type is a JSON schema type understood by every provider.
type Type string

const (
	TypeArray  Type = "array"
	TypeObject Type = "object"
	TypeString Type = "string"
	TypeNumber Type = "number"
)

// Schema is a provider-neutral description of the structured output a request expects.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	// Ordering lists property names in the order the model should emit them.
	Ordering []string `json:"-"`
}

// String renders the schema as indented JSON for prompt-only providers.
func (s *Schema) String() string {
	if s == nil {
		return ""
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
