package llm

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"
)

// SchemaType is a JSON Schema primitive type name.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is the provider-neutral subset of JSON Schema used to constrain
// structured responses. It marshals to standard JSON Schema and converts to
// the Gemini schema dialect.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	// Order is the property order requested from Gemini; not part of JSON Schema.
	Order    []string `json:"-"`
	Items    *Schema  `json:"items,omitempty"`
	Required []string `json:"required,omitempty"`
	Minimum  *float64 `json:"minimum,omitempty"`
	Maximum  *float64 `json:"maximum,omitempty"`
}

// MarshalJSON implements json.Marshaler, which go-openai requires of schemas.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	return json.Marshal((*plain)(s))
}

// Float returns a pointer to v, for Minimum and Maximum.
func Float(v float64) *float64 { return &v }

func toGenAISchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genai.Type(strings.ToUpper(string(s.Type))),
		Description:      s.Description,
		Required:         s.Required,
		Minimum:          s.Minimum,
		Maximum:          s.Maximum,
		PropertyOrdering: s.Order,
		Items:            toGenAISchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
	}
	return out
}
