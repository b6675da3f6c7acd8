package content

import (
	"github.com/omnidive/omnidive/internal/llm"
)

// ResponseSchema is the schema the text model must answer with. It is sent
// with every request and used to validate every response.
var ResponseSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"title":   {Type: llm.TypeString},
		"summary": {Type: llm.TypeString},
		"facts": {
			Type:  llm.TypeArray,
			Items: &llm.Schema{Type: llm.TypeString},
		},
		"stats": {
			Type: llm.TypeArray,
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"label": {Type: llm.TypeString},
					"value": {Type: llm.TypeNumber, Minimum: llm.Float(1), Maximum: llm.Float(100)},
				},
				Order:    []string{"label", "value"},
				Required: []string{"label", "value"},
			},
		},
		"qAndA": {
			Type: llm.TypeArray,
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"question": {Type: llm.TypeString},
					"answer":   {Type: llm.TypeString},
				},
				Order:    []string{"question", "answer"},
				Required: []string{"question", "answer"},
			},
		},
	},
	Order:    []string{"title", "summary", "facts", "stats", "qAndA"},
	Required: []string{"title", "summary", "facts", "stats", "qAndA"},
}
