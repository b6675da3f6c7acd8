package content

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonschema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func responseValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		raw, err := json.Marshal(ResponseSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshalling response schema: %w", err)
			return
		}
		compiledSchema, compileErr = jsonschema.NewCompiler().Compile(raw)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling response schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Parse validates raw model output against ResponseSchema and decodes it.
// Every failure is a *ParseError; there is no best-effort recovery.
func Parse(raw string) (*TopicContent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ParseError{Reason: ReasonEmpty, Detail: "model returned no text"}
	}

	var doc any
	if err := json.UnmarshalFromString(raw, &doc); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidJSON, Detail: "response is not JSON", Err: err}
	}

	schema, err := responseValidator()
	if err != nil {
		return nil, err
	}
	if result := schema.Validate(doc); !result.IsValid() {
		return nil, &ParseError{Reason: ReasonSchema, Detail: describe(result.Errors)}
	}

	var tc TopicContent
	if err := json.UnmarshalFromString(raw, &tc); err != nil {
		return nil, &ParseError{Reason: ReasonDecode, Detail: "decoding topic content", Err: err}
	}
	return &tc, nil
}

// describe flattens validation errors into a stable, sorted message.
func describe(errs map[string]*jsonschema.EvaluationError) string {
	if len(errs) == 0 {
		return "response does not match schema"
	}
	parts := make([]string, 0, len(errs))
	for field, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Message))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
