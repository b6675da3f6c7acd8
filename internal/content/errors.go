package content

import (
	"errors"
	"fmt"
)

// ErrEmptyTopic is returned when Generate is called with a blank topic.
var ErrEmptyTopic = errors.New("content: topic must not be blank")

// ErrorKind classifies a Generate failure.
type ErrorKind string

const (
	// NetworkFailure means the outbound call did not produce a response.
	NetworkFailure ErrorKind = "network_failure"
	// SchemaMismatch means the response was not JSON matching ResponseSchema.
	SchemaMismatch ErrorKind = "schema_mismatch"
)

// ParseReason says which validation step rejected a response.
type ParseReason string

const (
	ReasonEmpty       ParseReason = "empty"
	ReasonInvalidJSON ParseReason = "invalid_json"
	ReasonSchema      ParseReason = "schema"
	ReasonDecode      ParseReason = "decode"
)

// ParseError is returned by Parse when a response does not match ResponseSchema.
type ParseError struct {
	Reason ParseReason
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content: %s response: %s: %v", e.Reason, e.Detail, e.Err)
	}
	return fmt.Sprintf("content: %s response: %s", e.Reason, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// KindOf classifies an error returned by Generate. It returns "" for nil
// and for ErrEmptyTopic.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	switch {
	case err == nil, errors.Is(err, ErrEmptyTopic):
		return ""
	case errors.As(err, &pe):
		return SchemaMismatch
	default:
		return NetworkFailure
	}
}
