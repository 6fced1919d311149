package parsing

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when there is no resume text to parse
var ErrEmptyText = errors.New("resume text is empty")

// APICallError represents a missing credential, a client setup failure or an
// upstream LLM failure
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// NoStructureError is returned when the LLM response contains no JSON object
type NoStructureError struct {
	Response string
}

func (e *NoStructureError) Error() string {
	return fmt.Sprintf("no JSON object found in LLM response: %q", e.Response)
}

// ParseError represents a JSON object that could not be decoded
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a decoded record that does not match the
// resume record schema
type ValidationError struct {
	Message string
	Field   string
	Cause   error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation error: %s", e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// retryable reports whether a fresh LLM answer could fix err
func retryable(err error) bool {
	var noStructure *NoStructureError
	var parseErr *ParseError
	var validationErr *ValidationError
	return errors.As(err, &noStructure) || errors.As(err, &parseErr) || errors.As(err, &validationErr)
}
