package errors

import (
	"fmt"
)

// ParseError represents a configuration parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RegistrationError reports a listener, stage or extension that cannot be registered.
type RegistrationError struct {
	Name    string
	Message string
}

// NewRegistrationError constructs a RegistrationError for the named registration target.
func NewRegistrationError(name, message string) error {
	return &RegistrationError{Name: name, Message: message}
}

func (e *RegistrationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Name != "" {
		return fmt.Sprintf("registration error [%s]: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("registration error: %s", e.Message)
}

// PatternError reports a malformed event name or wildcard pattern.
type PatternError struct {
	Pattern string
	Reason  string
}

// NewPatternError constructs a PatternError.
func NewPatternError(pattern, reason string) error {
	return &PatternError{Pattern: pattern, Reason: reason}
}

func (e *PatternError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid event pattern %q: %s", e.Pattern, e.Reason)
}

// LookupError reports a key or capability missing from the shared context.
type LookupError struct {
	Key        string
	Capability string
}

// NewLookupError constructs a LookupError. Either field may be empty.
func NewLookupError(key, capability string) error {
	return &LookupError{Key: key, Capability: capability}
}

func (e *LookupError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Key != "" && e.Capability != "":
		return fmt.Sprintf("lookup error: %q does not provide %s", e.Key, e.Capability)
	case e.Capability != "":
		return fmt.Sprintf("lookup error: nothing provides %s", e.Capability)
	default:
		return fmt.Sprintf("lookup error: %q is not registered", e.Key)
	}
}
