package udemy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedResponse            = errors.New("udemy: malformed response")
	ErrSchemaMismatch               = errors.New("udemy: schema mismatch")
	ErrUnsupportedFilterCombination = errors.New("udemy: unsupported filter combination")
	ErrInvalidFilter                = errors.New("udemy: invalid filter")
	ErrTransport                    = errors.New("udemy: transport failure")
	ErrMissingCredentials           = errors.New("udemy: client id and client secret are required")
)

// MalformedResponseError is returned when no sequence of entries can be
// resolved from a response payload. Payload is the offending value.
type MalformedResponseError struct {
	Reason  string
	Payload any
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("udemy: malformed response: %s: %s", e.Reason, payloadSnippet(e.Payload, 300))
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

// SchemaMismatchError reports a required field that is missing or carries a
// value of the wrong type. Field is a dotted path ("user.display_name").
type SchemaMismatchError struct {
	Entity string
	Field  string
	Reason string
	Err    error
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("udemy: schema mismatch: ")
	b.WriteString(e.Entity)
	if e.Field != "" {
		b.WriteString(".")
		b.WriteString(e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SchemaMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSchemaMismatch}
	}
	return []error{ErrSchemaMismatch, e.Err}
}

// FilterError is raised before any request is built. Err is either
// ErrInvalidFilter (single field) or ErrUnsupportedFilterCombination.
type FilterError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FilterError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *FilterError) Unwrap() error { return e.Err }

// TransportError wraps network and HTTP level failures so they are never
// confused with decoding problems.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("udemy: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

func payloadSnippet(v any, max int) string {
	s := fmt.Sprintf("%v", v)
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
