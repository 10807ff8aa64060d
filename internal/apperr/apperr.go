package apperr

import (
	"errors"
	"strings"
)

type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Unauthenticated
	Forbidden
	NotFound
	JobNotAvailable
	DuplicateApplication
	Conflict
	RateLimited
)

var kindNames = map[Kind]string{
	Internal:             "internal",
	InvalidInput:         "invalid_input",
	Unauthenticated:      "unauthenticated",
	Forbidden:            "forbidden",
	NotFound:             "not_found",
	JobNotAvailable:      "job_not_available",
	DuplicateApplication: "duplicate_application",
	Conflict:             "conflict",
	RateLimited:          "rate_limited",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is an expected, caller-visible failure. Err holds the underlying
// cause and is never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Invalid builds an InvalidInput error listing every failed field rule.
func Invalid(details ...string) *Error {
	msg := "invalid input"
	if len(details) == 1 {
		msg = details[0]
	}
	return &Error{Kind: InvalidInput, Message: msg, Details: details}
}

// KindOf returns the kind of err, or Internal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
