package domain

import (
	"errors"
	"strings"
)

// Kind classifies failures surfaced by the storefront
type Kind string

// Error kinds
const (
	KindAuth       Kind = "AuthError"
	KindFetch      Kind = "FetchError"
	KindSubmission Kind = "SubmissionError"
	KindFunction   Kind = "FunctionError"
	KindValidation Kind = "ValidationError"
)

// Reason narrows an AuthError
type Reason string

// Auth failure reasons
const (
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonValidation         Reason = "validation"
	ReasonNetwork            Reason = "network"
)

// Sentinel errors for guards that never reach the error slot
var (
	ErrBlankInput            = errors.New("input is blank")
	ErrNotSignedIn           = errors.New("no active session")
	ErrNoSelection           = errors.New("no product selected")
	ErrInFlight              = errors.New("operation already in progress")
	ErrGenerationUnavailable = errors.New("text generation unavailable")
)

// Error is a classified failure carrying the message shown to the user
type Error struct {
	Kind    Kind
	Reason  Reason
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
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

func (e *Error) Unwrap() error {
	return e.Err
}

// NewAuthError creates an AuthError with the given reason
func NewAuthError(reason Reason, op, message string, err error) *Error {
	return &Error{Kind: KindAuth, Reason: reason, Op: op, Message: message, Err: err}
}

// NewFetchError creates a FetchError
func NewFetchError(op, message string, err error) *Error {
	return &Error{Kind: KindFetch, Op: op, Message: message, Err: err}
}

// NewSubmissionError creates a SubmissionError
func NewSubmissionError(op, message string, err error) *Error {
	return &Error{Kind: KindSubmission, Op: op, Message: message, Err: err}
}

// NewFunctionError creates a FunctionError
func NewFunctionError(op, message string, err error) *Error {
	return &Error{Kind: KindFunction, Op: op, Message: message, Err: err}
}

// IsKind reports whether err is a classified error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ReasonOf returns the auth reason of err, or "" when err is not an AuthError
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAuth {
		return e.Reason
	}
	return ""
}

// UserMessage returns the message suitable for the error slot
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
