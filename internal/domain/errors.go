package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal       ErrorCode = "INTERNAL_ERROR"
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrRateLimited    ErrorCode = "RATE_LIMITED"

	// Generation errors
	ErrUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrEmptyCompletion     ErrorCode = "EMPTY_COMPLETION"
	ErrInvalidModelOutput  ErrorCode = "INVALID_MODEL_OUTPUT"
)

// GenerationFailedMessage is the only message callers see for generation failures.
const GenerationFailedMessage = "failed to generate questions, please try again"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithContext attaches log-only detail to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidRequestError(message string) *DomainError {
	return NewError(ErrInvalidRequest, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewRateLimitedError() *DomainError {
	return NewError(ErrRateLimited, "too many requests, please slow down", nil)
}

// NewUpstreamUnavailableError wraps the last upstream failure after all attempts are spent.
func NewUpstreamUnavailableError(attempts int, err error) *DomainError {
	return NewError(ErrUpstreamUnavailable, GenerationFailedMessage, fmt.Errorf("upstream failed after %d attempt(s): %w", attempts, err)).
		WithContext("attempts", attempts)
}

func NewEmptyCompletionError() *DomainError {
	return NewError(ErrEmptyCompletion, GenerationFailedMessage, errors.New("no completion returned from upstream"))
}

func NewInvalidModelOutputError(err error) *DomainError {
	return NewError(ErrInvalidModelOutput, GenerationFailedMessage, err)
}

// CodeOf returns the ErrorCode carried by err, or ErrInternal when err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// AttemptsOf returns the upstream attempt count recorded on err, or 0.
func AttemptsOf(err error) int {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if n, ok := domainErr.Context["attempts"].(int); ok {
			return n
		}
	}
	return 0
}
