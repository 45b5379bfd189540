// Package errors provides custom error types for the deepchat API client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNoAPIKey      = errors.New("no API key configured")
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrRateLimited   = errors.New("rate limited")
	ErrNetwork       = errors.New("network error")
)

// ErrorCode identifies an error class from the closed taxonomy
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNoAPIKey
	ErrCodeInvalidAPIKey
	ErrCodeRateLimited
	ErrCodeNetwork
)

// String returns the code name
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNoAPIKey:
		return "NoAPIKey"
	case ErrCodeInvalidAPIKey:
		return "InvalidAPIKey"
	case ErrCodeRateLimited:
		return "RateLimited"
	case ErrCodeNetwork:
		return "NetworkError"
	default:
		return "UnknownError"
	}
}

// NoAPIKeyError means a request was attempted with an empty API key.
// It is raised before any network call is made.
type NoAPIKeyError struct{}

func (e *NoAPIKeyError) Error() string {
	return "no API key configured: set one in settings or SILICONFLOW_API_KEY"
}

// Is allows comparison with the ErrNoAPIKey sentinel
func (e *NoAPIKeyError) Is(target error) bool {
	if target == ErrNoAPIKey {
		return true
	}
	_, ok := target.(*NoAPIKeyError)
	return ok
}

// NewNoAPIKeyError creates a new NoAPIKeyError
func NewNoAPIKeyError() *NoAPIKeyError {
	return &NoAPIKeyError{}
}

// AuthError represents an authentication failure (HTTP 401)
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "invalid or expired API key"
	}
	return fmt.Sprintf("invalid or expired API key: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrInvalidAPIKey {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// RateLimitError represents a rate limit rejection (HTTP 429)
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "rate limited: too many requests"
	}
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *RateLimitError) Is(target error) bool {
	if target == ErrRateLimited {
		return true
	}
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(message string) *RateLimitError {
	return &RateLimitError{Message: message}
}

// NetworkError represents a transport-level failure
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Message == "" {
		return "connection failed"
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap exposes the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(message string, err error) *NetworkError {
	return &NetworkError{Message: message, Err: err}
}

// APIError is the catch-all for unclassified provider failures. It keeps
// the raw provider message and HTTP status for display.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}
