package errors

import (
	"errors"
	"fmt"
)

// IsNoAPIKeyError reports whether err means the key was never configured
func IsNoAPIKeyError(err error) bool {
	return errors.Is(err, ErrNoAPIKey)
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidAPIKey)
}

// IsRateLimitError reports whether err is a rate limit rejection
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNetworkError reports whether err is a transport-level failure
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// GetErrorCode maps err to its taxonomy code
func GetErrorCode(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeUnknown
	case IsNoAPIKeyError(err):
		return ErrCodeNoAPIKey
	case IsAuthError(err):
		return ErrCodeInvalidAPIKey
	case IsRateLimitError(err):
		return ErrCodeRateLimited
	case IsNetworkError(err):
		return ErrCodeNetwork
	default:
		return ErrCodeUnknown
	}
}

// GetHTTPStatus extracts the HTTP status from a structured error, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	if IsAuthError(err) {
		return 401
	}
	if IsRateLimitError(err) {
		return 429
	}
	return 0
}

// GetEndpoint extracts the endpoint from a structured error, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	return ""
}

// Friendly converts err into a user-facing message and reports whether the
// settings panel should be opened so the user can fix their configuration.
func Friendly(err error) (string, bool) {
	switch GetErrorCode(err) {
	case ErrCodeNoAPIKey:
		return "No API key is configured. Open settings and enter your SiliconFlow API key.", true
	case ErrCodeInvalidAPIKey:
		return "Your API key is invalid or has expired. Open settings and re-enter a valid SiliconFlow API key.", true
	case ErrCodeRateLimited:
		return "Too many requests. Wait a moment and try again.", false
	case ErrCodeNetwork:
		return "Network connection failed. Check your connection and whether the provider is reachable, then try again.", false
	default:
		return fmt.Sprintf("Something went wrong: %v. Check your settings or try again later.", err), false
	}
}
