package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/diogo/deepchat/internal/errors"
)

const (
	endpointChat   = "/chat/completions"
	endpointModels = "/models"
)

// Classify maps provider and transport failures onto the local error
// taxonomy so callers can branch on error codes instead of inspecting
// provider types.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified.
	var (
		noKey *apierrors.NoAPIKeyError
		auth  *apierrors.AuthError
		rate  *apierrors.RateLimitError
		netw  *apierrors.NetworkError
		api   *apierrors.APIError
	)
	if errors.As(err, &noKey) || errors.As(err, &auth) ||
		errors.As(err, &rate) || errors.As(err, &netw) || errors.As(err, &api) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apierrors.NewAuthError(apiErr.Message)
		case http.StatusTooManyRequests:
			return apierrors.NewRateLimitError(apiErr.Message)
		default:
			return apierrors.NewAPIError(apiErr.HTTPStatusCode, endpointChat, apiErr.Message)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apierrors.NewAuthError(reqErr.Error())
		case http.StatusTooManyRequests:
			return apierrors.NewRateLimitError(reqErr.Error())
		}
		if reqErr.HTTPStatusCode > 0 {
			return apierrors.NewAPIError(reqErr.HTTPStatusCode, endpointChat, reqErr.Error())
		}
	}

	if isTransportError(err) {
		return apierrors.NewNetworkError("could not reach the provider", err)
	}

	return err
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
