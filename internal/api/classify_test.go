package api

import (
	"errors"
	"net"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/diogo/deepchat/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want apierrors.ErrorCode
	}{
		{
			name: "provider 401",
			in:   &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
			want: apierrors.ErrCodeInvalidAPIKey,
		},
		{
			name: "provider 403",
			in:   &openai.APIError{HTTPStatusCode: http.StatusForbidden, Message: "forbidden"},
			want: apierrors.ErrCodeInvalidAPIKey,
		},
		{
			name: "provider 429",
			in:   &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"},
			want: apierrors.ErrCodeRateLimited,
		},
		{
			name: "provider 500",
			in:   &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"},
			want: apierrors.ErrCodeUnknown,
		},
		{
			name: "dns failure",
			in:   &net.DNSError{Err: "no such host", Name: "api.invalid"},
			want: apierrors.ErrCodeNetwork,
		},
		{
			name: "already classified",
			in:   apierrors.NewNoAPIKeyError(),
			want: apierrors.ErrCodeNoAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierrors.GetErrorCode(Classify(tt.in))
			if got != tt.want {
				t.Errorf("Classify(%v) code = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify_PassesThroughUnknown(t *testing.T) {
	plain := errors.New("something else")
	if got := Classify(plain); got != plain {
		t.Errorf("Classify(plain) = %v, want same error back", got)
	}
	if Classify(nil) != nil {
		t.Error("Classify(nil) != nil")
	}
}
