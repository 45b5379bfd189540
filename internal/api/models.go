package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/deepchat/internal/errors"
)

// ListModels fetches the model identifiers the provider currently serves.
// The endpoint is hit directly so the raw payload can be inspected; the
// provider nests ids under data[].id.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.HasKey() {
		return nil, apierrors.NewNoAPIKeyError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpointModels, nil)
	if err != nil {
		return nil, fmt.Errorf("building models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("could not reach the provider", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError("reading models response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, apierrors.NewAuthError("model listing rejected")
	case http.StatusTooManyRequests:
		return nil, apierrors.NewRateLimitError("model listing throttled")
	default:
		return nil, apierrors.NewAPIError(resp.StatusCode, endpointModels, string(body))
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewAPIError(resp.StatusCode, endpointModels, "malformed models payload")
	}

	ids := gjson.GetBytes(body, "data.#.id")
	out := make([]string, 0, len(ids.Array()))
	for _, id := range ids.Array() {
		if s := id.String(); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
