// Package api implements the gateway to OpenAI-compatible chat providers.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/diogo/deepchat/internal/models"
)

// Client is the provider gateway. It wraps the OpenAI-compatible API
// client with the configured base URL and bearer key and performs no
// persistence or session bookkeeping of its own.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      zerolog.Logger

	api *openai.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL points the client at a different provider endpoint
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithModel sets the default model for the client
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the default sampling temperature
func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithHTTPClient substitutes the transport, mainly for tests
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger attaches a logger for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new provider client. An empty API key is accepted
// here; requests fail fast with a NoAPIKey error instead.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     models.DefaultBaseURL,
		model:       models.DefaultModel,
		temperature: 0.5,
		httpClient:  &http.Client{Timeout: 300 * time.Second},
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	cfg := openai.DefaultConfig(client.apiKey)
	cfg.BaseURL = client.baseURL
	cfg.HTTPClient = client.httpClient
	client.api = openai.NewClientWithConfig(cfg)

	return client
}

// HasKey reports whether a non-empty API key is configured
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// Model returns the default model
func (c *Client) Model() string {
	return c.model
}

// BaseURL returns the provider endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}
