package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/diogo/deepchat/internal/errors"
	"github.com/diogo/deepchat/internal/models"
)

// Request describes one completion call. Prior conversation messages are
// mapped to provider roles; an optional system prompt is prepended.
type Request struct {
	Messages     []models.Message
	SystemPrompt string
	// Model and Temperature override the client defaults when set
	Model       string
	Temperature float64
}

// Callbacks receive the streaming lifecycle. OnFragment fires
// synchronously for every delta in arrival order; OnComplete receives the
// provider's full accumulated response; OnError receives exactly one
// classified error and excludes the other callbacks from firing after it.
type Callbacks struct {
	OnFragment func(delta string)
	OnComplete func(full string)
	OnError    func(err error)
}

// Send performs a non-streaming completion and returns the response text
func (c *Client) Send(ctx context.Context, req Request) (string, error) {
	if !c.HasKey() {
		return "", apierrors.NewNoAPIKeyError()
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, c.buildRequest(req, false))
	if err != nil {
		return "", Classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", apierrors.NewAPIError(0, endpointChat, "provider returned no choices")
	}

	c.logger.Debug().
		Str("model", c.modelFor(req)).
		Dur("elapsed", time.Since(start)).
		Msg("completion finished")

	return resp.Choices[0].Message.Content, nil
}

// Stream performs a streaming completion. Deltas are delivered through
// cb.OnFragment in arrival order; the accumulated full text goes to
// cb.OnComplete when the stream ends. Any failure is classified, passed
// to cb.OnError and returned; nothing partial is committed. An empty API
// key fails before any network traffic.
func (c *Client) Stream(ctx context.Context, req Request, cb Callbacks) error {
	if !c.HasKey() {
		return c.fail(cb, apierrors.NewNoAPIKeyError())
	}

	start := time.Now()
	s, err := c.api.CreateChatCompletionStream(ctx, c.buildRequest(req, true))
	if err != nil {
		return c.fail(cb, Classify(err))
	}
	defer s.Close()

	var full strings.Builder
	for {
		resp, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.fail(cb, Classify(err))
		}

		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		full.WriteString(delta)
		if cb.OnFragment != nil {
			cb.OnFragment(delta)
		}
	}

	c.logger.Debug().
		Str("model", c.modelFor(req)).
		Int("chars", full.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("stream finished")

	if cb.OnComplete != nil {
		cb.OnComplete(full.String())
	}
	return nil
}

// ValidateKey probes the provider with a minimal completion to check the
// configured key. A nil return means the key was accepted.
func (c *Client) ValidateKey(ctx context.Context) error {
	if !c.HasKey() {
		return apierrors.NewNoAPIKeyError()
	}

	probe := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
		MaxTokens: 1,
	}

	if _, err := c.api.CreateChatCompletion(ctx, probe); err != nil {
		return Classify(err)
	}
	return nil
}

func (c *Client) fail(cb Callbacks, err error) error {
	c.logger.Warn().Err(err).Msg("request failed")
	if cb.OnError != nil {
		cb.OnError(err)
	}
	return err
}

func (c *Client) buildRequest(req Request, streaming bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, m := range req.Messages {
		if m.Content == "" {
			continue
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role.ProviderRole(),
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       c.modelFor(req),
		Messages:    msgs,
		Temperature: float32(c.temperatureFor(req)),
		MaxTokens:   models.MaxCompletionTokens,
		Stream:      streaming,
	}
}

func (c *Client) modelFor(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func (c *Client) temperatureFor(req Request) float64 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return c.temperature
}
