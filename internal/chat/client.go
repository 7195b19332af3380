package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
)

// Completer turns an ordered message list into the model's reply text.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client is the HTTP chat completion client. It is read-only after New and
// safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	opts    options
}

// New creates a client for the resolved configuration.
func New(cfg config.ClientConfig, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(o.timeout)
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		opts:    o,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + "/chat/completions"
}

// Complete sends messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ValidateMessages(messages); err != nil {
		return "", err
	}

	temperature := c.opts.temperature
	maxTokens := c.opts.maxTokens
	body, err := json.Marshal(Request{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.opts.userAgent)

	status, raw, err := c.opts.transport.Send(ctx, req)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	return ParseCompletion(status, raw)
}

// ParseCompletion interprets a raw completion response. An error with a
// message in the body is a failure even under a success status; an empty
// one is ignored.
func ParseCompletion(status int, raw []byte) (string, error) {
	var resp Response
	parseErr := json.Unmarshal(raw, &resp)

	if !isSuccess(status) {
		apiErr := &APIError{Status: status, Body: string(raw)}
		if parseErr == nil && resp.Error != nil {
			apiErr.Message = resp.Error.Message
		}
		return "", apiErr
	}

	if parseErr != nil {
		return "", &ParseError{Err: parseErr, Body: string(raw)}
	}

	if resp.Error != nil && resp.Error.Message != "" {
		return "", &APIError{Status: status, Message: resp.Error.Message, Body: string(raw)}
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// ValidateMessages checks that messages open with at least one system message
// followed by at least one user message.
func ValidateMessages(messages []Message) error {
	i := 0
	for i < len(messages) && messages[i].Role == RoleSystem {
		i++
	}
	if i == 0 {
		return fmt.Errorf("%w: first message must have the system role", ErrInvalidMessages)
	}
	if i == len(messages) || messages[i].Role != RoleUser {
		return fmt.Errorf("%w: system messages must be followed by a user message", ErrInvalidMessages)
	}
	return nil
}

// NewCompleter builds the completer selected by cfg.Backend.
func NewCompleter(cfg config.ClientConfig, opts ...Option) (Completer, error) {
	switch cfg.Backend {
	case "", config.BackendHTTP:
		return New(cfg, opts...), nil
	case config.BackendLangChain:
		lc, err := NewLangChainCompleter(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return lc, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
