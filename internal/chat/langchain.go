package chat

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
)

// LangChainCompleter implements Completer on top of langchaingo's OpenAI
// client. It speaks the same wire format as Client and is selected with the
// "langchain" backend.
type LangChainCompleter struct {
	llm   llms.Model
	model string
	opts  options
}

// NewLangChainCompleter creates a langchaingo-backed completer.
func NewLangChainCompleter(cfg config.ClientConfig, opts ...Option) (*LangChainCompleter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	llmOpts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: o.timeout}),
	}
	if cfg.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain client: %w", err)
	}

	return &LangChainCompleter{
		llm:   llm,
		model: cfg.Model,
		opts:  o,
	}, nil
}

// Complete sends messages through langchaingo and returns the first choice.
func (p *LangChainCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ValidateMessages(messages); err != nil {
		return "", err
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithModel(p.model),
		llms.WithTemperature(p.opts.temperature),
		llms.WithMaxTokens(p.opts.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

func messageType(role Role) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
