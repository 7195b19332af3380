// Package assistant composes the prompt builder, a chat completer and the
// output sanitizer into the six coding-assistant tasks.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/chat"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/prompt"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/sanitize"
)

// MaxInputChars is the largest accepted prompt, code or error text, in characters.
const MaxInputChars = 100_000

var (
	// ErrInputTooLarge is wrapped by InputTooLargeError.
	ErrInputTooLarge = errors.New("input too large")

	// ErrHistoryUnsupported is returned when Chat receives prior turns.
	// Multi-turn history is not threaded into requests yet, and dropping it
	// silently would misrepresent what the model saw.
	ErrHistoryUnsupported = errors.New("conversation history is not supported")
)

// InputTooLargeError reports which input exceeded the limit.
type InputTooLargeError struct {
	Field  string
	Length int
	Limit  int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("Input too large: %s has %d characters (max %d)", e.Field, e.Length, e.Limit)
}

func (e *InputTooLargeError) Unwrap() error {
	return ErrInputTooLarge
}

// Assistant runs tasks against a completer. It holds no per-call state.
type Assistant struct {
	completer chat.Completer
	builder   *prompt.Builder
	maxInput  int
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithMaxInput changes the input size limit.
func WithMaxInput(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxInput = n
		}
	}
}

// New creates an Assistant. A nil builder uses the default prompts.
func New(completer chat.Completer, builder *prompt.Builder, opts ...Option) *Assistant {
	if builder == nil {
		builder = prompt.NewBuilder(nil)
	}
	a := &Assistant{
		completer: completer,
		builder:   builder,
		maxInput:  MaxInputChars,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run validates req, sends the built messages and sanitizes the reply.
func (a *Assistant) Run(ctx context.Context, req prompt.Request) (string, error) {
	if err := a.Validate(req); err != nil {
		return "", err
	}

	text, err := a.completer.Complete(ctx, a.builder.Build(req))
	if err != nil {
		return "", err
	}
	return sanitize.Output(text), nil
}

// Validate rejects oversized inputs before any network call.
func (a *Assistant) Validate(req prompt.Request) error {
	fields := []struct {
		name  string
		value string
	}{
		{"prompt", req.Text},
		{"code context", req.Code},
		{"error message", req.ErrorMessage},
		{"language", req.Language},
		{"style", req.Style},
	}
	for _, f := range fields {
		if n := utf8.RuneCountInString(f.value); n > a.maxInput {
			return &InputTooLargeError{Field: f.name, Length: n, Limit: a.maxInput}
		}
	}
	return nil
}

// Chat answers a free-form question, optionally about code.
func (a *Assistant) Chat(ctx context.Context, message, code string, history []chat.Message) (string, error) {
	if len(history) > 0 {
		return "", ErrHistoryUnsupported
	}
	return a.Run(ctx, prompt.Request{Task: prompt.TaskChat, Text: message, Code: code})
}

// GenerateCode writes code for a description.
func (a *Assistant) GenerateCode(ctx context.Context, description, code, language string) (string, error) {
	return a.Run(ctx, prompt.Request{Task: prompt.TaskGenerate, Text: description, Code: code, Language: language})
}

// ExplainCode explains code, optionally steered by question.
func (a *Assistant) ExplainCode(ctx context.Context, code, question, language string) (string, error) {
	return a.Run(ctx, prompt.Request{Task: prompt.TaskExplain, Text: question, Code: code, Language: language})
}

// RefactorCode suggests a refactoring; empty instructions ask for general improvements.
func (a *Assistant) RefactorCode(ctx context.Context, code, instructions, language string) (string, error) {
	return a.Run(ctx, prompt.Request{Task: prompt.TaskRefactor, Text: instructions, Code: code, Language: language})
}

// FixCode fixes bugs, using errorMessage when the caller has one.
func (a *Assistant) FixCode(ctx context.Context, code, errorMessage, language string) (string, error) {
	return a.Run(ctx, prompt.Request{Task: prompt.TaskFix, Code: code, ErrorMessage: errorMessage, Language: language})
}

// GenerateDocs documents code in the given style.
func (a *Assistant) GenerateDocs(ctx context.Context, code, language, style string) (string, error) {
	return a.Run(ctx, prompt.Request{Task: prompt.TaskDocs, Code: code, Language: language, Style: style})
}
