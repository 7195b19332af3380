package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/prompt"
)

var (
	// ErrUnknownCommand is returned for command names outside the command set.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEmptyPrompt is wrapped by PromptRequiredError.
	ErrEmptyPrompt = errors.New("empty prompt")
)

// PromptRequiredError is returned when chat or generate is invoked without a
// prompt. Its message is meant to be shown to the user as is.
type PromptRequiredError struct {
	Hint string
}

func (e *PromptRequiredError) Error() string {
	return e.Hint
}

func (e *PromptRequiredError) Unwrap() error {
	return ErrEmptyPrompt
}

// CodeContextProvider supplies the code the user is working on, usually the
// editor selection. ok is false when nothing is selected.
type CodeContextProvider interface {
	CodeContext(ctx context.Context) (code string, ok bool, err error)
}

// LanguageDetector reports the language of the code being edited.
type LanguageDetector interface {
	DetectLanguage(ctx context.Context) (language string, ok bool)
}

// Command is one user invocation, e.g. "/kc-explain why is this slow".
type Command struct {
	Name string
	Args []string
	// FilePath is informational; hosts resolve it into a CodeContextProvider.
	FilePath string
	// ErrorMessage is passed to the fix task.
	ErrorMessage string
	// Style overrides the configured documentation style.
	Style string
}

// Prompt joins the command arguments.
func (c Command) Prompt() string {
	return strings.TrimSpace(strings.Join(c.Args, " "))
}

var commandNames = map[string]prompt.TaskKind{
	"kc":          prompt.TaskChat,
	"kc-explain":  prompt.TaskExplain,
	"kc-generate": prompt.TaskGenerate,
	"kc-refactor": prompt.TaskRefactor,
	"kc-fix":      prompt.TaskFix,
	"kc-docs":     prompt.TaskDocs,
}

// ParseCommandName maps "kc-explain", "/kc-explain" or "explain" to a task.
func ParseCommandName(name string) (prompt.TaskKind, error) {
	n := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if task, ok := commandNames[n]; ok {
		return task, nil
	}
	if task, err := prompt.ParseTaskKind(n); err == nil {
		return task, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// CommandNames lists the slash-command spellings.
func CommandNames() []string {
	names := make([]string, 0, len(commandNames))
	for _, task := range prompt.TaskKinds() {
		for name, t := range commandNames {
			if t == task {
				names = append(names, name)
			}
		}
	}
	return names
}

// Dispatcher routes commands to assistant tasks, pulling code context and
// language from the host.
type Dispatcher struct {
	assistant *Assistant
	code      CodeContextProvider
	language  LanguageDetector
	docsStyle string
}

// DispatchOption configures a Dispatcher.
type DispatchOption func(*Dispatcher)

// WithCodeContext sets the code context provider.
func WithCodeContext(p CodeContextProvider) DispatchOption {
	return func(d *Dispatcher) { d.code = p }
}

// WithLanguageDetector sets the language detector.
func WithLanguageDetector(l LanguageDetector) DispatchOption {
	return func(d *Dispatcher) { d.language = l }
}

// WithDocsStyle sets the default documentation style.
func WithDocsStyle(style string) DispatchOption {
	return func(d *Dispatcher) { d.docsStyle = style }
}

// NewDispatcher creates a Dispatcher. Hosts without a selection or language
// detector may omit them.
func NewDispatcher(a *Assistant, opts ...DispatchOption) *Dispatcher {
	d := &Dispatcher{assistant: a}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs cmd and returns the sanitized reply.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (string, error) {
	task, err := ParseCommandName(cmd.Name)
	if err != nil {
		return "", err
	}

	text := cmd.Prompt()
	code, err := d.codeContext(ctx)
	if err != nil {
		return "", fmt.Errorf("read code context: %w", err)
	}

	switch task {
	case prompt.TaskChat:
		if text == "" {
			return "", &PromptRequiredError{Hint: "Please provide a question or prompt for KiloCode."}
		}
		return d.assistant.Run(ctx, prompt.Request{Task: task, Text: text, Code: code})
	case prompt.TaskGenerate:
		if text == "" {
			return "", &PromptRequiredError{Hint: "Please provide a description of the code you want to generate."}
		}
	}

	req := prompt.Request{
		Task:         task,
		Text:         text,
		Code:         code,
		Language:     d.detectLanguage(ctx),
		ErrorMessage: cmd.ErrorMessage,
	}
	if task == prompt.TaskDocs {
		req.Style = cmd.Style
		if req.Style == "" {
			req.Style = d.docsStyle
		}
	}
	// Without a selection the same task runs on the prompt alone.
	return d.assistant.Run(ctx, req)
}

func (d *Dispatcher) codeContext(ctx context.Context) (string, error) {
	if d.code == nil {
		return "", nil
	}
	code, ok, err := d.code.CodeContext(ctx)
	if err != nil || !ok {
		return "", err
	}
	return code, nil
}

func (d *Dispatcher) detectLanguage(ctx context.Context) string {
	if d.language == nil {
		return ""
	}
	lang, ok := d.language.DetectLanguage(ctx)
	if !ok {
		return ""
	}
	return lang
}
