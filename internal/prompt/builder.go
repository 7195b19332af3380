package prompt

import (
	"fmt"
	"strings"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/chat"
)

// Request carries the inputs of one task. Empty strings mean "not supplied".
type Request struct {
	Task TaskKind
	// Text is the caller's free-text prompt or instruction.
	Text string
	// Code is the code context, typically the editor selection.
	Code string
	// Language is a language hint such as "go" or "rust".
	Language string
	// ErrorMessage is a compiler or runtime error, used by TaskFix.
	ErrorMessage string
	// Style is a documentation style such as "rustdoc", used by TaskDocs.
	Style string
}

// Default instructions used when the caller gives no text.
const (
	DefaultRefactorInstruction = "Suggest refactoring improvements for this code to make it more readable, maintainable, and efficient."
	DefaultFixInstruction      = "Fix the bugs in this code."
)

// Builder produces message sequences. It performs no validation.
type Builder struct {
	registry *Registry
}

// NewBuilder returns a builder over registry, or the default prompts if nil.
func NewBuilder(registry *Registry) *Builder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Builder{registry: registry}
}

// Registry returns the prompt registry in use.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Build returns exactly [system, user] for req.
func (b *Builder) Build(req Request) []chat.Message {
	instruction := Instruction(req)

	content := instruction
	if req.Code != "" {
		content = fmt.Sprintf("Here is the code context:\n```\n%s\n```\n\n%s", req.Code, instruction)
	}

	return []chat.Message{
		chat.SystemMessage(b.registry.Get(req.Task)),
		chat.UserMessage(content),
	}
}

// Instruction phrases the user turn for req, without the code context.
func Instruction(req Request) string {
	text := strings.TrimSpace(req.Text)
	lang := strings.TrimSpace(req.Language)

	switch req.Task {
	case TaskGenerate:
		if lang != "" {
			return fmt.Sprintf("Generate %s code for: %s", lang, text)
		}
		return "Generate code for: " + text

	case TaskExplain:
		subject := "this code"
		if lang != "" {
			subject = fmt.Sprintf("this %s code", lang)
		}
		if text == "" {
			return fmt.Sprintf("Explain %s in detail.", subject)
		}
		return fmt.Sprintf("Explain %s: %s", subject, text)

	case TaskRefactor:
		if text == "" {
			return DefaultRefactorInstruction
		}
		if lang != "" {
			return fmt.Sprintf("Refactor this %s code. %s", lang, text)
		}
		return "Refactor this code. " + text

	case TaskFix:
		msg := text
		if msg == "" {
			msg = DefaultFixInstruction
		}
		if errMsg := strings.TrimSpace(req.ErrorMessage); errMsg != "" {
			msg = fmt.Sprintf("%s Error: %s", msg, errMsg)
		}
		if lang != "" {
			msg = fmt.Sprintf("%s (Language: %s)", msg, lang)
		}
		return msg

	case TaskDocs:
		msg := docsInstruction(strings.TrimSpace(req.Style), lang)
		if text != "" {
			msg += "\n\n" + text
		}
		return msg

	default:
		return req.Text
	}
}

func docsInstruction(style, lang string) string {
	var b strings.Builder
	b.WriteString("Generate ")
	if style != "" {
		b.WriteString(style)
		b.WriteString(" ")
	}
	b.WriteString("documentation for this ")
	if lang != "" {
		b.WriteString(lang)
		b.WriteString(" ")
	}
	b.WriteString("code.")
	return b.String()
}
