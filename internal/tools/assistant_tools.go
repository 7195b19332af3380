package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/assistant"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/language"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/selection"
)

// Instructions is the MCP server description shown to clients.
const Instructions = `KiloCode coding assistant backed by an OpenAI-compatible chat completion API.

Available tools:
- kc: Ask a free-form question, optionally about some code
- kc-explain: Explain code
- kc-generate: Generate code from a description
- kc-refactor: Suggest a refactoring
- kc-fix: Fix bugs, optionally given an error message
- kc-docs: Generate documentation
- kc-detect: Detect the project language of a directory
- kc-status: Show the configured endpoint and model

Code context comes from "code", or from "file_path" (with an optional "lines" range such as "10:40") when "code" is empty.`

// AssistantInput defines input for the assistant tools.
type AssistantInput struct {
	Prompt       string `json:"prompt,omitempty" jsonschema:"Question, description or extra instructions"`
	Code         string `json:"code,omitempty" jsonschema:"Code context, usually the editor selection"`
	FilePath     string `json:"file_path,omitempty" jsonschema:"File to read code context from when code is empty"`
	Lines        string `json:"lines,omitempty" jsonschema:"Line range within file_path, e.g. 10:40"`
	Language     string `json:"language,omitempty" jsonschema:"Language hint (default: detected from file_path or the project)"`
	ErrorMessage string `json:"error_message,omitempty" jsonschema:"Compiler or runtime error (kc-fix only)"`
	Style        string `json:"style,omitempty" jsonschema:"Documentation style such as rustdoc or godoc (kc-docs only)"`
}

// AssistantOutput defines output for the assistant tools.
type AssistantOutput struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}

// DetectInput defines input for kc-detect.
type DetectInput struct {
	Path string `json:"path,omitempty" jsonschema:"Directory to inspect (defaults to current dir)"`
}

// DetectOutput defines output for kc-detect.
type DetectOutput struct {
	Found   bool              `json:"found"`
	Project *language.Project `json:"project,omitempty"`
}

// StatusInput is empty; kc-status takes no arguments.
type StatusInput struct{}

// StatusOutput defines output for kc-status.
type StatusOutput struct {
	Provider string `json:"provider,omitempty"`
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
	Backend  string `json:"backend"`
	APIKey   string `json:"api_key"`
}

// Options configures the assistant tools.
type Options struct {
	Config    config.ClientConfig
	DocsStyle string
	Logger    *slog.Logger
}

var commandDescriptions = map[string]string{
	"kc":          "Ask KiloCode a question. Requires prompt; code is optional context.",
	"kc-explain":  "Explain code. prompt may narrow the question.",
	"kc-generate": "Generate code for the description in prompt, in language if given.",
	"kc-refactor": "Suggest a refactoring. prompt may give specific instructions.",
	"kc-fix":      "Fix bugs in code. Pass the compiler or runtime error as error_message.",
	"kc-docs":     "Generate documentation for code, in style if given.",
}

// NewServer creates an MCP server exposing the assistant tools.
func NewServer(version string, a *assistant.Assistant, opts Options) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "kilocode",
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			Instructions: Instructions,
		},
	)
	RegisterAssistantTools(server, a, opts)
	return server
}

// RegisterAssistantTools registers one tool per assistant command plus
// kc-detect and kc-status.
func RegisterAssistantTools(server *mcp.Server, a *assistant.Assistant, opts Options) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	for _, name := range assistant.CommandNames() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        name,
			Description: commandDescriptions[name],
		}, commandHandler(name, a, opts))
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "kc-detect",
		Description: "Detect the project root and language by walking up from path.",
	}, handleDetect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "kc-status",
		Description: "Show the endpoint, model and backend in use. The API key is masked.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		cfg := opts.Config
		return nil, StatusOutput{
			Provider: cfg.Provider,
			Endpoint: cfg.BaseURL,
			Model:    cfg.Model,
			Backend:  cfg.Backend,
			APIKey:   cfg.MaskedKey(),
		}, nil
	})
}

func commandHandler(name string, a *assistant.Assistant, opts Options) func(context.Context, *mcp.CallToolRequest, AssistantInput) (*mcp.CallToolResult, AssistantOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AssistantInput) (*mcp.CallToolResult, AssistantOutput, error) {
		lines, err := selection.ParseRange(input.Lines)
		if err != nil {
			return errorResult(err.Error()), AssistantOutput{}, nil
		}

		d := assistant.NewDispatcher(a,
			assistant.WithCodeContext(selection.First{
				selection.Static(input.Code),
				selection.File{Path: input.FilePath, Lines: lines},
			}),
			assistant.WithLanguageDetector(language.Detector{
				Override: input.Language,
				FilePath: input.FilePath,
			}),
			assistant.WithDocsStyle(opts.DocsStyle),
		)

		text, err := d.Dispatch(ctx, assistant.Command{
			Name:         name,
			Args:         []string{input.Prompt},
			FilePath:     input.FilePath,
			ErrorMessage: input.ErrorMessage,
			Style:        input.Style,
		})
		if err != nil {
			opts.Logger.Warn("tool call failed", "tool", name, "error", err)
			return errorResult(err.Error()), AssistantOutput{}, nil
		}

		opts.Logger.Debug("tool call completed", "tool", name, "chars", len(text))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, AssistantOutput{Command: name, Text: text}, nil
	}
}

func handleDetect(ctx context.Context, req *mcp.CallToolRequest, input DetectInput) (*mcp.CallToolResult, DetectOutput, error) {
	path := input.Path
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to get working directory: %v", err)), DetectOutput{}, nil
		}
		path = cwd
	}

	proj := language.DetectProject(path)
	if proj == nil {
		return nil, DetectOutput{Found: false}, nil
	}
	return nil, DetectOutput{Found: true, Project: proj}, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
