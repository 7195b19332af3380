package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/assistant"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/chat"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/logutil"
)

type fakeCompleter struct {
	reply    string
	lastUser string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []chat.Message) (string, error) {
	f.lastUser = messages[len(messages)-1].Content
	return f.reply, nil
}

func connect(t *testing.T, completer chat.Completer, opts Options) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	if opts.Logger == nil {
		opts.Logger = logutil.Discard()
	}
	server := NewServer("test", assistant.New(completer, nil), opts)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, &fakeCompleter{}, Options{})

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range append(assistant.CommandNames(), "kc-detect", "kc-status") {
		assert.Contains(t, names, want)
	}
}

func TestExplainToolSanitizesReply(t *testing.T) {
	fc := &fakeCompleter{reply: "It prints.\n```sh\necho hi\n```"}
	cs := connect(t, fc, Options{})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "kc-explain",
		Arguments: map[string]any{"code": "fmt.Println(1)", "language": "go"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "It prints.\n```\necho hi\n```", resultText(t, res))
	assert.True(t, strings.HasSuffix(fc.lastUser, "Explain this go code in detail."))
}

func TestToolReadsFileRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn a() {}\nfn b() {}\nfn c() {}\n"), 0644))

	fc := &fakeCompleter{reply: "ok"}
	cs := connect(t, fc, Options{DocsStyle: "rustdoc"})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "kc-docs",
		Arguments: map[string]any{"file_path": path, "lines": "2"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Here is the code context:\n```\nfn b() {}\n```\n\nGenerate rustdoc documentation for this rust code.", fc.lastUser)
}

func TestToolErrorsAreToolResults(t *testing.T) {
	cs := connect(t, &fakeCompleter{reply: "unused"}, Options{})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "kc",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Please provide a question or prompt for KiloCode.", resultText(t, res))

	res, err = cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "kc-explain",
		Arguments: map[string]any{"code": "x", "lines": "9:1"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestStatusMasksKey(t *testing.T) {
	cfg := config.ClientConfig{
		APIKey:  "sk-abcdefghijklmnop",
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama3-70b-8192",
		Backend: config.BackendHTTP,
	}
	cs := connect(t, &fakeCompleter{}, Options{Config: cfg})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "kc-status", Arguments: map[string]any{}})
	require.NoError(t, err)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out StatusOutput
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "llama3-70b-8192", out.Model)
	assert.Equal(t, cfg.BaseURL, out.Endpoint)
	assert.Equal(t, cfg.MaskedKey(), out.APIKey)
	assert.NotContains(t, out.APIKey, "abcdefghijklmnop")
}

func TestDetectTool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/tool\n"), 0644))

	cs := connect(t, &fakeCompleter{}, Options{})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "kc-detect",
		Arguments: map[string]any{"path": dir},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out DetectOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Found)
	require.NotNil(t, out.Project)
	assert.Equal(t, "go", out.Project.Language)
	assert.Equal(t, "tool", out.Project.Name)
}
