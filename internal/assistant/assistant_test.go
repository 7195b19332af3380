package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/chat"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/prompt"
)

type recordingCompleter struct {
	reply string
	err   error
	calls [][]chat.Message
}

func (r *recordingCompleter) Complete(_ context.Context, messages []chat.Message) (string, error) {
	r.calls = append(r.calls, messages)
	return r.reply, r.err
}

func (r *recordingCompleter) lastUser(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.calls)
	msgs := r.calls[len(r.calls)-1]
	require.Len(t, msgs, 2)
	return msgs[1].Content
}

func TestRunSanitizesReply(t *testing.T) {
	c := &recordingCompleter{reply: "Run:\n```bash\nrm -rf /\n```"}
	a := New(c, nil)

	got, err := a.Chat(context.Background(), "how do I clean up?", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Run:\n```\nrm -rf /\n```", got)
}

func TestInputTooLargeMakesNoCall(t *testing.T) {
	c := &recordingCompleter{reply: "unused"}
	a := New(c, nil)

	_, err := a.Chat(context.Background(), strings.Repeat("a", MaxInputChars+1), "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputTooLarge))

	var tooLarge *InputTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, "prompt", tooLarge.Field)
	assert.Equal(t, MaxInputChars+1, tooLarge.Length)
	assert.Empty(t, c.calls)
}

func TestInputAtLimitIsAccepted(t *testing.T) {
	c := &recordingCompleter{reply: "ok"}
	a := New(c, nil)

	_, err := a.ExplainCode(context.Background(), strings.Repeat("x", MaxInputChars), "", "")
	require.NoError(t, err)
	assert.Len(t, c.calls, 1)
}

func TestInputLimitCountsCharacters(t *testing.T) {
	c := &recordingCompleter{reply: "ok"}
	a := New(c, nil, WithMaxInput(3))

	// Three runes, nine bytes.
	_, err := a.Chat(context.Background(), "日本語", "", nil)
	require.NoError(t, err)

	_, err = a.FixCode(context.Background(), "x", "エラーです", "")
	var tooLarge *InputTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, "error message", tooLarge.Field)
	assert.Len(t, c.calls, 1)
}

func TestLanguageAndStyleAreSizeChecked(t *testing.T) {
	c := &recordingCompleter{reply: "ok"}
	a := New(c, nil)
	huge := strings.Repeat("z", MaxInputChars+1)

	_, err := a.GenerateDocs(context.Background(), "x", "go", huge)
	var tooLarge *InputTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, "style", tooLarge.Field)

	_, err = a.GenerateCode(context.Background(), "a queue", "", huge)
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, "language", tooLarge.Field)
	assert.Empty(t, c.calls)
}

func TestChatRejectsHistory(t *testing.T) {
	c := &recordingCompleter{reply: "ok"}
	a := New(c, nil)

	history := []chat.Message{chat.UserMessage("earlier"), {Role: chat.RoleAssistant, Content: "reply"}}
	_, err := a.Chat(context.Background(), "again", "", history)
	assert.ErrorIs(t, err, ErrHistoryUnsupported)
	assert.Empty(t, c.calls)
}

func TestCompleterErrorPassesThrough(t *testing.T) {
	c := &recordingCompleter{err: chat.ErrEmptyResponse}
	a := New(c, nil)

	_, err := a.GenerateCode(context.Background(), "a stack", "", "go")
	assert.ErrorIs(t, err, chat.ErrEmptyResponse)
}

func TestTaskOperationsBuildTaskPrompts(t *testing.T) {
	ctx := context.Background()
	registry := prompt.DefaultRegistry()
	c := &recordingCompleter{reply: "ok"}
	a := New(c, prompt.NewBuilder(registry))

	tests := []struct {
		name   string
		run    func() (string, error)
		task   prompt.TaskKind
		suffix string
	}{
		{"generate", func() (string, error) { return a.GenerateCode(ctx, "a parser", "", "go") }, prompt.TaskGenerate, "Generate go code for: a parser"},
		{"explain", func() (string, error) { return a.ExplainCode(ctx, "x := 1", "", "go") }, prompt.TaskExplain, "Explain this go code in detail."},
		{"refactor", func() (string, error) { return a.RefactorCode(ctx, "x := 1", "", "") }, prompt.TaskRefactor, prompt.DefaultRefactorInstruction},
		{"fix", func() (string, error) { return a.FixCode(ctx, "x := 1", "boom", "") }, prompt.TaskFix, "Fix the bugs in this code. Error: boom"},
		{"docs", func() (string, error) { return a.GenerateDocs(ctx, "fn f() {}", "rust", "rustdoc") }, prompt.TaskDocs, "Generate rustdoc documentation for this rust code."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run()
			require.NoError(t, err)
			msgs := c.calls[len(c.calls)-1]
			assert.Equal(t, registry.Get(tt.task), msgs[0].Content)
			assert.True(t, strings.HasSuffix(msgs[1].Content, tt.suffix), msgs[1].Content)
		})
	}
}
