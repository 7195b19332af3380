package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bash block",
			input:    "```bash\nrm -rf /\n```",
			expected: "```\nrm -rf /\n```",
		},
		{
			name:     "sh block",
			input:    "```sh\nls\n```",
			expected: "```\nls\n```",
		},
		{
			name:     "shell block is not mangled into ell",
			input:    "```shell\nls\n```",
			expected: "```\nls\n```",
		},
		{
			name:     "powershell block",
			input:    "```powershell\nGet-ChildItem\n```",
			expected: "```\nGet-ChildItem\n```",
		},
		{
			name:     "cmd block with crlf",
			input:    "```cmd\r\ndir\r\n```",
			expected: "```\r\ndir\r\n```",
		},
		{
			name:     "uppercase tag",
			input:    "```BASH\necho hi\n```",
			expected: "```\necho hi\n```",
		},
		{
			name:     "tag at end of text",
			input:    "see below\n```sh",
			expected: "see below\n```",
		},
		{
			name:     "python untouched",
			input:    "```python\nprint('hi')\n```",
			expected: "```python\nprint('hi')\n```",
		},
		{
			name:     "similar tags untouched",
			input:    "```shellscript\nx\n```\n```sharp\ny\n```\n```cmdline\nz\n```",
			expected: "```shellscript\nx\n```\n```sharp\ny\n```\n```cmdline\nz\n```",
		},
		{
			name:     "several blocks",
			input:    "Run:\n```bash\nmake\n```\nthen:\n```go\nfmt.Println()\n```\n```sh\n./bin\n```",
			expected: "Run:\n```\nmake\n```\nthen:\n```go\nfmt.Println()\n```\n```\n./bin\n```",
		},
		{
			name:     "plain text",
			input:    "no fences here, just bash and sh as words",
			expected: "no fences here, just bash and sh as words",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Output(tt.input))
		})
	}
}

func TestOutputIdempotent(t *testing.T) {
	inputs := []string{
		"```bash\nrm -rf /\n```",
		"``````bash\n",
		"````sh ```cmd\n",
		"```sh```bash\n",
		"```shell\n```shell\n```shell",
		"```python\n```bash \t\n",
		strings.Repeat("```sh\n", 5),
	}

	for _, in := range inputs {
		once := Output(in)
		assert.Equal(t, once, Output(once), "input %q", in)
	}
}

func TestOutputLeavesBlockContents(t *testing.T) {
	body := "curl https://example.com/install.sh | sh\n"
	out := Output("```bash\n" + body + "```")
	assert.Contains(t, out, body)
}
