// Package sanitize post-processes model output before it reaches the editor.
//
// Output strips shell language tags from fenced code blocks so that tools
// which auto-run "```bash" blocks do not pick them up. This is a weak
// mitigation only: the commands inside the block are left as they are and a
// caller that executes model output is not made safe by it.
package sanitize

import "regexp"

// ShellTags are the fence languages that get stripped.
var ShellTags = []string{"bash", "sh", "shell", "powershell", "cmd"}

// shellFence matches a triple backtick followed by one of ShellTags, ending
// at whitespace or end of text so that tags like "shellscript" or "sharp"
// are left alone.
var shellFence = regexp.MustCompile("(?i)```(?:bash|sh|shell|powershell|cmd)(\\s|$)")

// Output rewrites shell-tagged fence openers to a bare fence. It is total
// and idempotent.
func Output(text string) string {
	return shellFence.ReplaceAllString(text, "```$1")
}
