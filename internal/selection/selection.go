// Package selection provides code context for the dispatcher: a fixed
// string, a file with an optional line range, or piped standard input.
package selection

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Provider is satisfied by every type in this package.
type Provider interface {
	CodeContext(ctx context.Context) (string, bool, error)
}

// Static is a selection handed over by the host. Empty means nothing selected.
type Static string

func (s Static) CodeContext(context.Context) (string, bool, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", false, nil
	}
	return string(s), true, nil
}

// Range is an inclusive, 1-based line range. The zero value selects the whole file.
type Range struct {
	Start int
	End   int
}

// IsZero reports whether r selects the whole file.
func (r Range) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

func (r Range) String() string {
	if r.IsZero() {
		return ""
	}
	if r.End == 0 {
		return fmt.Sprintf("%d:", r.Start)
	}
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// ParseRange parses "12", "12:40", "12:" or ":40".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, nil
	}

	startStr, endStr, hasColon := strings.Cut(s, ":")
	if !hasColon {
		endStr = startStr
	}

	var r Range
	var err error
	if startStr != "" {
		if r.Start, err = strconv.Atoi(startStr); err != nil || r.Start < 1 {
			return Range{}, fmt.Errorf("invalid line range %q: start must be a positive line number", s)
		}
	} else {
		r.Start = 1
	}
	if endStr != "" {
		if r.End, err = strconv.Atoi(endStr); err != nil || r.End < 1 {
			return Range{}, fmt.Errorf("invalid line range %q: end must be a positive line number", s)
		}
		if r.End < r.Start {
			return Range{}, fmt.Errorf("invalid line range %q: end before start", s)
		}
	}
	return r, nil
}

// Extract returns the lines of text selected by r.
func (r Range) Extract(text string) (string, error) {
	if r.IsZero() {
		return text, nil
	}
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if r.Start > len(lines) {
		return "", fmt.Errorf("line %d is past the end of the file (%d lines)", r.Start, len(lines))
	}
	end := r.End
	if end == 0 || end > len(lines) {
		end = len(lines)
	}
	return strings.TrimSuffix(strings.Join(lines[r.Start-1:end], ""), "\n"), nil
}

// File reads code context from a file on disk.
type File struct {
	Path  string
	Lines Range
}

func (f File) CodeContext(context.Context) (string, bool, error) {
	if f.Path == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", f.Path, err)
	}
	code, err := f.Lines.Extract(string(data))
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", f.Path, err)
	}
	if strings.TrimSpace(code) == "" {
		return "", false, nil
	}
	return code, true, nil
}

// Reader reads code context from a stream, typically piped stdin.
// Terminal input is ignored so an interactive shell never blocks.
type Reader struct {
	R io.Reader
	// IsTerminal reports whether R is interactive. Nil means never.
	IsTerminal func() bool
}

// Stdin returns a Reader over os.Stdin.
func Stdin() Reader {
	return Reader{
		R: os.Stdin,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (r Reader) CodeContext(context.Context) (string, bool, error) {
	if r.R == nil || (r.IsTerminal != nil && r.IsTerminal()) {
		return "", false, nil
	}
	data, err := io.ReadAll(r.R)
	if err != nil {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return strings.TrimRight(string(data), "\n"), true, nil
}

// First returns the code of the first provider that has some.
type First []Provider

func (f First) CodeContext(ctx context.Context) (string, bool, error) {
	for _, p := range f {
		code, ok, err := p.CodeContext(ctx)
		if err != nil {
			return "", false, err
		}
		if ok {
			return code, true, nil
		}
	}
	return "", false, nil
}
