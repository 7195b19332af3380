package selection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{"", Range{}, false},
		{"7", Range{Start: 7, End: 7}, false},
		{"3:9", Range{Start: 3, End: 9}, false},
		{"3:", Range{Start: 3}, false},
		{":9", Range{Start: 1, End: 9}, false},
		{"0:2", Range{}, true},
		{"9:3", Range{}, true},
		{"a:b", Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "", Range{}.String())
	assert.Equal(t, "3:9", Range{Start: 3, End: 9}.String())
	assert.Equal(t, "3:", Range{Start: 3}.String())
}

func TestRangeExtract(t *testing.T) {
	text := "one\ntwo\nthree\nfour\n"

	got, err := Range{Start: 2, End: 3}.Extract(text)
	require.NoError(t, err)
	assert.Equal(t, "two\nthree", got)

	got, err = Range{Start: 3}.Extract(text)
	require.NoError(t, err)
	assert.Equal(t, "three\nfour", got)

	got, err = Range{Start: 4, End: 99}.Extract(text)
	require.NoError(t, err)
	assert.Equal(t, "four", got)

	_, err = Range{Start: 5, End: 6}.Extract(text)
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644))

	code, ok, err := File{Path: path}.CodeContext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "package main\n\nfunc main() {}\n", code)

	code, ok, err = File{Path: path, Lines: Range{Start: 3, End: 3}}.CodeContext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "func main() {}", code)

	_, ok, err = File{}.CodeContext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = File{Path: filepath.Join(t.TempDir(), "missing.go")}.CodeContext(ctx)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReader(t *testing.T) {
	ctx := context.Background()

	code, ok, err := Reader{R: strings.NewReader("x := 1\n\n")}.CodeContext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x := 1", code)

	_, ok, err = Reader{R: strings.NewReader("ignored"), IsTerminal: func() bool { return true }}.CodeContext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Reader{R: strings.NewReader("   \n")}.CodeContext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaticAndFirst(t *testing.T) {
	ctx := context.Background()

	_, ok, _ := Static("").CodeContext(ctx)
	assert.False(t, ok)

	code, ok, err := First{Static(""), Static("b"), Static("c")}.CodeContext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", code)

	_, ok, err = First{}.CodeContext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
