package wordcount_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbase/quill/pkg/wordcount"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "   \t\n  ", want: 0},
		{name: "single word", text: "hello", want: 1},
		{name: "multiple spaces between words", text: "one two  three", want: 3},
		{name: "leading and trailing whitespace", text: "  draft chapter  ", want: 2},
		{name: "newlines and tabs", text: "a\nb\tc\r\nd", want: 4},
		{name: "punctuation kept attached", text: "The quick brown fox jumps.", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wordcount.Count(tt.text))
		})
	}
}

func TestCountDeterministic(t *testing.T) {
	const text = "It was a dark and stormy night."

	first := wordcount.Count(text)
	for range 10 {
		assert.Equal(t, first, wordcount.Count(text))
	}
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter.md")

	err := os.WriteFile(path, []byte("call me ishmael"), 0o644)
	require.NoError(t, err)

	count, err := wordcount.CountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCountFileBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.md")

	err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0, 1, 2}, 0o644)
	require.NoError(t, err)

	count, err := wordcount.CountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountFileMissing(t *testing.T) {
	_, err := wordcount.CountFile(filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
}

func TestIsManuscript(t *testing.T) {
	assert.True(t, wordcount.IsManuscript("chapters/01.md", nil))
	assert.True(t, wordcount.IsManuscript("notes.TXT", nil))
	assert.True(t, wordcount.IsManuscript("script.fountain", nil))
	assert.False(t, wordcount.IsManuscript("cover.png", nil))
	assert.False(t, wordcount.IsManuscript("Makefile", nil))

	// Custom extension list overrides the defaults.
	assert.True(t, wordcount.IsManuscript("a.rst", []string{".rst"}))
	assert.False(t, wordcount.IsManuscript("a.md", []string{".rst"}))
}

func TestCountTree(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chapters"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	files := map[string]string{
		"chapters/01.md":   "one two three",
		"chapters/02.md":   "four five",
		"notes.txt":        "six",
		"cover.png":        "not words at all",
		".git/description": "ignored metadata words",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	total, err := wordcount.CountTree(dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestCountTreeHonorsIgnoreFunc(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755))

	files := map[string]string{
		"chapter.md":                 "one two three",
		"draft.bak.md":               "four five",
		"node_modules/pkg/readme.md": "dependency readme words that are not manuscript",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	var probed []string

	ignored := func(rel string) bool {
		probed = append(probed, rel)

		return rel == "node_modules/" || rel == "draft.bak.md"
	}

	total, err := wordcount.CountTree(dir, nil, ignored)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// The ignored directory was pruned, not descended into.
	assert.NotContains(t, probed, "node_modules/pkg/readme.md")
}
