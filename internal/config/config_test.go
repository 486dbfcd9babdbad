package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbase/quill/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultWordsPerLine, cfg.Tracking.WordsPerLine)
	assert.Equal(t, config.DefaultHistoryLimit, cfg.Tracking.HistoryLimit)
	assert.Contains(t, cfg.Tracking.Extensions, ".md")
	assert.Contains(t, cfg.Tracking.Extensions, ".fountain")
	assert.Equal(t, config.DefaultProgressDays, cfg.Progress.Days)
	assert.Equal(t, config.DefaultBarWidth, cfg.Progress.BarWidth)
	assert.Equal(t, config.DefaultRemoteName, cfg.Remote.Name)
	assert.True(t, cfg.Remote.Private)
	assert.True(t, cfg.Sidecar.Enabled)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "quill.yaml")
	content := `
tracking:
  words_per_line: 7
  extensions: [".md"]
progress:
  days: 90
remote:
  name: writing
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Tracking.WordsPerLine)
	assert.Equal(t, []string{".md"}, cfg.Tracking.Extensions)
	assert.Equal(t, 90, cfg.Progress.Days)
	assert.Equal(t, config.DefaultBarWidth, cfg.Progress.BarWidth)
	assert.Equal(t, "writing", cfg.Remote.Name)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "zero words per line",
			content: "tracking:\n  words_per_line: 0\n",
			wantErr: config.ErrNonPositiveWordsPerLine,
		},
		{
			name:    "negative bar width",
			content: "progress:\n  bar_width: -1\n",
			wantErr: config.ErrNonPositiveBarWidth,
		},
		{
			name:    "zero window",
			content: "progress:\n  days: 0\n",
			wantErr: config.ErrNonPositiveWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "quill.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := config.Load(path)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
