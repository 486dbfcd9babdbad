// Package config loads quill settings from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
)

// Historical constants. The words-per-line estimate and the bar width are
// part of the tool's established output; they are configurable but default
// to the values all existing history was produced with.
const (
	// DefaultWordsPerLine is the heuristic used to turn line deltas into an
	// estimated word delta.
	DefaultWordsPerLine = 5

	// DefaultProgressDays is the trailing window for progress charts.
	DefaultProgressDays = 30

	// DefaultBarWidth is the width of the ASCII progress bar.
	DefaultBarWidth = 50

	// DefaultHistoryLimit bounds plain history listings.
	DefaultHistoryLimit = 20

	// DefaultRemoteName is the remote used for sync operations.
	DefaultRemoteName = "origin"
)

// Validation errors.
var (
	ErrNonPositiveWordsPerLine = errors.New("tracking.words_per_line must be positive")
	ErrNonPositiveBarWidth     = errors.New("progress.bar_width must be positive")
	ErrNonPositiveWindow       = errors.New("progress.days must be positive")
)

// Config is the top-level configuration struct for quill.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Tracking TrackingConfig `mapstructure:"tracking"`
	Progress ProgressConfig `mapstructure:"progress"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Sidecar  SidecarConfig  `mapstructure:"sidecar"`
}

// TrackingConfig holds word-count tracking settings.
type TrackingConfig struct {
	// WordsPerLine converts diff line counts to estimated words.
	WordsPerLine int `mapstructure:"words_per_line"`
	// Extensions are the file extensions counted as manuscript text.
	Extensions []string `mapstructure:"extensions"`
	// HistoryLimit is the default number of commits shown by history.
	HistoryLimit int `mapstructure:"history_limit"`
}

// ProgressConfig holds progress chart settings.
type ProgressConfig struct {
	Days     int `mapstructure:"days"`
	BarWidth int `mapstructure:"bar_width"`
}

// RemoteConfig holds remote sync settings.
type RemoteConfig struct {
	Name string `mapstructure:"name"`
	// Private controls visibility when provisioning a hosted repository.
	Private bool `mapstructure:"private"`
}

// SidecarConfig controls the out-of-band word-count record store.
type SidecarConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Tracking.WordsPerLine <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveWordsPerLine, c.Tracking.WordsPerLine)
	}

	if c.Progress.BarWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveBarWidth, c.Progress.BarWidth)
	}

	if c.Progress.Days <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveWindow, c.Progress.Days)
	}

	return nil
}
