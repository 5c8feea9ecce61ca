package cloze

import (
	"fmt"

	"github.com/FocuswithJustin/Recite/core/errors"
)

// Default configuration values.
const (
	// DefaultWindowSize is the maximum number of display lines shown per card.
	DefaultWindowSize = 13
	// DefaultMaxLineLength is the wrap threshold in characters.
	DefaultMaxLineLength = 50
	// DefaultIndentWidth is the extra indent given to wrap continuations.
	DefaultIndentWidth = 4
	// MultiStanzaThreshold is the maximum stanza length eligible for pairing.
	MultiStanzaThreshold = 2
)

// Config controls card generation. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// WindowSize is the maximum context window length in display lines.
	WindowSize int

	// ShuffleLines selects the seeded-permutation line ordering. When false
	// lines are hidden in ascending order and transition cards are emitted
	// at stanza boundaries.
	ShuffleLines bool

	// Seed drives the per-stanza permutations. Nil means a fresh random
	// seed per invocation; generation is reproducible whenever the seed is
	// pinned.
	Seed *uint64

	// MultiStanza enables combined cards over adjacent short stanzas.
	MultiStanza bool

	// WrapLines enables word-wrapping of over-length lines.
	WrapLines bool

	// MaxLineLength is the wrap threshold, measured in runes.
	MaxLineLength int

	// IndentWidth is the extra indentation of wrap continuation lines.
	IndentWidth int
}

// DefaultConfig returns the standard generation configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:    DefaultWindowSize,
		ShuffleLines:  true,
		MultiStanza:   false,
		WrapLines:     true,
		MaxLineLength: DefaultMaxLineLength,
		IndentWidth:   DefaultIndentWidth,
	}
}

// Validate checks configuration ranges. Out-of-range values fail fast and
// are never silently clamped.
func (c Config) Validate() error {
	if c.WindowSize < 1 {
		return errors.NewValidation("window_size",
			fmt.Sprintf("must be at least 1, got %d", c.WindowSize))
	}
	if c.MaxLineLength < 1 {
		return errors.NewValidation("max_line_length",
			fmt.Sprintf("must be at least 1, got %d", c.MaxLineLength))
	}
	if c.IndentWidth < 0 {
		return errors.NewValidation("indent_width",
			fmt.Sprintf("must not be negative, got %d", c.IndentWidth))
	}
	return nil
}

// wrapConfig extracts the flattener's slice of the configuration.
func (c Config) wrapConfig() WrapConfig {
	return WrapConfig{
		Enabled:       c.WrapLines,
		MaxLineLength: c.MaxLineLength,
		IndentWidth:   c.IndentWidth,
	}
}
