package cloze

import (
	"strings"

	"github.com/FocuswithJustin/Recite/core/poem"
)

// WrapConfig controls word-wrapping during flattening.
type WrapConfig struct {
	// Enabled turns wrapping on. When false, lines pass through untouched.
	Enabled bool

	// MaxLineLength is the wrap threshold, measured in runes.
	MaxLineLength int

	// IndentWidth is the extra indentation prefixed to continuation lines,
	// on top of the source line's own leading whitespace.
	IndentWidth int
}

// DefaultWrapConfig returns the standard wrap configuration.
func DefaultWrapConfig() WrapConfig {
	return WrapConfig{
		Enabled:       true,
		MaxLineLength: DefaultMaxLineLength,
		IndentWidth:   DefaultIndentWidth,
	}
}

// DisplayLine is one line as it visually appears on a card. It is the atomic
// unit the windowing algorithm positions over.
type DisplayLine struct {
	// Text is the display text, including continuation indentation.
	Text string `json:"text"`

	// Stanza is the originating stanza index, or -1 for break lines.
	Stanza int `json:"stanza"`

	// Line is the originating in-stanza line index, or -1 for break lines.
	Line int `json:"line"`

	// IsBreak marks the blank separator inserted between stanzas.
	IsBreak bool `json:"is_break,omitempty"`

	// Continuation marks a segment produced by wrapping an over-length line.
	Continuation bool `json:"continuation,omitempty"`
}

// Span is a half-open range [Start, End) of flat positions.
type Span struct {
	Start int
	End   int
}

// Len returns the number of positions the span covers.
func (s Span) Len() int { return s.End - s.Start }

// LineKey addresses one logical source line.
type LineKey struct {
	Stanza int
	Line   int
}

// FlatSequence is the flattened form of a poem: the display lines in order,
// plus the mapping from each logical line to the contiguous run of flat
// positions it occupies (a line and all its wrap continuations form one
// hide-able unit).
type FlatSequence struct {
	Lines []DisplayLine
	units map[LineKey]Span
}

// Len returns the total number of display lines, breaks included.
func (f *FlatSequence) Len() int { return len(f.Lines) }

// Unit returns the flat span occupied by the given logical line.
func (f *FlatSequence) Unit(stanza, line int) (Span, bool) {
	s, ok := f.units[LineKey{Stanza: stanza, Line: line}]
	return s, ok
}

// Flatten turns a poem's stanza/line structure into one flat ordered
// sequence of display lines. Exactly one break line separates consecutive
// stanzas; there is none before the first stanza or after the last. An empty
// stanza contributes no content lines but still separates its neighbors.
// Flattening is total over any well-formed poem.
func Flatten(p *poem.Poem, cfg WrapConfig) *FlatSequence {
	seq := &FlatSequence{units: make(map[LineKey]Span)}

	for si, stanza := range p.Stanzas {
		if si > 0 {
			seq.Lines = append(seq.Lines, DisplayLine{Stanza: -1, Line: -1, IsBreak: true})
		}
		for li, line := range stanza.Lines {
			start := len(seq.Lines)
			for segIdx, seg := range wrapLine(line.Text, cfg) {
				seq.Lines = append(seq.Lines, DisplayLine{
					Text:         seg,
					Stanza:       si,
					Line:         li,
					Continuation: segIdx > 0,
				})
			}
			seq.units[LineKey{Stanza: si, Line: li}] = Span{Start: start, End: len(seq.Lines)}
		}
	}

	return seq
}

// wrapLine splits one source line into display segments. Splits happen at
// the last word boundary at or before the limit; a word longer than the
// limit is split at the limit itself. Continuation segments carry the source
// line's leading whitespace plus the configured extra indent.
func wrapLine(text string, cfg WrapConfig) []string {
	if !cfg.Enabled || runeLen(text) <= cfg.MaxLineLength {
		return []string{text}
	}

	leading := leadingWhitespace(text)
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	contIndent := leading + strings.Repeat(" ", cfg.IndentWidth)

	var segments []string
	current := leading
	prefix := ""
	for _, word := range words {
		candidate := current + prefix + word
		switch {
		case current == leading && prefix == "":
			// First word on a fresh segment always goes in; hard-split below
			// if it alone exceeds the limit.
			current = candidate
		case runeLen(candidate) <= cfg.MaxLineLength:
			current = candidate
		default:
			segments = appendHardSplit(segments, current, cfg.MaxLineLength)
			current = contIndent + word
		}
		prefix = " "
	}
	segments = appendHardSplit(segments, current, cfg.MaxLineLength)

	return segments
}

// appendHardSplit appends a segment, splitting at the limit when the segment
// itself has no word boundary before it.
func appendHardSplit(segments []string, seg string, limit int) []string {
	runes := []rune(seg)
	for len(runes) > limit {
		segments = append(segments, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(segments, string(runes))
}

// leadingWhitespace returns the run of spaces and tabs at the start of s.
func leadingWhitespace(s string) string {
	for i, r := range s {
		if r != ' ' && r != '\t' {
			return s[:i]
		}
	}
	return s
}

func runeLen(s string) int {
	return len([]rune(s))
}
