package cloze

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/FocuswithJustin/Recite/core/errors"
	"github.com/FocuswithJustin/Recite/core/identity"
	"github.com/FocuswithJustin/Recite/core/poem"
)

// Card tag constants.
const (
	TagMultiStanza = "multi-stanza"
	TagTransition  = "transition"
)

// CardSpec is one generated card: a window of display lines with exactly one
// hidden unit. CardSpecs are produced, never mutated; the rendering and
// export layers consume them as-is.
type CardSpec struct {
	// Window is the ordered slice of display lines shown on the card.
	Window []DisplayLine `json:"window"`

	// HiddenStart and HiddenEnd locate the hidden unit within Window as a
	// half-open index range. The unit spans several positions when the
	// hidden source line was word-wrapped.
	HiddenStart int `json:"hidden_start"`
	HiddenEnd   int `json:"hidden_end"`

	// Stanza is the index of the stanza owning the hidden line.
	Stanza int `json:"stanza"`

	// HiddenLine is the canonical in-stanza index of the hidden line.
	HiddenLine int `json:"hidden_line"`

	// Stanzas lists the stanza indices the window covers (one, or two for
	// multi-stanza cards).
	Stanzas []int `json:"stanzas"`

	// Pass is the review pass number, 0-indexed.
	Pass int `json:"pass"`

	// Kind is the card family.
	Kind identity.Kind `json:"kind"`

	// ID is the stable hex identifier for this card.
	ID string `json:"id"`

	// NoteID is the 63-bit reduction of the identifier for the export target.
	NoteID int64 `json:"note_id"`

	// Tags carries descriptive tags (title/author slugs, pass number,
	// card-family markers).
	Tags []string `json:"tags"`
}

// GenerateCards is the single entry point of the core: it enumerates the
// full deterministic card set for one poem. The poem and configuration are
// validated before any card is produced; a validation failure aborts
// generation for this poem without side effects on any other.
func GenerateCards(p *poem.Poem, cfg Config) ([]CardSpec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if errs := poem.ValidatePoem(p); len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "invalid poem %q (%d problems)", p.Title, len(errs))
	}

	seed := uint64(0)
	if cfg.ShuffleLines {
		seed = resolveSeed(cfg.Seed)
	}

	poemKey := identity.PoemKey(p.Title, p.AuthorOrDefault(), p.Source, p.Path)
	seq := Flatten(p, cfg.wrapConfig())

	stanzaLens := make([]int, len(p.Stanzas))
	for si, s := range p.Stanzas {
		stanzaLens[si] = len(s.Lines)
	}
	plan := newPlanner(poemKey, stanzaLens, cfg.ShuffleLines, seed)

	baseTags := []string{
		"title:" + identity.Slug(p.Title),
		"author:" + identity.Slug(p.AuthorOrDefault()),
	}

	var cards []CardSpec
	for pass := 0; pass < plan.Passes(); pass++ {
		for si := range p.Stanzas {
			line, ok := plan.HiddenLine(si, pass)
			if !ok {
				continue
			}
			ref := identity.CardRef{
				Kind:   identity.KindCloze,
				Stanza: si,
				Line:   line,
				Pass:   pass,
				Paired: -1,
			}
			tags := append(append([]string(nil), baseTags...),
				fmt.Sprintf("pass:%d", pass+1))
			cards = append(cards, buildCard(seq, poemKey, ref, []int{si}, tags, cfg.WindowSize))
		}
	}

	if !cfg.ShuffleLines {
		cards = append(cards, transitionCards(p, seq, poemKey, baseTags, cfg.WindowSize)...)
	}
	if cfg.MultiStanza {
		cards = append(cards, multiStanzaCards(p, poemKey, baseTags, cfg)...)
	}

	return cards, nil
}

// buildCard assembles one CardSpec for the given structural coordinate over
// the given flat sequence.
func buildCard(seq *FlatSequence, poemKey string, ref identity.CardRef, stanzas []int, tags []string, windowSize int) CardSpec {
	unit, _ := seq.Unit(ref.Stanza, ref.Line)
	win := SelectWindow(seq.Len(), unit, windowSize)

	window := make([]DisplayLine, win.Len())
	copy(window, seq.Lines[win.Start:win.End])

	return CardSpec{
		Window:      window,
		HiddenStart: win.HiddenStart,
		HiddenEnd:   win.HiddenEnd,
		Stanza:      ref.Stanza,
		HiddenLine:  ref.Line,
		Stanzas:     stanzas,
		Pass:        ref.Pass,
		Kind:        ref.Kind,
		ID:          identity.CardID(poemKey, ref),
		NoteID:      identity.NoteID(poemKey, ref),
		Tags:        tags,
	}
}

// transitionCards emits one card per stanza boundary, hiding the first line
// of the following stanza so its window spans the transition. These exist
// only in the sequential (non-shuffled) mode.
func transitionCards(p *poem.Poem, seq *FlatSequence, poemKey string, baseTags []string, windowSize int) []CardSpec {
	var cards []CardSpec
	for si := 0; si+1 < len(p.Stanzas); si++ {
		next := si + 1
		if len(p.Stanzas[next].Lines) == 0 {
			continue
		}
		ref := identity.CardRef{
			Kind:   identity.KindTransition,
			Stanza: next,
			Line:   0,
			Pass:   0,
			Paired: si,
		}
		tags := append(append([]string(nil), baseTags...), TagTransition)
		card := buildCard(seq, poemKey, ref, []int{si, next}, tags, windowSize)
		cards = append(cards, card)
	}
	return cards
}

// resolveSeed returns the pinned seed when provided, otherwise a fresh one
// from the system entropy source. All later randomness derives from the
// returned value, never from ambient global state.
func resolveSeed(pinned *uint64) uint64 {
	if pinned != nil {
		return *pinned
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// The system entropy source failing is unrecoverable in practice;
		// a constant keeps generation total rather than failing the poem.
		return 0
	}
	return binary.BigEndian.Uint64(buf[:])
}
