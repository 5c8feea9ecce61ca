package identity

import (
	"strings"
	"testing"
)

func TestPoemKeyPrefersSourceURL(t *testing.T) {
	withURL := PoemKey("The Raven", "Edgar Allan Poe", "https://example.com/raven", "poems/raven.md")
	withPath := PoemKey("The Raven", "Edgar Allan Poe", "", "poems/raven.md")

	if withURL == withPath {
		t.Error("keys with different origins should differ")
	}
	if !strings.HasPrefix(withURL, "the-raven|edgar-allan-poe|") {
		t.Errorf("key should start with slugged title and author, got %q", withURL)
	}
	if !strings.HasSuffix(withPath, "poems/raven.md") {
		t.Errorf("path fallback missing from key %q", withPath)
	}
}

func TestPoemKeyIgnoresCaseAndPunctuation(t *testing.T) {
	a := PoemKey("Ode to a Nightingale", "John Keats", "", "a.md")
	b := PoemKey("ode to a nightingale!", "JOHN KEATS", "", "a.md")
	if a != b {
		t.Errorf("slug normalization should make keys equal: %q vs %q", a, b)
	}
}

func TestCardIDStable(t *testing.T) {
	key := PoemKey("Ozymandias", "Shelley", "", "poems/ozymandias.md")
	ref := CardRef{Kind: KindCloze, Stanza: 0, Line: 2, Pass: 1, Paired: -1}

	first := CardID(key, ref)
	second := CardID(key, ref)
	if first != second {
		t.Errorf("CardID not stable: %q vs %q", first, second)
	}
	if len(first) != 16 {
		t.Errorf("CardID length = %d, want 16", len(first))
	}
}

func TestCardIDVariesByCoordinate(t *testing.T) {
	key := PoemKey("Ozymandias", "Shelley", "", "poems/ozymandias.md")
	base := CardRef{Kind: KindCloze, Stanza: 0, Line: 0, Pass: 0, Paired: -1}

	seen := map[string]CardRef{}
	variants := []CardRef{
		base,
		{Kind: KindCloze, Stanza: 1, Line: 0, Pass: 0, Paired: -1},
		{Kind: KindCloze, Stanza: 0, Line: 1, Pass: 0, Paired: -1},
		{Kind: KindCloze, Stanza: 0, Line: 0, Pass: 1, Paired: -1},
		{Kind: KindTransition, Stanza: 0, Line: 0, Pass: 0, Paired: -1},
		{Kind: KindMulti, Stanza: 0, Line: 0, Pass: 0, Paired: 1},
	}
	for _, ref := range variants {
		id := CardID(key, ref)
		if prev, dup := seen[id]; dup {
			t.Errorf("CardID collision between %+v and %+v", prev, ref)
		}
		seen[id] = ref
	}
}

func TestCardIDIndependentAcrossPoems(t *testing.T) {
	ref := CardRef{Kind: KindCloze, Stanza: 0, Line: 0, Pass: 0, Paired: -1}
	a := CardID(PoemKey("Poem A", "X", "", "a.md"), ref)
	b := CardID(PoemKey("Poem B", "X", "", "b.md"), ref)
	if a == b {
		t.Error("same coordinate in different poems should produce different ids")
	}
}

func TestNoteIDPositive(t *testing.T) {
	key := PoemKey("Ozymandias", "Shelley", "", "poems/ozymandias.md")
	for line := 0; line < 32; line++ {
		ref := CardRef{Kind: KindCloze, Stanza: 0, Line: line, Pass: 0, Paired: -1}
		if id := NoteID(key, ref); id <= 0 {
			t.Errorf("NoteID = %d, want positive", id)
		}
	}
}

func TestDeckIDStable(t *testing.T) {
	a := DeckID("Poetry::Ozymandias")
	b := DeckID("Poetry::Ozymandias")
	if a != b {
		t.Errorf("DeckID not stable: %d vs %d", a, b)
	}
	if a <= 0 {
		t.Errorf("DeckID = %d, want positive", a)
	}
	if DeckID("Poetry::Other") == a {
		t.Error("different deck names should get different ids")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Raven", "the-raven"},
		{"Do Not Go Gentle…", "do-not-go-gentle"},
		{"Stopping by Woods on a Snowy Evening", "stopping-by-woods-on-a-snowy-evening"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
