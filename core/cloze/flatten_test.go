package cloze

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/Recite/core/poem"
)

func stanzaOf(lines ...string) poem.Stanza {
	s := poem.Stanza{}
	for _, l := range lines {
		s.Lines = append(s.Lines, poem.Line{Text: l})
	}
	return s
}

func noWrap() WrapConfig {
	return WrapConfig{Enabled: false, MaxLineLength: DefaultMaxLineLength, IndentWidth: DefaultIndentWidth}
}

func TestFlattenStructure(t *testing.T) {
	p := &poem.Poem{
		Title: "Test",
		Stanzas: []poem.Stanza{
			stanzaOf("one", "two"),
			stanzaOf("three"),
		},
	}

	seq := Flatten(p, noWrap())

	// two lines, break, one line
	if seq.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", seq.Len())
	}
	if !seq.Lines[2].IsBreak {
		t.Error("position 2 should be the stanza break")
	}
	if seq.Lines[2].Stanza != -1 || seq.Lines[2].Line != -1 {
		t.Error("break lines should carry -1 stanza/line indices")
	}
	if seq.Lines[0].IsBreak || seq.Lines[3].IsBreak {
		t.Error("no break before the first stanza or after the last")
	}
	if seq.Lines[3].Stanza != 1 || seq.Lines[3].Line != 0 {
		t.Errorf("position 3 = stanza %d line %d, want 1/0", seq.Lines[3].Stanza, seq.Lines[3].Line)
	}
}

func TestFlattenUnitMapping(t *testing.T) {
	p := &poem.Poem{
		Title:   "Test",
		Stanzas: []poem.Stanza{stanzaOf("a", "b"), stanzaOf("c")},
	}

	seq := Flatten(p, noWrap())

	tests := []struct {
		stanza, line int
		want         Span
	}{
		{0, 0, Span{0, 1}},
		{0, 1, Span{1, 2}},
		{1, 0, Span{3, 4}},
	}
	for _, tt := range tests {
		got, ok := seq.Unit(tt.stanza, tt.line)
		if !ok {
			t.Errorf("Unit(%d,%d) missing", tt.stanza, tt.line)
			continue
		}
		if got != tt.want {
			t.Errorf("Unit(%d,%d) = %+v, want %+v", tt.stanza, tt.line, got, tt.want)
		}
	}
	if _, ok := seq.Unit(0, 5); ok {
		t.Error("Unit should report missing lines")
	}
}

func TestFlattenEmptyStanzaStillSeparates(t *testing.T) {
	p := &poem.Poem{
		Title:   "Test",
		Stanzas: []poem.Stanza{stanzaOf("a"), {}, stanzaOf("b")},
	}

	seq := Flatten(p, noWrap())

	// a, break, break, b: the empty stanza contributes nothing of its own
	// but its neighbors stay separated.
	if seq.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", seq.Len())
	}
	if !seq.Lines[1].IsBreak || !seq.Lines[2].IsBreak {
		t.Error("empty stanza should keep break markers on both sides")
	}
}

func TestFlattenWrapsLongLine(t *testing.T) {
	long := "the quick brown fox jumps over the lazy dog and keeps on running far"
	p := &poem.Poem{Title: "Test", Stanzas: []poem.Stanza{stanzaOf(long, "short")}}

	cfg := WrapConfig{Enabled: true, MaxLineLength: 30, IndentWidth: 4}
	seq := Flatten(p, cfg)

	unit, ok := seq.Unit(0, 0)
	if !ok {
		t.Fatal("unit for wrapped line missing")
	}
	if unit.Len() < 2 {
		t.Fatalf("long line should occupy several flat positions, got %d", unit.Len())
	}

	for pos := unit.Start; pos < unit.End; pos++ {
		dl := seq.Lines[pos]
		if dl.Stanza != 0 || dl.Line != 0 {
			t.Errorf("segment %d has stanza/line %d/%d, want 0/0", pos, dl.Stanza, dl.Line)
		}
		if pos == unit.Start {
			if dl.Continuation {
				t.Error("first segment must not be a continuation")
			}
			continue
		}
		if !dl.Continuation {
			t.Errorf("segment %d should be flagged as continuation", pos)
		}
		if !strings.HasPrefix(dl.Text, strings.Repeat(" ", 4)) {
			t.Errorf("continuation %q should carry the extra indent", dl.Text)
		}
	}

	// Word boundaries respected: no segment exceeds the limit.
	for pos := unit.Start; pos < unit.End; pos++ {
		if n := len([]rune(seq.Lines[pos].Text)); n > 30 {
			t.Errorf("segment %d length %d exceeds limit", pos, n)
		}
	}

	// The short line after it stays a single unit.
	if u, _ := seq.Unit(0, 1); u.Len() != 1 {
		t.Errorf("short line should stay unwrapped, got span of %d", u.Len())
	}
}

func TestFlattenPreservesIndentation(t *testing.T) {
	indented := "    and miles to go before I sleep and miles to go before I sleep"
	p := &poem.Poem{Title: "Test", Stanzas: []poem.Stanza{stanzaOf(indented)}}

	cfg := WrapConfig{Enabled: true, MaxLineLength: 40, IndentWidth: 4}
	seq := Flatten(p, cfg)

	unit, _ := seq.Unit(0, 0)
	first := seq.Lines[unit.Start].Text
	if !strings.HasPrefix(first, "    and") {
		t.Errorf("first segment lost source indentation: %q", first)
	}
	if unit.Len() > 1 {
		cont := seq.Lines[unit.Start+1].Text
		if !strings.HasPrefix(cont, "        ") {
			t.Errorf("continuation should stack source indent plus extra: %q", cont)
		}
	}
}

func TestWrapLineHardSplit(t *testing.T) {
	word := strings.Repeat("x", 25)
	cfg := WrapConfig{Enabled: true, MaxLineLength: 10, IndentWidth: 2}

	segs := wrapLine(word, cfg)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %v", len(segs), segs)
	}
	if segs[0] != strings.Repeat("x", 10) {
		t.Errorf("first segment = %q, want ten x's", segs[0])
	}
	rejoined := strings.Join(segs, "")
	if rejoined != word {
		t.Errorf("hard split lost characters: %q", rejoined)
	}
}

func TestWrapLineDisabled(t *testing.T) {
	long := strings.Repeat("word ", 30)
	segs := wrapLine(long, noWrap())
	if len(segs) != 1 || segs[0] != long {
		t.Error("disabled wrapping should pass lines through untouched")
	}
}
