package render

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/Recite/core/cloze"
	"github.com/FocuswithJustin/Recite/core/poem"
)

func testPoem() *poem.Poem {
	return &poem.Poem{
		Title:      "The Tyger",
		Author:     "William Blake",
		Collection: "Songs of Experience",
		Year:       1794,
		Source:     "https://example.com/tyger",
		Stanzas: []poem.Stanza{
			{Lines: []poem.Line{
				{Text: "Tyger Tyger, burning bright,"},
				{Text: "In the forests of the night;"},
			}},
		},
	}
}

func testCard() cloze.CardSpec {
	return cloze.CardSpec{
		Window: []cloze.DisplayLine{
			{Text: "Tyger Tyger, burning bright,", Stanza: 0, Line: 0},
			{Text: "In the forests of the night;", Stanza: 0, Line: 1},
		},
		HiddenStart: 1,
		HiddenEnd:   2,
		Stanza:      0,
		HiddenLine:  1,
		Stanzas:     []int{0},
		Pass:        0,
	}
}

func TestClozeText(t *testing.T) {
	got := ClozeText(testCard())

	if !strings.HasPrefix(got, "<pre>") || !strings.HasSuffix(got, "</pre>") {
		t.Errorf("cloze text should be preformatted: %q", got)
	}
	if !strings.Contains(got, "{{c1::In the forests of the night;}}") {
		t.Errorf("hidden line not clozed: %q", got)
	}
	if strings.Contains(got, "{{c1::Tyger") {
		t.Errorf("visible line should not be clozed: %q", got)
	}
}

func TestClozeTextEscapesHTML(t *testing.T) {
	card := cloze.CardSpec{
		Window: []cloze.DisplayLine{
			{Text: "a line with <angle> brackets & ampersands", Stanza: 0, Line: 0},
		},
		HiddenStart: 0,
		HiddenEnd:   1,
		Stanzas:     []int{0},
	}
	got := ClozeText(card)
	if strings.Contains(got, "<angle>") {
		t.Errorf("raw HTML leaked through: %q", got)
	}
	if !strings.Contains(got, "&lt;angle&gt; brackets &amp; ampersands") {
		t.Errorf("expected escaped entities: %q", got)
	}
}

func TestClozeTextWrappedUnit(t *testing.T) {
	card := cloze.CardSpec{
		Window: []cloze.DisplayLine{
			{Text: "context before", Stanza: 0, Line: 0},
			{Text: "a very long line that was", Stanza: 0, Line: 1},
			{Text: "    wrapped onto a second segment", Stanza: 0, Line: 1, Continuation: true},
			{Text: "context after", Stanza: 0, Line: 2},
		},
		HiddenStart: 1,
		HiddenEnd:   3,
		Stanzas:     []int{0},
	}
	got := ClozeText(card)
	if strings.Count(got, "{{c1::") != 2 {
		t.Errorf("both segments of the wrapped line should be clozed: %q", got)
	}
}

func TestLineNo(t *testing.T) {
	card := testCard()
	if got := LineNo(card); got != "Stanza 1, Line 2" {
		t.Errorf("LineNo() = %q", got)
	}

	card.Stanzas = []int{1, 2}
	if got := LineNo(card); got != "Stanzas 2–3, Line 2" {
		t.Errorf("multi-stanza LineNo() = %q", got)
	}
}

func TestMetadataDisplayFull(t *testing.T) {
	got := MetadataDisplay(testPoem())
	wantParts := []string{
		"“The Tyger”",
		"William Blake",
		"<i>Songs of Experience</i> (1794)",
		`<a href="https://example.com/tyger" target="_blank">Source</a>`,
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("metadata missing %q in %q", part, got)
		}
	}
}

func TestMetadataDisplaySparse(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*poem.Poem)
		want    string
		wantNot string
	}{
		{
			name:    "collection only",
			mutate:  func(p *poem.Poem) { p.Year = 0; p.Source = "" },
			want:    "<i>Songs of Experience</i>",
			wantNot: "(1794)",
		},
		{
			name:    "year only",
			mutate:  func(p *poem.Poem) { p.Collection = ""; p.Source = "" },
			want:    "(1794)",
			wantNot: "<i>",
		},
		{
			name:    "bare",
			mutate:  func(p *poem.Poem) { p.Collection = ""; p.Year = 0; p.Source = "" },
			want:    "William Blake",
			wantNot: "<a href",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPoem()
			tt.mutate(p)
			got := MetadataDisplay(p)
			if !strings.Contains(got, tt.want) {
				t.Errorf("missing %q in %q", tt.want, got)
			}
			if tt.wantNot != "" && strings.Contains(got, tt.wantNot) {
				t.Errorf("unexpected %q in %q", tt.wantNot, got)
			}
		})
	}
}

func TestFields(t *testing.T) {
	fields := Fields(testPoem(), testCard())
	if fields.Title != "The Tyger" {
		t.Errorf("Title = %q", fields.Title)
	}
	if fields.Author != "William Blake" {
		t.Errorf("Author = %q", fields.Author)
	}
	if !strings.HasPrefix(fields.Metadata, "Stanza 1, Line 2<br>") {
		t.Errorf("Metadata should open with the position label: %q", fields.Metadata)
	}
	if got := len(fields.Values()); got != len(FieldNames) {
		t.Errorf("Values() returned %d fields, want %d", got, len(FieldNames))
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain text`, `plain text`},
		{`a & b`, `a &amp; b`},
		{`<i>x</i>`, `&lt;i&gt;x&lt;/i&gt;`},
		{`say "hi"`, `say &quot;hi&quot;`},
	}
	for _, tt := range tests {
		if got := EscapeHTML(tt.in); got != tt.want {
			t.Errorf("EscapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
