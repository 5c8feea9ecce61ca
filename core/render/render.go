// Package render turns card specs into the field markup the flashcard
// application displays. It owns HTML escaping, Anki cloze syntax, and the
// metadata footer; it knows nothing about deck files or transport.
package render

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/Recite/core/cloze"
	"github.com/FocuswithJustin/Recite/core/poem"
)

// Field names of the cloze note model, in order.
var FieldNames = []string{"Text", "LineNo", "Title", "Author", "Metadata"}

// NoteFields holds the rendered field values for one note.
type NoteFields struct {
	Text     string
	LineNo   string
	Title    string
	Author   string
	Metadata string
}

// Values returns the fields in model order.
func (f NoteFields) Values() []string {
	return []string{f.Text, f.LineNo, f.Title, f.Author, f.Metadata}
}

// Fields renders all note fields for one card.
func Fields(p *poem.Poem, card cloze.CardSpec) NoteFields {
	lineNo := LineNo(card)
	return NoteFields{
		Text:     ClozeText(card),
		LineNo:   lineNo,
		Title:    p.Title,
		Author:   p.AuthorOrDefault(),
		Metadata: lineNo + "<br>" + MetadataDisplay(p),
	}
}

// ClozeText renders the card window with the hidden unit wrapped in Anki
// cloze syntax. Every segment of a wrapped hidden line is clozed, so the
// whole logical line disappears on the question side. Preformatted markup
// preserves the poem's spacing and line breaks.
func ClozeText(card cloze.CardSpec) string {
	lines := make([]string, len(card.Window))
	for i, dl := range card.Window {
		text := EscapeHTML(dl.Text)
		if i >= card.HiddenStart && i < card.HiddenEnd {
			text = "{{c1::" + text + "}}"
		}
		lines[i] = text
	}
	return "<pre>" + strings.Join(lines, "\n") + "</pre>"
}

// LineNo formats the human-readable position label, 1-based.
func LineNo(card cloze.CardSpec) string {
	if len(card.Stanzas) == 2 {
		return fmt.Sprintf("Stanzas %d–%d, Line %d",
			card.Stanzas[0]+1, card.Stanzas[1]+1, card.HiddenLine+1)
	}
	return fmt.Sprintf("Stanza %d, Line %d", card.Stanza+1, card.HiddenLine+1)
}

// MetadataDisplay formats the poem metadata footer: quoted title, author,
// italicized collection with year, and a source hyperlink when present.
func MetadataDisplay(p *poem.Poem) string {
	lines := []string{
		"“" + EscapeHTML(p.Title) + "”",
		EscapeHTML(p.AuthorOrDefault()),
	}

	collection := EscapeHTML(p.Collection)
	switch {
	case p.Collection != "" && p.Year != 0:
		lines = append(lines, fmt.Sprintf("<i>%s</i> (%d)", collection, p.Year))
	case p.Collection != "":
		lines = append(lines, fmt.Sprintf("<i>%s</i>", collection))
	case p.Year != 0:
		lines = append(lines, fmt.Sprintf("(%d)", p.Year))
	}

	if p.Source != "" {
		lines = append(lines, fmt.Sprintf(`<a href="%s" target="_blank">Source</a>`,
			EscapeHTMLAttr(p.Source)))
	}

	return strings.Join(lines, "<br>")
}

// EscapeHTML escapes special characters for HTML content.
// Escapes: & < > "
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// EscapeHTMLAttr escapes text for use in HTML attribute values.
func EscapeHTMLAttr(s string) string {
	s = EscapeHTML(s)
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
