// Package anki assembles generated cards into notes and decks and packages
// them as an importable .apkg file. Identifiers come from core/identity so
// repeated exports of unchanged poems never duplicate notes.
package anki

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/Recite/core/cloze"
	"github.com/FocuswithJustin/Recite/core/identity"
	"github.com/FocuswithJustin/Recite/core/poem"
	"github.com/FocuswithJustin/Recite/core/render"
)

// Note is one flashcard note: rendered fields plus identity.
type Note struct {
	// ID is the durable note row id.
	ID int64

	// GUID is the duplicate-detection key Anki keeps across imports.
	GUID string

	// Fields holds the rendered field values in model order.
	Fields []string

	// Tags are space-joined into the note's tag string.
	Tags []string
}

// Deck is a named group of notes with a stable id.
type Deck struct {
	ID    int64
	Name  string
	Notes []Note
}

// AddNote appends a note to the deck.
func (d *Deck) AddNote(n Note) {
	d.Notes = append(d.Notes, n)
}

// BuildNotes renders one poem's cards into notes.
func BuildNotes(p *poem.Poem, cards []cloze.CardSpec) []Note {
	notes := make([]Note, 0, len(cards))
	for _, card := range cards {
		fields := render.Fields(p, card)
		notes = append(notes, Note{
			ID:     card.NoteID,
			GUID:   card.ID,
			Fields: fields.Values(),
			Tags:   card.Tags,
		})
	}
	return notes
}

// DeckSet groups notes into decks under one parent deck name. In individual
// mode each poem gets a subdeck; otherwise everything lands in the parent.
type DeckSet struct {
	parent     string
	individual bool
	decks      map[string]*Deck
	order      []string
}

// NewDeckSet creates a deck set rooted at the given parent deck name.
func NewDeckSet(parent string, individual bool) *DeckSet {
	return &DeckSet{
		parent:     parent,
		individual: individual,
		decks:      make(map[string]*Deck),
	}
}

// DeckName computes the deck a poem's notes belong to. titleCounts maps poem
// titles to how many poems share them; colliding titles get the author
// appended so both poems stay distinguishable.
func (s *DeckSet) DeckName(title, author string, titleCounts map[string]int) string {
	if !s.individual {
		return s.parent
	}
	if titleCounts[title] > 1 {
		return fmt.Sprintf("%s::%s (%s)", s.parent, title, author)
	}
	return s.parent + "::" + title
}

// Add appends notes to the named deck, creating it on first use with a
// stable id derived from the deck name.
func (s *DeckSet) Add(deckName string, notes []Note) {
	deck, ok := s.decks[deckName]
	if !ok {
		deck = &Deck{ID: identity.DeckID(deckName), Name: deckName}
		s.decks[deckName] = deck
		s.order = append(s.order, deckName)
	}
	deck.Notes = append(deck.Notes, notes...)
}

// Decks returns all decks in insertion order.
func (s *DeckSet) Decks() []*Deck {
	out := make([]*Deck, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.decks[name])
	}
	return out
}

// NoteCount returns the total number of notes across all decks.
func (s *DeckSet) NoteCount() int {
	n := 0
	for _, d := range s.decks {
		n += len(d.Notes)
	}
	return n
}

// TitleCounts tallies how many poems share each title, for collision
// handling in DeckName.
func TitleCounts(poems []*poem.Poem) map[string]int {
	counts := make(map[string]int)
	for _, p := range poems {
		counts[p.Title]++
	}
	return counts
}

// TagString joins tags the way the collection schema stores them: space
// separated with surrounding spaces, spaces inside tags replaced.
func TagString(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	cleaned := make([]string, len(tags))
	for i, tag := range tags {
		cleaned[i] = strings.ReplaceAll(tag, " ", "_")
	}
	sort.Strings(cleaned)
	return " " + strings.Join(cleaned, " ") + " "
}
