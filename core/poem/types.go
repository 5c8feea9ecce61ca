package poem

// DefaultAuthor is used when a poem's source carries no author information.
const DefaultAuthor = "Unknown"

// Poem is the top-level container for one poem and its metadata.
// It is constructed by a parser and immutable from then on.
type Poem struct {
	// Title is the human-readable title of the poem. Required.
	Title string `json:"title"`

	// Author is the poet's name. Defaults to "Unknown" when absent.
	Author string `json:"author"`

	// Collection is the collection or volume the poem appeared in (optional).
	Collection string `json:"collection,omitempty"`

	// Year is the publication year (optional, 0 means unknown).
	Year int `json:"year,omitempty"`

	// Source is the source URL for the poem text (optional).
	Source string `json:"source,omitempty"`

	// Path is the filesystem path the poem was loaded from (optional).
	// It participates in identity derivation only when Source is empty.
	Path string `json:"path,omitempty"`

	// Stanzas contains the poem body in order.
	Stanzas []Stanza `json:"stanzas"`
}

// AuthorOrDefault returns the author, or DefaultAuthor when unset.
func (p *Poem) AuthorOrDefault() string {
	if p.Author == "" {
		return DefaultAuthor
	}
	return p.Author
}

// LineCount returns the total number of lines across all stanzas.
func (p *Poem) LineCount() int {
	n := 0
	for _, s := range p.Stanzas {
		n += len(s.Lines)
	}
	return n
}

// MaxStanzaLen returns the line count of the longest stanza, or 0 for an
// empty poem. The poem-wide review pass count is derived from this value.
func (p *Poem) MaxStanzaLen() int {
	max := 0
	for _, s := range p.Stanzas {
		if len(s.Lines) > max {
			max = len(s.Lines)
		}
	}
	return max
}

// Stanza is an ordered group of lines. Its position within the poem is
// significant: stanza order is preserved even when the downstream deck
// shuffles cards for display.
type Stanza struct {
	// Lines contains the stanza's lines in order. A line is never empty;
	// blank lines act as stanza separators and are consumed by the parser.
	Lines []Line `json:"lines"`
}

// Line is one source line of a stanza.
type Line struct {
	// Text is the raw line text, including any original leading indentation.
	Text string `json:"text"`

	// Continuation marks a display line produced by word-wrapping an
	// over-length source line. Continuations never appear in parser output;
	// they are created by the flattener and exist for display only.
	Continuation bool `json:"continuation,omitempty"`
}
