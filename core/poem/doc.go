// Package poem defines the in-memory representation of a poem used by card generation.
//
// A poem is an ordered sequence of stanzas, each an ordered sequence of lines.
// The structure is built once by a parser (see internal/poemfile) and treated
// as immutable afterwards: card generation never mutates a Poem, so processing
// many poems is independent by construction.
//
// # Core Types
//
//   - Poem: Top-level container with title, author, and optional metadata
//   - Stanza: Contiguous group of lines; its index in the poem is significant
//   - Line: One source line of text, with a wrap-continuation marker for
//     display lines produced by splitting an over-length source line
//
// # Validation
//
// ValidatePoem reports every problem it finds rather than stopping at the
// first, mirroring how the rest of the codebase accumulates validation
// errors. A poem with zero stanzas, or a stanza with zero lines, is invalid
// as generation input even though the flattening step itself tolerates both.
//
// # Example
//
//	p := &poem.Poem{
//	    Title:  "Ozymandias",
//	    Author: "Percy Bysshe Shelley",
//	    Year:   1818,
//	    Stanzas: []poem.Stanza{
//	        {Lines: []poem.Line{{Text: "I met a traveller from an antique land,"}}},
//	    },
//	}
package poem
