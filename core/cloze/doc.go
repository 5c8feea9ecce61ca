// Package cloze turns a poem into a deterministic set of windowed cloze cards.
//
// The pipeline is flatten-then-slice: the stanza/line structure is flattened
// once into a linear sequence of display lines, and every card is a
// contiguous window over that sequence with exactly one hidden line. Keeping
// the windowing on a flat array makes the centering and clamping arithmetic
// testable in isolation from stanza nesting.
//
// # Stages
//
//   - Flatten: stanzas and lines become DisplayLines, with optional
//     word-wrap of over-length lines and one break line between stanzas
//   - SelectWindow: a bounded context window is centered on the hidden
//     line's flat span, shifting flush against the poem's edges rather than
//     shrinking
//   - Pass planning: for each review pass, each stanza hides one line,
//     ordered either ascending or by a seeded permutation, so a learner
//     cannot infer upcoming answers from cards already seen
//   - Multi-stanza extension: adjacent short stanzas are optionally paired
//     into combined windows with one cloze each
//
// Generation is a pure function of (poem, config, seed): no global state is
// read or mutated, and the same inputs always yield the same cards in the
// same order with the same identifiers.
package cloze
