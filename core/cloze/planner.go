package cloze

import (
	"math/rand"

	"github.com/FocuswithJustin/Recite/core/identity"
)

// planner decides, per review pass, which line each stanza hides.
//
// The poem-wide pass count equals the longest stanza's line count, so every
// line of every stanza is hidden at least once. Stanzas shorter than the
// pass count cycle their ordering and repeat some hidden lines; that is the
// intended policy, not an error.
type planner struct {
	poemKey   string
	passes    int
	orderings [][]int
}

// newPlanner builds the per-stanza line orderings. stanzaLens holds the
// logical line count of each stanza. With shuffling disabled the ordering is
// ascending; with shuffling enabled it is a permutation drawn from a seeded
// source, derived per stanza so orderings are independent.
func newPlanner(poemKey string, stanzaLens []int, shuffle bool, seed uint64) *planner {
	passes := 0
	for _, l := range stanzaLens {
		if l > passes {
			passes = l
		}
	}
	if passes < 1 {
		passes = 1
	}

	orderings := make([][]int, len(stanzaLens))
	for si, l := range stanzaLens {
		if l == 0 {
			continue
		}
		if shuffle {
			orderings[si] = permutation(poemKey, si, l, seed)
		} else {
			orderings[si] = ascending(l)
		}
	}

	return &planner{poemKey: poemKey, passes: passes, orderings: orderings}
}

// Passes returns the poem-wide pass count.
func (p *planner) Passes() int { return p.passes }

// HiddenLine returns the line index stanza si hides in pass pass, and false
// for a stanza with no lines.
func (p *planner) HiddenLine(si, pass int) (int, bool) {
	ord := p.orderings[si]
	if len(ord) == 0 {
		return 0, false
	}
	return ord[pass%len(ord)], true
}

// permutation returns a deterministic pseudo-random ordering of [0, n).
// No global random state is touched; the source is seeded purely from
// (seed, poem key, stanza index).
func permutation(poemKey string, stanza, n int, seed uint64) []int {
	sub := identity.PermutationSeed(poemKey, stanza, seed)
	rng := rand.New(rand.NewSource(sub))
	return rng.Perm(n)
}

func ascending(n int) []int {
	ord := make([]int, n)
	for i := range ord {
		ord[i] = i
	}
	return ord
}
