package cloze

import (
	"github.com/FocuswithJustin/Recite/core/identity"
	"github.com/FocuswithJustin/Recite/core/poem"
)

// multiStanzaCards synthesizes combined-window cards for each adjacent pair
// of short stanzas. Both stanzas of a pair must have at most
// MultiStanzaThreshold lines. Each line across the pair gets exactly one
// card hiding it, with the rest of the pair (and the separating break line)
// visible as context. These cards are additive and take no part in the
// multi-pass cycling.
func multiStanzaCards(p *poem.Poem, poemKey string, baseTags []string, cfg Config) []CardSpec {
	var cards []CardSpec

	for si := 0; si+1 < len(p.Stanzas); si++ {
		first, second := p.Stanzas[si], p.Stanzas[si+1]
		if len(first.Lines) == 0 || len(second.Lines) == 0 {
			continue
		}
		if len(first.Lines) > MultiStanzaThreshold || len(second.Lines) > MultiStanzaThreshold {
			continue
		}

		pairSeq := flattenPair(first, second, si, cfg.wrapConfig())
		tags := append(append([]string(nil), baseTags...), TagMultiStanza)

		for _, owner := range []int{si, si + 1} {
			lines := len(p.Stanzas[owner].Lines)
			paired := si
			if owner == si {
				paired = si + 1
			}
			for li := 0; li < lines; li++ {
				ref := identity.CardRef{
					Kind:   identity.KindMulti,
					Stanza: owner,
					Line:   li,
					Pass:   0,
					Paired: paired,
				}
				card := buildCard(pairSeq, poemKey, ref, []int{si, si + 1}, tags, cfg.WindowSize)
				cards = append(cards, card)
			}
		}
	}

	return cards
}

// flattenPair flattens two adjacent stanzas into one combined sequence,
// restoring their original stanza indices so card coordinates stay canonical.
func flattenPair(first, second poem.Stanza, firstIdx int, cfg WrapConfig) *FlatSequence {
	synthetic := &poem.Poem{Stanzas: []poem.Stanza{first, second}}
	seq := Flatten(synthetic, cfg)

	remapped := &FlatSequence{units: make(map[LineKey]Span, len(seq.units))}
	remapped.Lines = make([]DisplayLine, len(seq.Lines))
	for i, dl := range seq.Lines {
		if !dl.IsBreak {
			dl.Stanza += firstIdx
		}
		remapped.Lines[i] = dl
	}
	for key, span := range seq.units {
		key.Stanza += firstIdx
		remapped.units[key] = span
	}
	return remapped
}
