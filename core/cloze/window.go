package cloze

// Window is a contiguous slice [Start, End) of a flat sequence, with the
// hidden unit's position recorded relative to the window start.
type Window struct {
	// Start and End bound the window in flat positions.
	Start int
	End   int

	// HiddenStart and HiddenEnd locate the hidden unit within the window,
	// as a half-open index range relative to Start.
	HiddenStart int
	HiddenEnd   int
}

// Len returns the window length in display lines.
func (w Window) Len() int { return w.End - w.Start }

// SelectWindow computes the context window around one hide-able unit.
//
// The window is centered on the unit's midpoint and clamped to the sequence
// bounds: near the start or end of the poem it shifts flush against the edge
// rather than shrinking, so centering degrades gracefully while the window
// stays full-length. When the whole sequence fits inside the window size,
// the window is the entire sequence. A unit longer than the window size is
// legal; the window grows to contain it in full, clipping only context.
func SelectWindow(total int, unit Span, size int) Window {
	var start, end int
	if total <= size {
		start, end = 0, total
	} else {
		mid := (unit.Start + unit.End - 1) / 2
		start = mid - size/2
		if start < 0 {
			start = 0
		}
		end = start + size
		if end > total {
			end = total
			start = end - size
		}
		// Never truncate the hidden unit itself.
		if unit.Start < start {
			start = unit.Start
		}
		if unit.End > end {
			end = unit.End
		}
	}

	return Window{
		Start:       start,
		End:         end,
		HiddenStart: unit.Start - start,
		HiddenEnd:   unit.End - start,
	}
}
