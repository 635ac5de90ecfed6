// Package window turns a sorted sequence of edit ranges into ordered,
// non-overlapping context windows: contiguous line ranges that contain
// one or more edits plus surrounding context lines, with each edit's
// position tracked relative to its window so the window text can be
// rendered standalone and mapped back to file coordinates later.
package window

import (
	"go.lsp.dev/protocol"
)

// ContextWindow is a contiguous line range in one file. Start is the
// absolute first line (inclusive), End the line past the last (exclusive).
// Highlights are the contained edit ranges, rebased to the window's own
// coordinate frame and sorted by start position.
type ContextWindow struct {
	Start      int
	End        int
	Highlights []protocol.Range
}

// Build groups edit ranges into context windows. It assumes ranges is
// sorted ascending by start position; windows come out non-overlapping
// and in ascending Start order, so a single linear pass suffices: each
// incoming range only ever needs to be compared against the most
// recently opened window.
//
// beforeContext and afterContext are the number of context lines around
// an edit; maxLine is the exclusive upper bound of valid line numbers
// for the file (its line count).
func Build(ranges []protocol.Range, beforeContext, afterContext, maxLine int) []ContextWindow {
	var windows []ContextWindow
	var open *ContextWindow

	for _, r := range ranges {
		start := int(r.Start.Line) - beforeContext
		if start < 0 {
			start = 0
		}
		end := int(r.Start.Line) + afterContext + 1
		if end > maxLine {
			end = maxLine
		}

		if open != nil && start < open.End {
			// Overlapping or touching context: fold into the open
			// window. End only ever grows, so a window fully contained
			// in its predecessor cannot shrink it.
			if end > open.End {
				open.End = end
			}
			open.Highlights = append(open.Highlights, Adjust(r, uint32(open.Start)))
			continue
		}

		if open != nil {
			windows = append(windows, *open)
		}
		open = &ContextWindow{
			Start:      start,
			End:        end,
			Highlights: []protocol.Range{Adjust(r, uint32(start))},
		}
	}

	if open != nil {
		windows = append(windows, *open)
	}
	return windows
}

// Lines returns the number of lines the window spans.
func (w ContextWindow) Lines() int {
	return w.End - w.Start
}

// Contains reports whether the absolute line falls inside the window.
func (w ContextWindow) Contains(line int) bool {
	return line >= w.Start && line < w.End
}
