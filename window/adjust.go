package window

import (
	"go.lsp.dev/protocol"
)

// Adjust rebases an absolute file range onto a window-local coordinate
// frame by subtracting lineOffset from both endpoints. Character offsets
// pass through untouched. Callers guarantee lineOffset <= r.Start.Line.
func Adjust(r protocol.Range, lineOffset uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      r.Start.Line - lineOffset,
			Character: r.Start.Character,
		},
		End: protocol.Position{
			Line:      r.End.Line - lineOffset,
			Character: r.End.Character,
		},
	}
}
