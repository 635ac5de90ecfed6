// Package editset normalizes a workspace edit into per-file, ordered
// edit ranges and frames them as context windows for review.
package editset

import (
	"sort"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/grovetools/refactor/errors"
	"github.com/grovetools/refactor/window"
)

// FileItem holds the context windows built for one file touched by an
// edit-set.
type FileItem struct {
	Path    string
	URI     uri.URI
	Windows []window.ContextWindow
}

// Collect extracts per-file edit ranges from a workspace edit. Language
// servers produce either a documentChanges list or a flat changes map;
// documentChanges takes precedence and the flat map is consulted only
// when it is absent. Ranges for each file come out stably sorted by
// start position.
func Collect(we *protocol.WorkspaceEdit) map[uri.URI][]protocol.Range {
	ranges := make(map[uri.URI][]protocol.Range)
	if we == nil {
		return ranges
	}

	if len(we.DocumentChanges) > 0 {
		for _, dc := range we.DocumentChanges {
			key := dc.TextDocument.URI
			for _, e := range dc.Edits {
				ranges[key] = append(ranges[key], e.Range)
			}
		}
	} else {
		for key, edits := range we.Changes {
			for _, e := range edits {
				ranges[key] = append(ranges[key], e.Range)
			}
		}
	}

	for key := range ranges {
		sortRanges(ranges[key])
	}
	return ranges
}

// sortRanges stably orders ranges by start line, then start character,
// then end position as a final tie-break. WindowBuilder depends on this
// order for its single-pass merge.
func sortRanges(rs []protocol.Range) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		if a.Start.Character != b.Start.Character {
			return a.Start.Character < b.Start.Character
		}
		if a.End.Line != b.End.Line {
			return a.End.Line < b.End.Line
		}
		return a.End.Character < b.End.Character
	})
}

// BuildFileItems collects the workspace edit and frames every file's
// edits as context windows. A workspace edit with no files, or whose
// entries are all empty, yields (nil, nil): nothing to review, not an
// error. A failed line-count resolution fails the whole operation; no
// partial item list is returned.
func BuildFileItems(we *protocol.WorkspaceEdit, res LineCountResolver, beforeContext, afterContext int) ([]FileItem, error) {
	collected := Collect(we)

	keys := make([]uri.URI, 0, len(collected))
	for key, rs := range collected {
		if len(rs) == 0 {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// Deterministic file order regardless of map iteration.
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	items := make([]FileItem, 0, len(keys))
	for _, key := range keys {
		maxLine, err := res.Resolve(key)
		if err != nil {
			return nil, errors.LineCountUnresolved(key.Filename(), err)
		}
		if maxLine < 1 {
			// An edit always addresses at least line 0, even in a file
			// that is empty on disk.
			maxLine = 1
		}

		items = append(items, FileItem{
			Path:    key.Filename(),
			URI:     key,
			Windows: window.Build(collected[key], beforeContext, afterContext, maxLine),
		})
	}
	return items, nil
}
