// Package preview renders built context windows into a Neovim scratch
// buffer and maps edited window text back to the source files.
package preview

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/grovetools/refactor/editset"
	"github.com/grovetools/refactor/window"
)

// Segment ties one rendered context window to its position in the
// scratch document.
type Segment struct {
	Path     string
	Window   window.ContextWindow
	TextLine int // scratch line where the window's text begins
}

// Rendered is the scratch document content for a set of file items.
type Rendered struct {
	Lines    []string
	Segments []Segment
}

var (
	fileHeaderRe   = regexp.MustCompile(`^==> (.+) <==$`)
	windowHeaderRe = regexp.MustCompile(`^@@ (\d+),(\d+) @@$`)
)

// renderItems lays out the scratch document: a header line per file,
// then for each window a hunk-style header (1-based, inclusive line
// numbers) followed by the window's text. readLines supplies a file's
// content split into lines.
func renderItems(items []editset.FileItem, readLines func(path string) ([]string, error)) (*Rendered, error) {
	r := &Rendered{}

	for _, item := range items {
		fileLines, err := readLines(item.Path)
		if err != nil {
			return nil, err
		}

		r.Lines = append(r.Lines, fmt.Sprintf("==> %s <==", item.Path))
		for _, w := range item.Windows {
			r.Lines = append(r.Lines, fmt.Sprintf("@@ %d,%d @@", w.Start+1, w.End))

			seg := Segment{Path: item.Path, Window: w, TextLine: len(r.Lines)}
			end := w.End
			if end > len(fileLines) {
				end = len(fileLines)
			}
			for line := w.Start; line < end; line++ {
				r.Lines = append(r.Lines, fileLines[line])
			}
			r.Segments = append(r.Segments, seg)
		}
	}

	return r, nil
}

// parsedSegment is one window's text recovered from the scratch buffer,
// with the absolute source range its header names.
type parsedSegment struct {
	path  string
	start int // absolute first line, inclusive
	end   int // absolute line past the last, exclusive
	text  []string
}

// parseRendered recovers window segments from the scratch buffer by its
// header lines, so the split survives line insertions and deletions
// inside a window's text.
func parseRendered(lines []string) ([]parsedSegment, error) {
	var segments []parsedSegment
	currentPath := ""
	open := -1

	closeOpen := func(until int) {
		if open >= 0 {
			segments[len(segments)-1].text = lines[open:until]
			open = -1
		}
	}

	for i, line := range lines {
		if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
			closeOpen(i)
			currentPath = m[1]
			continue
		}
		if m := windowHeaderRe.FindStringSubmatch(line); m != nil {
			if currentPath == "" {
				return nil, fmt.Errorf("window header before any file header at line %d", i+1)
			}
			closeOpen(i)
			first, _ := strconv.Atoi(m[1])
			last, _ := strconv.Atoi(m[2])
			if first < 1 || last < first {
				return nil, fmt.Errorf("malformed window header at line %d: %q", i+1, line)
			}
			segments = append(segments, parsedSegment{
				path:  currentPath,
				start: first - 1,
				end:   last,
			})
			open = i + 1
		}
	}
	closeOpen(len(lines))

	return segments, nil
}

// spliceSegments applies a file's edited segments to its current lines.
// Segments are applied back-to-front so earlier splices do not shift the
// coordinates of later ones.
func spliceSegments(fileLines []string, segments []parsedSegment) []string {
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		start, end := seg.start, seg.end
		if start > len(fileLines) {
			start = len(fileLines)
		}
		if end > len(fileLines) {
			end = len(fileLines)
		}
		spliced := make([]string, 0, len(fileLines)-(end-start)+len(seg.text))
		spliced = append(spliced, fileLines[:start]...)
		spliced = append(spliced, seg.text...)
		spliced = append(spliced, fileLines[end:]...)
		fileLines = spliced
	}
	return fileLines
}
