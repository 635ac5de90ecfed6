package preview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/grovetools/refactor/editset"
	"github.com/grovetools/refactor/window"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func staticReader(files map[string][]string) func(string) ([]string, error) {
	return func(path string) ([]string, error) {
		lines, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("unknown file %s", path)
		}
		return lines, nil
	}
}

func TestRenderItemsLayout(t *testing.T) {
	items := []editset.FileItem{
		{
			Path: "/tmp/a.go",
			Windows: []window.ContextWindow{
				{Start: 7, End: 10, Highlights: []protocol.Range{{
					Start: protocol.Position{Line: 3, Character: 0},
					End:   protocol.Position{Line: 3, Character: 4},
				}}},
				{Start: 20, End: 22},
			},
		},
		{
			Path:    "/tmp/b.go",
			Windows: []window.ContextWindow{{Start: 0, End: 2}},
		},
	}
	read := staticReader(map[string][]string{
		"/tmp/a.go": numberedLines(30),
		"/tmp/b.go": numberedLines(5),
	})

	rendered, err := renderItems(items, read)
	require.NoError(t, err)

	expected := []string{
		"==> /tmp/a.go <==",
		"@@ 8,10 @@",
		"line 7",
		"line 8",
		"line 9",
		"@@ 21,22 @@",
		"line 20",
		"line 21",
		"==> /tmp/b.go <==",
		"@@ 1,2 @@",
		"line 0",
		"line 1",
	}
	assert.Equal(t, expected, rendered.Lines)

	require.Len(t, rendered.Segments, 3)
	assert.Equal(t, 2, rendered.Segments[0].TextLine)
	assert.Equal(t, 6, rendered.Segments[1].TextLine)
	assert.Equal(t, 10, rendered.Segments[2].TextLine)
}

func TestRenderItemsReadFailure(t *testing.T) {
	items := []editset.FileItem{{Path: "/tmp/missing.go", Windows: []window.ContextWindow{{Start: 0, End: 1}}}}

	_, err := renderItems(items, staticReader(nil))
	assert.Error(t, err)
}

func TestParseRenderedRoundTrip(t *testing.T) {
	items := []editset.FileItem{
		{Path: "/tmp/a.go", Windows: []window.ContextWindow{{Start: 7, End: 10}, {Start: 20, End: 22}}},
	}
	read := staticReader(map[string][]string{"/tmp/a.go": numberedLines(30)})
	rendered, err := renderItems(items, read)
	require.NoError(t, err)

	segments, err := parseRendered(rendered.Lines)
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.Equal(t, "/tmp/a.go", segments[0].path)
	assert.Equal(t, 7, segments[0].start)
	assert.Equal(t, 10, segments[0].end)
	assert.Equal(t, []string{"line 7", "line 8", "line 9"}, segments[0].text)
	assert.Equal(t, []string{"line 20", "line 21"}, segments[1].text)
}

func TestParseRenderedSurvivesLineCountChanges(t *testing.T) {
	lines := []string{
		"==> /tmp/a.go <==",
		"@@ 8,10 @@",
		"edited 7",
		"inserted",
		"edited 8",
		"edited 9",
		"@@ 21,22 @@",
		"only line",
	}

	segments, err := parseRendered(lines)
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.Len(t, segments[0].text, 4)
	assert.Len(t, segments[1].text, 1)
}

func TestParseRenderedMalformed(t *testing.T) {
	_, err := parseRendered([]string{"@@ 1,2 @@", "text"})
	assert.Error(t, err, "window header before any file header")

	_, err = parseRendered([]string{"==> /tmp/a.go <==", "@@ 9,2 @@"})
	assert.Error(t, err, "inverted header range")
}

func TestSpliceSegments(t *testing.T) {
	fileLines := numberedLines(10)
	segments := []parsedSegment{
		{start: 1, end: 3, text: []string{"first", "second", "third"}},
		{start: 8, end: 9, text: []string{"replaced"}},
	}

	result := spliceSegments(fileLines, segments)

	expected := []string{
		"line 0",
		"first", "second", "third",
		"line 3", "line 4", "line 5", "line 6", "line 7",
		"replaced",
		"line 9",
	}
	assert.Equal(t, expected, result)
}

func TestSpliceSegmentsClampsToFile(t *testing.T) {
	fileLines := numberedLines(3)
	segments := []parsedSegment{{start: 2, end: 10, text: []string{"tail"}}}

	result := spliceSegments(fileLines, segments)
	assert.Equal(t, []string{"line 0", "line 1", "tail"}, result)
}
