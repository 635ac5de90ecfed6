package provider

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestSearchFindsMatchesPerLine(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go": "func OldName() {}\n\tOldName()\n",
		"doc.txt": "nothing here\n",
	})
	search := Search{
		Root:        root,
		Pattern:     regexp.MustCompile(`OldName`),
		Replacement: "NewName",
	}

	we, err := search.WorkspaceEdit(context.Background())
	require.NoError(t, err)

	key := uri.File(filepath.Join(root, "main.go"))
	require.Contains(t, we.Changes, key)
	edits := we.Changes[key]
	require.Len(t, edits, 2)

	assert.Equal(t, uint32(0), edits[0].Range.Start.Line)
	assert.Equal(t, uint32(5), edits[0].Range.Start.Character)
	assert.Equal(t, uint32(12), edits[0].Range.End.Character)
	assert.Equal(t, "NewName", edits[0].NewText)
	assert.Equal(t, uint32(1), edits[1].Range.Start.Line)

	// Files without matches produce no entry at all.
	assert.NotContains(t, we.Changes, uri.File(filepath.Join(root, "doc.txt")))
}

func TestSearchCaptureGroupReplacement(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go": "cfg.GetValue(\"x\")\n",
	})
	search := Search{
		Root:        root,
		Pattern:     regexp.MustCompile(`Get(\w+)\(`),
		Replacement: "Fetch$1(",
	}

	we, err := search.WorkspaceEdit(context.Background())
	require.NoError(t, err)

	key := uri.File(filepath.Join(root, "a.go"))
	require.Len(t, we.Changes[key], 1)
	assert.Equal(t, "FetchValue(", we.Changes[key][0].NewText)
}

func TestSearchHonorsExcludes(t *testing.T) {
	root := writeTree(t, map[string]string{
		"keep/a.go":     "target\n",
		"vendor/b.go":   "target\n",
		"keep/c_pb.go":  "target\n",
		"keep/plain.go": "no match\n",
	})
	search := Search{
		Root:        root,
		Pattern:     regexp.MustCompile(`target`),
		Replacement: "renamed",
		Excludes:    []string{"vendor", "*_pb.go"},
	}

	we, err := search.WorkspaceEdit(context.Background())
	require.NoError(t, err)

	assert.Contains(t, we.Changes, uri.File(filepath.Join(root, "keep/a.go")))
	assert.NotContains(t, we.Changes, uri.File(filepath.Join(root, "vendor/b.go")))
	assert.NotContains(t, we.Changes, uri.File(filepath.Join(root, "keep/c_pb.go")))
}

func TestSearchSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin.dat"), []byte("tar\x00get target"), 0644))
	search := Search{
		Root:        root,
		Pattern:     regexp.MustCompile(`target`),
		Replacement: "renamed",
	}

	we, err := search.WorkspaceEdit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, we.Changes)
}

func TestSearchCancellation(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": "target\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := Search{
		Root:        root,
		Pattern:     regexp.MustCompile(`target`),
		Replacement: "renamed",
	}

	we, err := search.WorkspaceEdit(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, we)
}
