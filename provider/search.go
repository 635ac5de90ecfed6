package provider

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/moby/patternmatcher"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/grovetools/refactor/errors"
)

// Search builds a workspace edit by matching a regular expression
// against every text file under Root and proposing Replacement for each
// match. Excludes use .gitignore-style patterns.
type Search struct {
	Root        string
	Pattern     *regexp.Regexp
	Replacement string
	Excludes    []string
}

func (p Search) WorkspaceEdit(ctx context.Context) (*protocol.WorkspaceEdit, error) {
	matcher, err := patternmatcher.New(p.Excludes)
	if err != nil {
		return nil, errors.ProviderFailed("search", err)
	}

	changes := make(map[uri.URI][]protocol.TextEdit)

	walkErr := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Every file is a suspension point as far as the caller is
		// concerned; stop promptly once cancelled.
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(p.Root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".grove" {
				return filepath.SkipDir
			}
			if rel != "." {
				if excluded, _ := matcher.MatchesOrParentMatches(rel); excluded {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if excluded, _ := matcher.MatchesOrParentMatches(rel); excluded {
			return nil
		}

		edits, err := p.scanFile(path)
		if err != nil {
			return err
		}
		if len(edits) > 0 {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			changes[uri.File(abs)] = edits
		}
		return nil
	})
	if walkErr != nil {
		if stderrors.Is(walkErr, context.Canceled) || stderrors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, errors.ProviderFailed("search", walkErr)
	}

	return &protocol.WorkspaceEdit{Changes: changes}, nil
}

// scanFile collects one text edit per regex match. Binary files are
// skipped.
func (p Search) scanFile(path string) ([]protocol.TextEdit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, nil
	}

	var edits []protocol.TextEdit
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for lineNum, line := range lines {
		for _, loc := range p.Pattern.FindAllStringIndex(line, -1) {
			match := line[loc[0]:loc[1]]
			edits = append(edits, protocol.TextEdit{
				Range: protocol.Range{
					Start: protocol.Position{Line: uint32(lineNum), Character: uint32(loc[0])},
					End:   protocol.Position{Line: uint32(lineNum), Character: uint32(loc[1])},
				},
				NewText: p.Pattern.ReplaceAllString(match, p.Replacement),
			})
		}
	}
	return edits, nil
}
