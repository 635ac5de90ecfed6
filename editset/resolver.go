package editset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
	"go.lsp.dev/uri"
)

// LineCountResolver reports the total line count of a file, 0 for an
// empty file.
type LineCountResolver interface {
	Resolve(key uri.URI) (int, error)
}

// ChainResolver tries each resolver in order and returns the first
// successful count. The open-buffer resolver normally comes first so
// unsaved edits are counted, with the disk resolver as fallback.
type ChainResolver []LineCountResolver

func (c ChainResolver) Resolve(key uri.URI) (int, error) {
	var lastErr error
	for _, r := range c {
		count, err := r.Resolve(key)
		if err == nil {
			return count, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no resolver configured")
	}
	return 0, lastErr
}

// FileResolver counts lines by reading the file from disk.
type FileResolver struct{}

func (FileResolver) Resolve(key uri.URI) (int, error) {
	f, err := os.Open(key.Filename())
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

// BufferResolver counts lines of a file that is open in a Neovim
// instance. It fails for files with no loaded buffer so a chain can
// fall through to disk.
type BufferResolver struct {
	V *nvim.Nvim
}

func (r BufferResolver) Resolve(key uri.URI) (int, error) {
	path := key.Filename()
	bufs, err := r.V.Buffers()
	if err != nil {
		return 0, err
	}
	for _, b := range bufs {
		name, err := r.V.BufferName(b)
		if err != nil || name == "" {
			continue
		}
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
		if name == path {
			loaded, err := r.V.IsBufferLoaded(b)
			if err != nil || !loaded {
				break
			}
			return r.V.BufferLineCount(b)
		}
	}
	return 0, fmt.Errorf("%s is not open in a buffer", path)
}

// StaticResolver serves fixed line counts; used in tests and dry runs.
type StaticResolver map[uri.URI]int

func (s StaticResolver) Resolve(key uri.URI) (int, error) {
	count, ok := s[key]
	if !ok {
		return 0, fmt.Errorf("no line count for %s", key)
	}
	return count, nil
}
