package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/neovim/go-client/nvim"
	"github.com/sirupsen/logrus"
	"go.lsp.dev/protocol"

	"github.com/grovetools/refactor/config"
	"github.com/grovetools/refactor/editset"
	"github.com/grovetools/refactor/errors"
	"github.com/grovetools/refactor/logging"
	"github.com/grovetools/refactor/session"
)

// Highlight groups used in the scratch buffer. They are defined with
// `highlight default link` so user colorschemes can override them.
const (
	hlFileHeader   = "RefactorFileHeader"
	hlWindowHeader = "RefactorWindowHeader"
	hlEdit         = "RefactorEdit"
)

// ScratchSession renders review content into one scratch buffer and
// writes reviewed edits back to the source files on save.
type ScratchSession struct {
	v   *nvim.Nvim
	buf nvim.Buffer
	ns  int
	cfg config.RefactorConfig
	log *logrus.Entry

	rendered *Rendered
	dirty    bool
}

// NewScratchSession opens the review window and creates the scratch
// buffer inside it.
func NewScratchSession(v *nvim.Nvim, opts session.Options, cfg config.RefactorConfig) (*ScratchSession, error) {
	if err := v.Command(cfg.OpenCommand); err != nil {
		return nil, errors.RenderFailed(err)
	}

	buf, err := v.CreateBuffer(false, true)
	if err != nil {
		return nil, errors.RenderFailed(err)
	}
	if err := v.SetCurrentBuffer(buf); err != nil {
		return nil, errors.RenderFailed(err)
	}

	for name, value := range map[string]interface{}{
		"buftype":   "acwrite",
		"bufhidden": "wipe",
		"swapfile":  false,
		"filetype":  "refactor",
	} {
		if err := v.SetBufferOption(buf, name, value); err != nil {
			return nil, errors.RenderFailed(err)
		}
	}
	if err := v.SetBufferName(buf, fmt.Sprintf("refactor://%d", int(buf))); err != nil {
		return nil, errors.RenderFailed(err)
	}

	ns, err := v.CreateNamespace("refactor")
	if err != nil {
		return nil, errors.RenderFailed(err)
	}

	for group, link := range map[string]string{
		hlFileHeader:   "Title",
		hlWindowHeader: "LineNr",
		hlEdit:         "IncSearch",
	} {
		if err := v.Command(fmt.Sprintf("highlight default link %s %s", group, link)); err != nil {
			return nil, errors.RenderFailed(err)
		}
	}

	return &ScratchSession{
		v:   v,
		buf: buf,
		ns:  ns,
		cfg: cfg,
		log: logging.NewLogger("preview"),
	}, nil
}

// Buffer returns the scratch buffer handle.
func (s *ScratchSession) Buffer() nvim.Buffer {
	return s.buf
}

// Render lays the file items out in the scratch buffer and applies the
// highlight decorations.
func (s *ScratchSession) Render(items []editset.FileItem) error {
	rendered, err := renderItems(items, readFileLines)
	if err != nil {
		return errors.RenderFailed(err)
	}

	replacement := make([][]byte, len(rendered.Lines))
	for i, line := range rendered.Lines {
		replacement[i] = []byte(line)
	}
	if err := s.v.SetBufferLines(s.buf, 0, -1, false, replacement); err != nil {
		return errors.RenderFailed(err)
	}
	if err := s.v.SetBufferOption(s.buf, "modified", false); err != nil {
		return errors.RenderFailed(err)
	}

	s.rendered = rendered
	s.applyHighlights()
	return nil
}

// applyHighlights decorates headers and the edit ranges inside each
// rendered window. Decoration failures are logged, never fatal: the
// review content itself is already in place.
func (s *ScratchSession) applyHighlights() {
	for i, line := range s.rendered.Lines {
		if fileHeaderRe.MatchString(line) {
			s.addHighlight(hlFileHeader, i, 0, -1)
		} else if windowHeaderRe.MatchString(line) {
			s.addHighlight(hlWindowHeader, i, 0, -1)
		}
	}

	for _, seg := range s.rendered.Segments {
		for _, hl := range seg.Window.Highlights {
			s.highlightRange(seg.TextLine, hl)
		}
	}
}

// highlightRange highlights a window-relative edit range, line by line
// for multi-line ranges.
func (s *ScratchSession) highlightRange(textLine int, r protocol.Range) {
	startLine := textLine + int(r.Start.Line)
	endLine := textLine + int(r.End.Line)

	if startLine == endLine {
		s.addHighlight(hlEdit, startLine, int(r.Start.Character), int(r.End.Character))
		return
	}
	s.addHighlight(hlEdit, startLine, int(r.Start.Character), -1)
	for line := startLine + 1; line < endLine; line++ {
		s.addHighlight(hlEdit, line, 0, -1)
	}
	s.addHighlight(hlEdit, endLine, 0, int(r.End.Character))
}

func (s *ScratchSession) addHighlight(group string, line, colStart, colEnd int) {
	if _, err := s.v.AddBufferHighlight(s.buf, s.ns, group, line, colStart, colEnd); err != nil {
		s.log.WithError(err).Debugf("highlight failed at line %d", line)
	}
}

// OnChange records that the scratch document diverged from the rendered
// state.
func (s *ScratchSession) OnChange(ev session.ChangeEvent) {
	s.dirty = true
	s.log.WithFields(logrus.Fields{
		"first": ev.FirstLine,
		"last":  ev.LastLine,
	}).Debug("review buffer changed")
}

// Save reads the scratch buffer back, splices each window's (possibly
// edited) text into its source file, and writes the files out. Returns
// false when there was nothing rendered to save.
func (s *ScratchSession) Save() (bool, error) {
	if s.rendered == nil {
		return false, nil
	}
	if !s.cfg.Save() {
		s.log.Debug("save_on_write disabled; source files left untouched")
		return false, nil
	}

	raw, err := s.v.BufferLines(s.buf, 0, -1, false)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSaveFailed, "failed to read review buffer")
	}
	lines := make([]string, len(raw))
	for i, b := range raw {
		lines[i] = string(b)
	}

	segments, err := parseRendered(lines)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSaveFailed, "review buffer structure is damaged")
	}

	byPath := make(map[string][]parsedSegment)
	var order []string
	for _, seg := range segments {
		if _, seen := byPath[seg.path]; !seen {
			order = append(order, seg.path)
		}
		byPath[seg.path] = append(byPath[seg.path], seg)
	}

	for _, path := range order {
		fileLines, err := readFileLines(path)
		if err != nil {
			return false, errors.SaveFailed(path, err)
		}
		fileLines = spliceSegments(fileLines, byPath[path])
		content := strings.Join(fileLines, "\n")
		if len(fileLines) > 0 {
			content += "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return false, errors.SaveFailed(path, err)
		}
		s.log.WithField("path", path).Info("edits written back")
	}

	if err := s.v.SetBufferOption(s.buf, "modified", false); err != nil {
		s.log.WithError(err).Debug("could not clear modified flag")
	}
	s.dirty = false
	return true, nil
}

// Dispose wipes the scratch buffer. Idempotent: a buffer that is already
// gone is not an error.
func (s *ScratchSession) Dispose() {
	if s.v == nil {
		return
	}
	if err := s.v.Command(fmt.Sprintf("silent! bwipeout! %d", int(s.buf))); err != nil {
		s.log.WithError(err).Debug("bwipeout failed")
	}
}

// readFileLines reads a file and splits it into lines without trailing
// newlines.
func readFileLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.Split(text, "\n"), nil
}
