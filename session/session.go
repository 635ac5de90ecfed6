// Package session owns the set of live review sessions, one per open
// scratch buffer, and routes external editor notifications to them.
package session

import (
	"github.com/grovetools/refactor/editset"
)

// ChangeEvent describes a document-change notification from the editor.
// The fields are carried through to the buffer session untouched.
type ChangeEvent struct {
	FirstLine int
	LastLine  int
}

// BufferSession is the external collaborator that owns the visible
// review artifact (the scratch buffer and its decorations).
type BufferSession interface {
	Render(items []editset.FileItem) error
	OnChange(ev ChangeEvent)
	Save() (bool, error)
	Dispose()
}

// Options are the constructor inputs for the buffer-session
// collaborator; the registry passes them through opaquely.
type Options struct {
	OriginWindow     int
	NewWindow        int
	WorkingDirectory string
}

// Factory materializes the visible artifact for a new session.
type Factory func(opts Options) (BufferSession, error)

// Session is one open review surface aggregating context windows from
// one or more files.
type Session struct {
	Key    int
	Items  []editset.FileItem
	buffer BufferSession

	disposed bool
}

// Buffer returns the session's rendering collaborator.
func (s *Session) Buffer() BufferSession {
	return s.buffer
}

// Save delegates to the buffer session.
func (s *Session) Save() (bool, error) {
	if s.disposed || s.buffer == nil {
		return false, nil
	}
	return s.buffer.Save()
}

// dispose releases the session's resources. Idempotent: disposing an
// already-disposed session is a no-op.
func (s *Session) dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.buffer != nil {
		s.buffer.Dispose()
	}
}
