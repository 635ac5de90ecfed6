package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/refactor/editset"
	"github.com/grovetools/refactor/logging"
)

// Registry is the single owner of the session map. All inserts, removes
// and clears happen here; notification sources call in through OnUnload
// and OnDocumentChanged rather than touching sessions directly.
type Registry struct {
	mu       sync.Mutex
	sessions map[int]*Session
	nextKey  func() int
	factory  Factory
	log      *logrus.Entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithKeyFunc injects the session key generator. Keys must be unique
// for the process lifetime; the default is a plain increment.
func WithKeyFunc(next func() int) Option {
	return func(r *Registry) {
		r.nextKey = next
	}
}

// NewRegistry creates a registry that materializes sessions through the
// given factory.
func NewRegistry(factory Factory, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[int]*Session),
		factory:  factory,
		log:      logging.NewLogger("session-registry"),
	}
	counter := 0
	r.nextKey = func() int {
		counter++
		return counter
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open allocates a new session key, materializes the visible artifact
// through the factory and registers the session. Nothing is registered
// if the factory fails.
func (r *Registry) Open(opts Options) (*Session, error) {
	buffer, err := r.factory(opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Session{
		Key:    r.nextKey(),
		buffer: buffer,
	}
	r.sessions[s.Key] = s
	r.log.WithField("key", s.Key).Debug("session opened")
	return s, nil
}

// AttachFileItems hands the built file items to the session for
// rendering and persists them as the session's state.
func (r *Registry) AttachFileItems(s *Session, items []editset.FileItem) error {
	if err := s.buffer.Render(items); err != nil {
		return err
	}

	r.mu.Lock()
	s.Items = items
	r.mu.Unlock()
	return nil
}

// OnDocumentChanged routes a change notification to the owning session;
// no-op when no session exists for the key.
func (r *Registry) OnDocumentChanged(key int, ev ChangeEvent) {
	r.mu.Lock()
	s, ok := r.sessions[key]
	r.mu.Unlock()
	if !ok {
		return
	}
	s.buffer.OnChange(ev)
}

// OnUnload disposes and removes the session for key; no-op if absent.
func (r *Registry) OnUnload(key int) {
	r.mu.Lock()
	s, ok := r.sessions[key]
	if ok {
		delete(r.sessions, key)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	s.dispose()
	r.log.WithField("key", key).Debug("session unloaded")
}

// Has reports whether a session exists for key.
func (r *Registry) Has(key int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[key]
	return ok
}

// Get returns the session for key, if any.
func (r *Registry) Get(key int) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reset disposes every session and clears the registry. Used for full
// teardown, not per-session close.
func (r *Registry) Reset() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[int]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.dispose()
	}
}

// Dispose releases registry-owned references. Sessions already disposed
// individually are assumed to have released their own resources.
func (r *Registry) Dispose() {
	r.mu.Lock()
	r.sessions = make(map[int]*Session)
	r.mu.Unlock()
}
