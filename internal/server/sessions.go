package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/AlonMell/rbtrace/internal/rbtree"
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("too many sessions")
)

// Session is one independent tree. The tree is not safe for concurrent use,
// so every access goes through Do.
type Session struct {
	ID      string
	Created time.Time

	mu   sync.Mutex
	tree *rbtree.Tree
}

// Do runs fn with exclusive access to the session's tree.
func (s *Session) Do(fn func(*rbtree.Tree)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tree)
}

// Store holds the live sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int

	logger  *slog.Logger
	observe func(rbtree.Step)
}

// NewStore creates a store holding at most max sessions. observe, if non-nil,
// is attached to every session's tree.
func NewStore(max int, logger *slog.Logger, observe func(rbtree.Step)) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		max:      max,
		logger:   logger,
		observe:  observe,
	}
}

// Create starts a session with an empty tree.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.max {
		return nil, errors.Wrapf(ErrTooManySessions, "limit %d", st.max)
	}

	id := uuid.NewString()
	opts := []rbtree.Option{rbtree.WithLogger(st.logger.With("session_id", id))}
	if st.observe != nil {
		opts = append(opts, rbtree.WithStepObserver(st.observe))
	}
	s := &Session{
		ID:      id,
		Created: time.Now(),
		tree:    rbtree.New(opts...),
	}
	st.sessions[id] = s
	return s, nil
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "%q", id)
	}
	return s, nil
}

// Delete drops a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
