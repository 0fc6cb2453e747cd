package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/orin-ai/agentdash/pkg/flow"
)

var (
	ErrSessionNotFound = errors.New("editor session not found")
	ErrSessionClosed   = errors.New("editor session closed")
)

// Session is one open editor. The flow editor it wraps is single threaded,
// so every access goes through Do.
type Session struct {
	ID string

	mu sync.Mutex
	ed *flow.Editor
	// agentID is the agent the tree belongs to, 0 until a blank session is
	// first applied.
	agentID  int64
	revision int
	closed   bool
}

func newSession(id string, agentID int64, ed *flow.Editor) *Session {
	s := &Session{ID: id, agentID: agentID, ed: ed}
	ed.OnTreeChanged(func(*flow.Tree) { s.revision++ })
	return s
}

// Do runs fn with exclusive access to the editor.
func (s *Session) Do(fn func(ed *flow.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return fn(s.ed)
}

// View is the state of a session as served to clients.
type View struct {
	ID           string   `json:"id"`
	AgentID      *int64   `json:"agent_id"`
	Revision     int      `json:"revision"`
	UnknownTools []string `json:"unknown_tools"`
	flow.Snapshot
}

// View snapshots the session.
func (s *Session) View() (View, error) {
	var v View
	err := s.Do(func(ed *flow.Editor) error {
		v = s.viewLocked()
		return nil
	})
	return v, err
}

// Apply runs fn like Do and returns the resulting view.
func (s *Session) Apply(fn func(ed *flow.Editor) error) (View, error) {
	var v View
	err := s.Do(func(ed *flow.Editor) error {
		if err := fn(ed); err != nil {
			return err
		}
		v = s.viewLocked()
		return nil
	})
	return v, err
}

func (s *Session) viewLocked() View {
	v := View{
		ID:           s.ID,
		Revision:     s.revision,
		UnknownTools: s.ed.UnknownTools(),
		Snapshot:     s.ed.Snapshot(),
	}
	if v.UnknownTools == nil {
		v.UnknownTools = []string{}
	}
	if s.agentID != 0 {
		id := s.agentID
		v.AgentID = &id
	}
	return v
}

// Commit hands the current tree and bound agent to fn, which persists them
// and returns the agent id the session belongs to from then on. The session
// stays locked while fn runs so no edit slips in between.
func (s *Session) Commit(fn func(tree *flow.Tree, agentID int64) (int64, error)) error {
	return s.Do(func(ed *flow.Editor) error {
		id, err := fn(ed.Tree().Clone(), s.agentID)
		if err != nil {
			return err
		}
		s.agentID = id
		return nil
	})
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

type entry struct {
	session  *Session
	lastUsed time.Time
}
