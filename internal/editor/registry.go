// Package editor keeps server side editing sessions over question
// classification trees.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/internal/util"
	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/logger"

	"golang.org/x/sync/errgroup"
)

var log = logger.WithPrefix("editor")

// Registry holds open sessions and expires idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open starts a session. The catalog and, when agentID is not 0, the
// agent are loaded concurrently. A failing catalog source degrades to a
// catalog holding only no_tool; a missing agent fails the open.
func (r *Registry) Open(ctx context.Context, tools CatalogSource, agents store.AgentStore, agentID int64) (*Session, error) {
	var (
		catalog *flow.Catalog
		initial *flow.Tree
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := tools.Catalog(gctx)
		if err != nil || c == nil {
			log.Warn("Tool catalog unavailable, using no_tool only", "err", err)
			c = flow.NewCatalog()
		}
		catalog = c
		return nil
	})
	if agentID != 0 {
		g.Go(func() error {
			a, err := agents.GetAgent(gctx, agentID)
			if err != nil {
				return err
			}
			initial = a.QuestionClass
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	id, err := util.NewID()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	s := newSession(id, agentID, flow.NewEditor(catalog, initial))
	if unknown := s.ed.UnknownTools(); len(unknown) > 0 {
		log.Warn("Tree references unknown tools", "session", id, "tools", unknown)
	}

	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastUsed: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	log.Debug("Session opened", "session", id, "agent_id", agentID, "open", n)
	return s, nil
}

// Get returns a session and marks it used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	e.lastUsed = r.now()
	return e.session, nil
}

// Close removes a session. Calls already inside Do finish first.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	e.session.close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// it closed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		log.Info("Expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Session janitor stopped")
			return
		case <-t.C:
			r.Sweep()
		}
	}
}
