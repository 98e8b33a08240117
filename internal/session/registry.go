package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lichsu-edu/meono/internal/meono"
)

// Change reports an accepted command or undo.
type Change struct {
	GameID string
	State  meono.GameState
	// Event is nil for an undo.
	Event *meono.Event
}

// hooks is shared by a registry and all of its sessions.
type hooks struct {
	mu       sync.RWMutex
	onChange func(Change)
	onRemove func(id string)
}

// change runs under the session lock and must not call back into it.
func (h *hooks) change(c Change) {
	h.mu.RLock()
	fn := h.onChange
	h.mu.RUnlock()
	if fn != nil {
		fn(c)
	}
}

func (h *hooks) removed(ids ...string) {
	h.mu.RLock()
	fn := h.onRemove
	h.mu.RUnlock()
	if fn == nil {
		return
	}
	for _, id := range ids {
		fn(id)
	}
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
	hooks    *hooks
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
		hooks:    &hooks{},
	}
}

// OnChange registers fn for every accepted command or undo of any game.
// fn runs while the game is locked, so it must be quick and must not use
// the session.
func (r *Registry) OnChange(fn func(Change)) {
	r.hooks.mu.Lock()
	r.hooks.onChange = fn
	r.hooks.mu.Unlock()
}

// OnRemove registers fn for every game dropped by Remove or Sweep.
func (r *Registry) OnRemove(fn func(id string)) {
	r.hooks.mu.Lock()
	r.hooks.onRemove = fn
	r.hooks.mu.Unlock()
}

// Create starts a new game and registers it under a fresh id.
func (r *Registry) Create(opts Options) (*Session, error) {
	s, err := newSession(uuid.NewString(), opts, r.now, r.hooks)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	if _, ok := r.sessions[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	r.hooks.removed(id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns their ids.
func (r *Registry) Sweep(ttl time.Duration) []string {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var removed []string
	for id, s := range r.sessions {
		if s.lastActive().Before(cutoff) {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}
	r.mu.Unlock()

	r.hooks.removed(removed...)
	return removed
}
