// Package session hosts running games. Each Session serializes the commands
// issued against its game so exactly one is in flight at a time.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lichsu-edu/meono/internal/meono"
)

var (
	ErrNotFound      = errors.New("game not found")
	ErrForbidden     = errors.New("host pin does not match")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Options configures a new game session.
type Options struct {
	Deck    string
	Names   []string
	Bank    []meono.Question
	Rules   meono.Rules
	Seed    uint64
	HostPIN string
	// UndoDepth bounds how many prior snapshots are kept. Zero disables undo.
	UndoDepth int
}

type Session struct {
	ID        string
	Deck      string
	Seed      uint64
	CreatedAt time.Time

	now       func() time.Time
	mu        sync.Mutex
	engine    *meono.Engine
	state     meono.GameState
	undo      []meono.GameState
	undoDepth int
	pinHash   []byte
	active    time.Time
	hooks     *hooks
}

func newSession(id string, opts Options, now func() time.Time, h *hooks) (*Session, error) {
	engine, err := meono.NewEngine(opts.Rules, meono.NewSeededRNG(opts.Seed))
	if err != nil {
		return nil, err
	}
	state, err := engine.NewGame(opts.Names, opts.Bank)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        id,
		Deck:      opts.Deck,
		Seed:      opts.Seed,
		CreatedAt: now(),
		now:       now,
		engine:    engine,
		state:     state,
		undoDepth: opts.UndoDepth,
		active:    now(),
		hooks:     h,
	}
	if opts.HostPIN != "" {
		s.pinHash, err = bcrypt.GenerateFromPassword([]byte(opts.HostPIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing host pin: %w", err)
		}
	}
	return s, nil
}

func (s *Session) Snapshot() meono.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Rules() meono.Rules { return s.engine.Rules() }

func (s *Session) Protected() bool { return s.pinHash != nil }

// Apply runs cmd against the current state. A failed command leaves the
// session untouched. Change hooks run before the lock is released, so they
// observe commands in the order they were applied.
func (s *Session) Apply(pin string, cmd meono.Command) (meono.GameState, meono.Event, error) {
	if err := s.Authorize(pin); err != nil {
		return meono.GameState{}, meono.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, ev, err := s.engine.Apply(s.state, cmd)
	if err != nil {
		return s.state, meono.Event{}, err
	}
	if s.undoDepth > 0 {
		s.undo = append(s.undo, s.state)
		if len(s.undo) > s.undoDepth {
			s.undo = s.undo[1:]
		}
	}
	s.state = next
	s.active = s.now()
	s.hooks.change(Change{GameID: s.ID, State: next, Event: &ev})
	return next, ev, nil
}

// Undo restores the snapshot taken before the last successful command.
func (s *Session) Undo(pin string) (meono.GameState, error) {
	if err := s.Authorize(pin); err != nil {
		return meono.GameState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return s.state, ErrNothingToUndo
	}
	last := len(s.undo) - 1
	s.state = s.undo[last]
	s.undo = s.undo[:last]
	s.active = s.now()
	s.hooks.change(Change{GameID: s.ID, State: s.state})
	return s.state, nil
}

// Authorize checks pin against the host PIN. Unprotected games accept any pin.
func (s *Session) Authorize(pin string) error {
	if s.pinHash == nil {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return ErrForbidden
	}
	return nil
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
