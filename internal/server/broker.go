package server

import (
	"encoding/json"
	"sync"

	"github.com/lichsu-edu/meono/internal/meono"
	"github.com/lichsu-edu/meono/internal/session"
)

const (
	sseCommand = "command"
	sseUndo    = "undo"
	sseClosed  = "closed"
)

// SSEEvent is the payload published to the displays following a game.
type SSEEvent struct {
	Type  string           `json:"type"`
	Event *meono.Event     `json:"event,omitempty"`
	State *meono.GameState `json:"state,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded SSE events for the given game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(gameID string, event SSEEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Close sends a final closed event and closes every subscriber channel of
// the game.
func (b *Broker) Close(gameID string) {
	data, _ := json.Marshal(SSEEvent{Type: sseClosed})
	b.mu.Lock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
		}
		close(ch)
	}
	delete(b.subs, gameID)
	b.mu.Unlock()
}

// Follow publishes every change of the registry's games and closes the
// streams of games it drops, whether deleted or swept.
func (b *Broker) Follow(games *session.Registry) {
	games.OnChange(func(c session.Change) {
		ev := SSEEvent{Type: sseCommand, Event: c.Event, State: &c.State}
		if c.Event == nil {
			ev.Type = sseUndo
		}
		b.Publish(c.GameID, ev)
	})
	games.OnRemove(b.Close)
}

func (b *Broker) subscribers(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[gameID])
}
