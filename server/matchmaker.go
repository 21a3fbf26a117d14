package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pongarena/pongarena/game"
)

// MatchFoundMessage tells both waiters which match id to connect to.
type MatchFoundMessage struct {
	GameID string `json:"game_id"`
}

// waiter is one queued connection.
type waiter struct {
	identity Identity
	notify   func([]byte)
}

// Matchmaker pairs waiting connections into new matches, strictly first
// come first served. The wait list and its nickname dedup set share one
// mutex so enqueue/dequeue pairs are atomic.
type Matchmaker struct {
	mu       sync.Mutex
	queue    []*waiter
	names    map[string]struct{}
	registry *Registry
	log      *slog.Logger
}

func NewMatchmaker(registry *Registry, log *slog.Logger) *Matchmaker {
	return &Matchmaker{
		names:    make(map[string]struct{}),
		registry: registry,
		log:      log,
	}
}

// Enqueue adds a connection to the wait list. A nickname already queued
// is rejected. Whenever two entries are waiting, the two oldest are
// matched immediately.
func (mm *Matchmaker) Enqueue(identity Identity, notify func([]byte)) (*waiter, bool) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if _, queued := mm.names[identity.Nickname]; queued {
		return nil, false
	}
	w := &waiter{identity: identity, notify: notify}
	mm.queue = append(mm.queue, w)
	mm.names[identity.Nickname] = struct{}{}

	if len(mm.queue) > 1 {
		mm.matchPair()
	}
	return w, true
}

// Leave removes a waiter that disconnected before a match formed. A
// waiter already matched (or already removed) is a no-op.
func (mm *Matchmaker) Leave(w *waiter) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	for i, queued := range mm.queue {
		if queued == w {
			mm.queue = append(mm.queue[:i], mm.queue[i+1:]...)
			delete(mm.names, w.identity.Nickname)
			return
		}
	}
}

// matchPair pops the two oldest waiters, registers a fresh match and
// notifies both. Caller holds mm.mu.
func (mm *Matchmaker) matchPair() {
	gameID := uuid.NewString()
	p1 := mm.queue[0]
	p2 := mm.queue[1]
	mm.queue = mm.queue[2:]
	delete(mm.names, p1.identity.Nickname)
	delete(mm.names, p2.identity.Nickname)

	match := game.NewMatch(
		game.NewPlayer(1, p1.identity.UserID, p1.identity.Nickname),
		game.NewPlayer(2, p2.identity.UserID, p2.identity.Nickname),
	)
	mm.registry.AddMatch(gameID, match)

	payload, _ := json.Marshal(MatchFoundMessage{GameID: gameID})
	p1.notify(payload)
	p2.notify(payload)

	mm.log.Info("matched players",
		"game_id", gameID,
		"player1", p1.identity.Nickname,
		"player2", p2.identity.Nickname)
}
