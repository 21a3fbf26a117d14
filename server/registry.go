package server

import (
	"sync"

	"github.com/pongarena/pongarena/game"
)

// MatchSession is one live match plus its broadcast group and driving
// loop handle.
type MatchSession struct {
	ID    string
	Match *game.Match
	Group string

	mu   sync.Mutex
	loop *Loop
}

// EnsureLoop starts the session's driving loop if it is not already
// running. Both players racing through the ready barrier start exactly
// one loop.
func (ms *MatchSession) EnsureLoop(start func() *Loop) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.loop == nil {
		ms.loop = start()
	}
}

// StopLoop cancels the driving loop and waits for it to finish. A no-op
// when no loop was ever started.
func (ms *MatchSession) StopLoop() {
	ms.mu.Lock()
	loop := ms.loop
	ms.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
}

// TournamentSession is one live tournament plus the loop handle of each
// bracket round and the once-only guards for final seeding and
// persistence.
type TournamentSession struct {
	Tournament *game.Tournament

	mu    sync.Mutex
	loops [3]*Loop

	seedSemis  sync.Once
	seedFinal  sync.Once
	startSemis sync.Once
	startFinal sync.Once
	persist    sync.Once
}

// SeedSemifinalsOnce runs fn the first time the four-player ready
// barrier passes, even when the last two ready messages race.
func (ts *TournamentSession) SeedSemifinalsOnce(fn func()) {
	ts.seedSemis.Do(fn)
}

// EnsureRoundLoop starts the loop for one bracket round if it is not
// already running.
func (ts *TournamentSession) EnsureRoundLoop(number int, start func() *Loop) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.loops[number-1] == nil {
		ts.loops[number-1] = start()
	}
}

// StopRoundLoop cancels one round's loop and waits for it to finish.
func (ts *TournamentSession) StopRoundLoop(number int) {
	ts.mu.Lock()
	loop := ts.loops[number-1]
	ts.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
}

// StartSemifinalsOnce runs fn the first time both semifinal ready
// barriers pass together.
func (ts *TournamentSession) StartSemifinalsOnce(fn func()) {
	ts.startSemis.Do(fn)
}

// StartFinalOnce runs fn the first time the final's ready barrier passes.
func (ts *TournamentSession) StartFinalOnce(fn func()) {
	ts.startFinal.Do(fn)
}

// SeedFinalOnce runs fn the first time either semifinal winner reaches
// the final gate.
func (ts *TournamentSession) SeedFinalOnce(fn func()) {
	ts.seedFinal.Do(fn)
}

// PersistOnce runs fn at most once per tournament, no matter how many
// participants race to report completion.
func (ts *TournamentSession) PersistOnce(fn func()) {
	ts.persist.Do(fn)
}

// Registry is the process-wide mapping from session identifier to live
// engine instance: matches by id, tournaments by validated name. It is an
// explicit handle owned by the Server, shared by every connection.
type Registry struct {
	mu          sync.Mutex
	matches     map[string]*MatchSession
	tournaments map[string]*TournamentSession
}

func NewRegistry() *Registry {
	return &Registry{
		matches:     make(map[string]*MatchSession),
		tournaments: make(map[string]*TournamentSession),
	}
}

// AddMatch registers a new match under the given id.
func (r *Registry) AddMatch(id string, m *game.Match) *MatchSession {
	session := &MatchSession{ID: id, Match: m, Group: matchGroup(id)}
	r.mu.Lock()
	r.matches[id] = session
	r.mu.Unlock()
	return session
}

// Match looks up a live match session.
func (r *Registry) Match(id string) (*MatchSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.matches[id]
	return session, ok
}

// RemoveMatch removes a match session. Only the first caller gets it
// back; a concurrent second disconnect sees false.
func (r *Registry) RemoveMatch(id string) (*MatchSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.matches[id]
	if ok {
		delete(r.matches, id)
	}
	return session, ok
}

// AddTournament registers a tournament under its name. Returns false if
// the name is already active.
func (r *Registry) AddTournament(t *game.Tournament) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tournaments[t.Name()]; exists {
		return false
	}
	r.tournaments[t.Name()] = &TournamentSession{Tournament: t}
	return true
}

// Tournament looks up a live tournament session.
func (r *Registry) Tournament(name string) (*TournamentSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.tournaments[name]
	return session, ok
}

// HasTournament reports whether a name is claimed by an active tournament.
func (r *Registry) HasTournament(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tournaments[name]
	return ok
}

// RemoveTournament removes a tournament. Idempotent under concurrent
// disconnects.
func (r *Registry) RemoveTournament(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[name]; !ok {
		return false
	}
	delete(r.tournaments, name)
	return true
}

// WaitingTournaments lists tournaments still gathering players, for the
// lobby list.
func (r *Registry) WaitingTournaments() []game.WaitSummary {
	r.mu.Lock()
	sessions := make([]*TournamentSession, 0, len(r.tournaments))
	for _, session := range r.tournaments {
		sessions = append(sessions, session)
	}
	r.mu.Unlock()

	list := make([]game.WaitSummary, 0, len(sessions))
	for _, session := range sessions {
		t := session.Tournament
		if t.Status() == game.TournamentWait && t.TotalPlayers() < game.TournamentPlayerCount {
			list = append(list, t.Summary())
		}
	}
	return list
}
