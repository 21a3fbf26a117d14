package store

import (
	"context"
	"sync"

	"github.com/pongarena/pongarena/game"
)

// MemoryStore keeps everything in process memory. It backs tests and
// DSN-less development runs.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[string]*User
	matches     []game.MatchResult
	tournaments []game.TournamentResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// AddUser registers a directory entry. Tests seed users this way.
func (s *MemoryStore) AddUser(userID, nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = &User{UserID: userID, Nickname: nickname}
}

func (s *MemoryStore) SetPresence(_ context.Context, userID string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Online = online
	}
	return nil
}

func (s *MemoryStore) SaveMatch(_ context.Context, result game.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, result)
	return nil
}

func (s *MemoryStore) SaveTournamentMatch(_ context.Context, result game.TournamentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments = append(s.tournaments, result)
	return nil
}

func (s *MemoryStore) RecordOutcome(_ context.Context, winnerID, loserID string) error {
	if winnerID == "" || loserID == "" || winnerID == loserID {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	winner, ok := s.users[winnerID]
	if !ok {
		return ErrUnknownUser
	}
	loser, ok := s.users[loserID]
	if !ok {
		return ErrUnknownUser
	}
	winner.WinCount++
	loser.LossCount++
	return nil
}

func (s *MemoryStore) TournamentNameUsed(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tournaments {
		if t.TournamentName == name {
			return true, nil
		}
	}
	return false, nil
}

// Matches returns a copy of the saved match log.
func (s *MemoryStore) Matches() []game.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game.MatchResult, len(s.matches))
	copy(out, s.matches)
	return out
}

// TournamentMatches returns a copy of the saved bracket round log.
func (s *MemoryStore) TournamentMatches() []game.TournamentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game.TournamentResult, len(s.tournaments))
	copy(out, s.tournaments)
	return out
}

// UserCounts reports the win/loss counters for a user.
func (s *MemoryStore) UserCounts(userID string) (wins, losses int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, found := s.users[userID]
	if !found {
		return 0, 0, false
	}
	return u.WinCount, u.LossCount, true
}

// UserOnline reports the presence flag for a user.
func (s *MemoryStore) UserOnline(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return ok && u.Online
}
