// Package store is the persistence collaborator: match history, the user
// directory's win/loss counters and presence flag, and the tournament-name
// history check. The engine talks to it only at terminal states, never on
// the tick path.
package store

import (
	"context"
	"errors"

	"github.com/pongarena/pongarena/game"
)

// ErrUnknownUser is returned when a counter update references a user id
// that was never registered.
var ErrUnknownUser = errors.New("store: unknown user")

// Store is the persistence surface the engine depends on.
type Store interface {
	// SetPresence flips a user's online flag on connect/disconnect.
	SetPresence(ctx context.Context, userID string, online bool) error

	// SaveMatch appends one completed non-tournament match.
	SaveMatch(ctx context.Context, result game.MatchResult) error

	// SaveTournamentMatch appends one completed bracket round.
	SaveTournamentMatch(ctx context.Context, result game.TournamentResult) error

	// RecordOutcome increments the winner's win counter and the loser's
	// loss counter. Both ids must be non-empty and distinct; anything else
	// is a no-op so callers can pass through unresolved pairs.
	RecordOutcome(ctx context.Context, winnerID, loserID string) error

	// TournamentNameUsed reports whether a stored tournament record
	// already claimed this name.
	TournamentNameUsed(ctx context.Context, name string) (bool, error)
}
