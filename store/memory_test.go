package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pongarena/pongarena/game"
)

func TestMemoryStoreRecordOutcome(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser("u1", "alice")
	s.AddUser("u2", "bob")
	ctx := context.Background()

	require.NoError(t, s.RecordOutcome(ctx, "u1", "u2"))

	wins, losses, ok := s.UserCounts("u1")
	require.True(t, ok)
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, losses)

	wins, losses, _ = s.UserCounts("u2")
	assert.Equal(t, 0, wins)
	assert.Equal(t, 1, losses)
}

func TestMemoryStoreRecordOutcomeInvalidPairs(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser("u1", "alice")
	ctx := context.Background()

	// Empty or identical ids are ignored, not errors
	assert.NoError(t, s.RecordOutcome(ctx, "", "u1"))
	assert.NoError(t, s.RecordOutcome(ctx, "u1", ""))
	assert.NoError(t, s.RecordOutcome(ctx, "u1", "u1"))

	wins, losses, _ := s.UserCounts("u1")
	assert.Zero(t, wins)
	assert.Zero(t, losses)

	// An unknown id in a valid-looking pair is an error
	assert.ErrorIs(t, s.RecordOutcome(ctx, "u1", "ghost"), ErrUnknownUser)
}

func TestMemoryStorePresence(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser("u1", "alice")
	ctx := context.Background()

	require.NoError(t, s.SetPresence(ctx, "u1", true))
	assert.True(t, s.UserOnline("u1"))

	require.NoError(t, s.SetPresence(ctx, "u1", false))
	assert.False(t, s.UserOnline("u1"))
}

func TestMemoryStoreTournamentNameUsed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	used, err := s.TournamentNameUsed(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, s.SaveTournamentMatch(ctx, game.TournamentResult{
		MatchResult: game.MatchResult{
			StartedAt: time.Now(),
			EndedAt:   time.Now(),
			Player1ID: "u1",
			Player2ID: "u2",
			Score1:    3,
		},
		TournamentName: "abc",
		Round:          1,
	}))

	used, err = s.TournamentNameUsed(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestMemoryStoreSaveMatch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveMatch(ctx, game.MatchResult{
		Player1ID: "u1", Player2ID: "u2", Score1: 3, Score2: 1,
	}))

	matches := s.Matches()
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].Score1)
}
