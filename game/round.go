package game

import "strconv"

// Round is one bracket slot inside a tournament: a match that additionally
// remembers its own winner and loser by nickname, gates on a round-specific
// ready status, and carries a once-only closed flag so the owning handler
// can tear down its driving loop idempotently under concurrent disconnects.
type Round struct {
	*Match
	number int
	winner string
	loser  string
	closed bool
}

// NewRound creates a round for the given bracket slot (1, 2 or 3=final).
func NewRound(player1, player2 *Player, number int) *Round {
	return &Round{Match: NewMatch(player1, player2), number: number}
}

// Number returns the bracket slot this round occupies.
func (r *Round) Number() int { return r.number }

// RoundLabel is the wire form of the round number.
func (r *Round) RoundLabel() string { return strconv.Itoa(r.number) }

// SetRoundReady marks the player with the given user id round-ready.
func (r *Round) SetRoundReady(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.player1 != nil && r.player1.UserID() == userID:
		r.player1.SetStatus(PlayerRoundReady)
	case r.player2 != nil && r.player2.UserID() == userID:
		r.player2.SetStatus(PlayerRoundReady)
	}
}

// AllReady reports whether both players passed the round-ready barrier.
// This intentionally shadows the generic match barrier: a round waits for
// the round_ready status, not the lobby ready status.
func (r *Round) AllReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player1 == nil || r.player2 == nil {
		return false
	}
	return r.player1.Status() == PlayerRoundReady && r.player2.Status() == PlayerRoundReady
}

// Winner returns the recorded winner nickname, empty until the round ends.
func (r *Round) Winner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}

// Loser returns the recorded loser nickname, empty until the round ends.
func (r *Round) Loser() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loser
}

// Nicknames returns both seat nicknames in slot order.
func (r *Round) Nicknames() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.player1.Nickname(), r.player2.Nickname()
}

// Close marks the round's driving loop as torn down. Only the first caller
// gets true; concurrent disconnects after that are no-ops.
func (r *Round) Close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.closed = true
	return true
}

// Closed reports whether the driving loop has been torn down.
func (r *Round) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// record notes the winner and loser by comparing scores. Caller holds r.mu.
func (r *Round) record() {
	if r.score1 > r.score2 {
		r.winner, r.loser = r.player1.Nickname(), r.player2.Nickname()
	} else {
		r.winner, r.loser = r.player2.Nickname(), r.player1.Nickname()
	}
}

// BuildStartMessage announces the round and both nicknames.
func (r *Round) BuildStartMessage() StartMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return StartMessage{
		MessageType: MsgTypeStart,
		Round:       strconv.Itoa(r.number),
		Player1:     r.player1.Nickname(),
		Player2:     r.player2.Nickname(),
	}
}

// BuildEndMessage records and names the winner and loser. Shown to the
// eliminated player.
func (r *Round) BuildEndMessage() EndMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record()
	return EndMessage{
		MessageType: MsgTypeEnd,
		Round:       strconv.Itoa(r.number),
		Winner:      r.winner,
		Loser:       r.loser,
	}
}

// BuildStayMessage is the end frame shown to the winner, who stays in the
// bracket and waits for the next round.
func (r *Round) BuildStayMessage() EndMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record()
	return EndMessage{
		MessageType: MsgTypeStay,
		Round:       strconv.Itoa(r.number),
		Winner:      r.winner,
		Loser:       r.loser,
	}
}
