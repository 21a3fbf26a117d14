package game

import (
	"strconv"
	"sync"
)

// TournamentResult is the persistence view of one finished bracket round.
type TournamentResult struct {
	MatchResult
	TournamentName string
	Round          int
	IsFinal        bool
}

// WaitSummary is one entry of the tournament lobby list.
type WaitSummary struct {
	TournamentName string `json:"tournament_name"`
	WaitCount      string `json:"wait_num"`
}

// Tournament is a four-player single-elimination bracket: four player
// slots, two semifinal rounds and one final. The creator occupies slot 1
// from construction.
type Tournament struct {
	mu      sync.Mutex
	name    string
	players [TournamentPlayerCount]*Player
	rounds  [3]*Round
	total   int
	status  TournamentStatus
}

// NewTournament creates a waiting tournament with the creator in slot 1.
func NewTournament(name, userID, nickname string) *Tournament {
	t := &Tournament{name: name, status: TournamentWait, total: 1}
	t.players[0] = NewPlayer(1, userID, nickname)
	return t
}

func (t *Tournament) Name() string { return t.name }

// Summary describes the tournament for the waiting lobby list.
func (t *Tournament) Summary() WaitSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return WaitSummary{TournamentName: t.name, WaitCount: strconv.Itoa(t.total)}
}

// Join seats a new participant in the first empty slot, filling paddle
// seats alternately (odd slots serve as player 1, even as player 2). An
// identity already present is reported back with its existing slot rather
// than seated twice. Joining a full tournament fails. The fourth distinct
// join flips the tournament to ready.
func (t *Tournament) Join(userID, nickname string) (WaitMessage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for idx, player := range t.players {
		if player == nil {
			number := 1
			if idx%2 == 1 {
				number = 2
			}
			t.players[idx] = NewPlayer(number, userID, nickname)
			t.total++
			if t.total == TournamentPlayerCount {
				t.status = TournamentReady
			}
			return t.waitMessage(nickname, idx), true
		}
		if player.UserID() == userID {
			// Re-join: report the occupied slot back.
			return t.waitMessage(nickname, idx), true
		}
	}
	return WaitMessage{}, false
}

// Leave empties the slot held by nickname and reports the new headcount.
// Leaving never reverses a ready transition; the caller decides whether a
// later departure is an error instead.
func (t *Tournament) Leave(nickname string) (WaitMessage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for idx, player := range t.players {
		if player != nil && player.Nickname() == nickname {
			t.players[idx] = nil
			t.total--
			return t.waitMessage(nickname, idx), true
		}
	}
	return WaitMessage{}, false
}

func (t *Tournament) waitMessage(nickname string, idx int) WaitMessage {
	return WaitMessage{
		MessageType: MsgTypeWait,
		Nickname:    nickname,
		Total:       t.total,
		Number:      SlotLabels[idx],
	}
}

// TrySetReady marks the player in the given slot ready, provided the slot
// is occupied by that nickname.
func (t *Tournament) TrySetReady(slot, nickname string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for idx, label := range SlotLabels {
		if label != slot {
			continue
		}
		if t.players[idx] == nil || t.players[idx].Nickname() != nickname {
			return false
		}
		t.players[idx].SetStatus(PlayerReady)
		return true
	}
	return false
}

// AllReady reports whether all four slots are occupied and ready.
func (t *Tournament) AllReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, player := range t.players {
		if player == nil || player.Status() != PlayerReady {
			return false
		}
	}
	return true
}

// SeedSemifinal builds the given semifinal round (1 seats slots 1 and 2,
// 2 seats slots 3 and 4) and returns the ready message for its group.
func (t *Tournament) SeedSemifinal(number int) StartMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	lo := 0
	if number == RoundSemifinalB {
		lo = 2
	}
	round := NewRound(t.players[lo], t.players[lo+1], number)
	t.rounds[number-1] = round
	p1, p2 := round.Nicknames()
	return StartMessage{
		MessageType: MsgTypeReady,
		Round:       round.RoundLabel(),
		Player1:     p1,
		Player2:     p2,
	}
}

// SeedFinal promotes the two semifinal winners, re-seats their paddles as
// players 1 and 2, builds the final round and returns the ready message
// for the winners-only group.
func (t *Tournament) SeedFinal(winner1, winner2 string) StartMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	var player1, player2 *Player
	for _, player := range t.players {
		if player == nil {
			continue
		}
		switch player.Nickname() {
		case winner1:
			player1 = player
		case winner2:
			player2 = player
		}
	}
	player1.SetStatus(PlayerReady)
	player2.SetStatus(PlayerReady)
	player1.SetNumber(1)
	player2.SetNumber(2)
	round := NewRound(player1, player2, RoundFinal)
	t.rounds[RoundFinal-1] = round
	return StartMessage{
		MessageType: MsgTypeReady,
		Round:       round.RoundLabel(),
		Player1:     winner1,
		Player2:     winner2,
	}
}

// AllRoundReady reports whether both semifinal rounds passed their
// round-ready barriers.
func (t *Tournament) AllRoundReady() bool {
	t.mu.Lock()
	a, b := t.rounds[0], t.rounds[1]
	t.mu.Unlock()
	return a != nil && b != nil && a.AllReady() && b.AllReady()
}

// Round returns the round in the given bracket slot, nil until seeded.
func (t *Tournament) Round(number int) *Round {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rounds[number-1]
}

// StartRounds moves the semifinals (or the final) to playing and stamps
// their start times. Called once the relevant ready barrier passes.
func (t *Tournament) StartRounds(isFinal bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if isFinal {
		t.rounds[RoundFinal-1].SetStatus(StatusPlaying)
		t.rounds[RoundFinal-1].StampStart()
		return
	}
	for i := 0; i < RoundFinal-1; i++ {
		t.rounds[i].SetStatus(StatusPlaying)
		t.rounds[i].StampStart()
	}
}

func (t *Tournament) Status() TournamentStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Tournament) SetStatus(status TournamentStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

func (t *Tournament) TotalPlayers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// ResultFor snapshots one bracket round for persistence.
func (t *Tournament) ResultFor(number int) TournamentResult {
	round := t.Round(number)
	return TournamentResult{
		MatchResult:    round.Result(),
		TournamentName: t.name,
		Round:          number,
		IsFinal:        number == RoundFinal,
	}
}

// WinnerLoserIDs returns the winner and loser user ids for one bracket
// round, empty before the threshold is reached.
func (t *Tournament) WinnerLoserIDs(number int) (string, string) {
	return t.Round(number).WinnerLoserIDs()
}

// BuildCompleteMessage carries the champion, the runner-up, and both
// semifinal losers as the remaining placements.
func (t *Tournament) BuildCompleteMessage(isError bool) CompleteMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgType := MsgTypeComplete
	if isError {
		msgType = MsgTypeError
	}
	return CompleteMessage{
		MessageType: msgType,
		Winner:      t.rounds[RoundFinal-1].Winner(),
		Loser:       t.rounds[RoundFinal-1].Loser(),
		Etc1:        t.rounds[0].Loser(),
		Etc2:        t.rounds[1].Loser(),
	}
}
