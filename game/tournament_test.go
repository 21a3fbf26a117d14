package game

import (
	"sync"
	"testing"
)

func newTestTournament() *Tournament {
	return NewTournament("abc", "u1", "alice")
}

func fillTournament(t *Tournament) {
	t.Join("u2", "bob")
	t.Join("u3", "carol")
	t.Join("u4", "dave")
}

func TestTournamentJoinFillsSlotsInOrder(t *testing.T) {
	tm := newTestTournament()

	tests := []struct {
		userID   string
		nickname string
		slot     string
		total    int
		status   TournamentStatus
	}{
		{userID: "u2", nickname: "bob", slot: SlotPlayer2, total: 2, status: TournamentWait},
		{userID: "u3", nickname: "carol", slot: SlotPlayer3, total: 3, status: TournamentWait},
		{userID: "u4", nickname: "dave", slot: SlotPlayer4, total: 4, status: TournamentReady},
	}

	for _, tt := range tests {
		msg, ok := tm.Join(tt.userID, tt.nickname)
		if !ok {
			t.Fatalf("Join(%s) failed", tt.userID)
		}
		if msg.Number != tt.slot || msg.Total != tt.total {
			t.Errorf("Join(%s) = slot %s total %d, expected %s/%d",
				tt.userID, msg.Number, msg.Total, tt.slot, tt.total)
		}
		if tm.Status() != tt.status {
			t.Errorf("status after %s = %v, expected %v", tt.userID, tm.Status(), tt.status)
		}
	}
}

func TestTournamentRejoinReportsActualSlot(t *testing.T) {
	tm := newTestTournament()
	tm.Join("u2", "bob")
	tm.Join("u3", "carol")

	msg, ok := tm.Join("u3", "carol")
	if !ok {
		t.Fatal("re-join rejected")
	}
	if msg.Number != SlotPlayer3 {
		t.Errorf("re-join reported slot %s, expected %s", msg.Number, SlotPlayer3)
	}
	if tm.TotalPlayers() != 3 {
		t.Errorf("re-join changed headcount to %d", tm.TotalPlayers())
	}
}

func TestTournamentFifthJoinRejected(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)

	if _, ok := tm.Join("u5", "eve"); ok {
		t.Fatal("fifth distinct join was seated")
	}
	if tm.TotalPlayers() != 4 {
		t.Errorf("headcount = %d after rejected join", tm.TotalPlayers())
	}
}

func TestTournamentLeave(t *testing.T) {
	tm := newTestTournament()
	tm.Join("u2", "bob")

	msg, ok := tm.Leave("bob")
	if !ok {
		t.Fatal("Leave(bob) not found")
	}
	if msg.Number != SlotPlayer2 || msg.Total != 1 {
		t.Errorf("leave = %+v, expected slot player2 total 1", msg)
	}

	// A second leave for the same participant is a no-op
	if _, ok := tm.Leave("bob"); ok {
		t.Fatal("second Leave(bob) decremented again")
	}
	if tm.TotalPlayers() != 1 {
		t.Errorf("headcount = %d, expected 1", tm.TotalPlayers())
	}

	// The emptied slot is reused by the next join
	rejoin, _ := tm.Join("u5", "eve")
	if rejoin.Number != SlotPlayer2 {
		t.Errorf("join after leave took slot %s, expected %s", rejoin.Number, SlotPlayer2)
	}
}

func TestTournamentReadyBarrier(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)

	if !tm.TrySetReady(SlotPlayer1, "alice") {
		t.Fatal("TrySetReady(player1, alice) failed")
	}
	if tm.TrySetReady(SlotPlayer2, "carol") {
		t.Fatal("TrySetReady accepted a nickname in the wrong slot")
	}
	if tm.AllReady() {
		t.Fatal("AllReady() with one player ready")
	}

	tm.TrySetReady(SlotPlayer2, "bob")
	tm.TrySetReady(SlotPlayer3, "carol")
	tm.TrySetReady(SlotPlayer4, "dave")
	if !tm.AllReady() {
		t.Fatal("AllReady() false with all four ready")
	}
}

func TestTournamentSemifinalSeeding(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)

	msgA := tm.SeedSemifinal(RoundSemifinalA)
	msgB := tm.SeedSemifinal(RoundSemifinalB)

	if msgA.MessageType != MsgTypeReady || msgA.Round != "1" ||
		msgA.Player1 != "alice" || msgA.Player2 != "bob" {
		t.Errorf("semifinal A = %+v", msgA)
	}
	if msgB.Round != "2" || msgB.Player1 != "carol" || msgB.Player2 != "dave" {
		t.Errorf("semifinal B = %+v", msgB)
	}

	if tm.AllRoundReady() {
		t.Fatal("AllRoundReady() before anyone signalled")
	}
	tm.Round(RoundSemifinalA).SetRoundReady("u1")
	tm.Round(RoundSemifinalA).SetRoundReady("u2")
	if tm.AllRoundReady() {
		t.Fatal("AllRoundReady() with only semifinal A ready")
	}
	tm.Round(RoundSemifinalB).SetRoundReady("u3")
	tm.Round(RoundSemifinalB).SetRoundReady("u4")
	if !tm.AllRoundReady() {
		t.Fatal("AllRoundReady() false with both semifinals ready")
	}

	tm.StartRounds(false)
	if tm.Round(RoundSemifinalA).Status() != StatusPlaying ||
		tm.Round(RoundSemifinalB).Status() != StatusPlaying {
		t.Error("StartRounds(false) did not move semifinals to playing")
	}
}

func TestTournamentFinalSeededFromWinners(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)
	tm.SeedSemifinal(RoundSemifinalA)
	tm.SeedSemifinal(RoundSemifinalB)

	// alice wins A, dave wins B
	a := tm.Round(RoundSemifinalA)
	a.score1, a.score2 = 3, 0
	a.BuildEndMessage()
	b := tm.Round(RoundSemifinalB)
	b.score1, b.score2 = 1, 3
	b.BuildEndMessage()

	msg := tm.SeedFinal(a.Winner(), b.Winner())
	if msg.Round != "3" || msg.Player1 != "alice" || msg.Player2 != "dave" {
		t.Fatalf("final ready = %+v", msg)
	}

	final := tm.Round(RoundFinal)
	p1, p2 := final.Nicknames()
	if p1 != "alice" || p2 != "dave" {
		t.Errorf("final seats = %s vs %s, expected the two winners", p1, p2)
	}
	// Both finalists re-seated onto the final's lanes
	if final.player1.Paddle().Z() != FieldLength/2 {
		t.Errorf("final player 1 lane z = %v", final.player1.Paddle().Z())
	}
	if final.player2.Paddle().Z() != -FieldLength/2 {
		t.Errorf("final player 2 lane z = %v", final.player2.Paddle().Z())
	}
}

func TestTournamentCompleteMessage(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)
	tm.SeedSemifinal(RoundSemifinalA)
	tm.SeedSemifinal(RoundSemifinalB)

	a := tm.Round(RoundSemifinalA)
	a.score1, a.score2 = 3, 2
	a.BuildEndMessage()
	b := tm.Round(RoundSemifinalB)
	b.score1, b.score2 = 0, 3
	b.BuildEndMessage()

	tm.SeedFinal("alice", "dave")
	final := tm.Round(RoundFinal)
	final.score1, final.score2 = 3, 1
	final.BuildEndMessage()

	msg := tm.BuildCompleteMessage(false)
	if msg.Winner != "alice" || msg.Loser != "dave" {
		t.Errorf("placements = %+v, expected alice over dave", msg)
	}
	if msg.Etc1 != "bob" || msg.Etc2 != "carol" {
		t.Errorf("semifinal losers = %s, %s, expected bob, carol", msg.Etc1, msg.Etc2)
	}

	errMsg := tm.BuildCompleteMessage(true)
	if errMsg.MessageType != MsgTypeError {
		t.Errorf("error-flavored complete type = %s", errMsg.MessageType)
	}
}

func TestTournamentResultFor(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)
	tm.SeedSemifinal(RoundSemifinalA)

	r := tm.Round(RoundSemifinalA)
	r.StampStart()
	r.score1 = 3
	r.StampEnd()

	result := tm.ResultFor(RoundSemifinalA)
	if result.TournamentName != "abc" || result.Round != 1 || result.IsFinal {
		t.Errorf("result = %+v", result)
	}
	if result.Player1ID != "u1" || result.Player2ID != "u2" {
		t.Errorf("result ids = %s, %s", result.Player1ID, result.Player2ID)
	}

	winner, loser := tm.WinnerLoserIDs(RoundSemifinalA)
	if winner != "u1" || loser != "u2" {
		t.Errorf("winner/loser ids = %s/%s", winner, loser)
	}
}

// The final's ready barrier re-reads the semifinal rounds through the
// shared player pointers, so signalling ready must be safe against a
// concurrent barrier check from the other finalist's connection.
func TestTournamentFinalBarrierConcurrentReady(t *testing.T) {
	tm := newTestTournament()
	fillTournament(tm)
	tm.SeedSemifinal(RoundSemifinalA)
	tm.SeedSemifinal(RoundSemifinalB)
	for _, id := range []string{"u1", "u2"} {
		tm.Round(RoundSemifinalA).SetRoundReady(id)
	}
	for _, id := range []string{"u3", "u4"} {
		tm.Round(RoundSemifinalB).SetRoundReady(id)
	}

	a := tm.Round(RoundSemifinalA)
	b := tm.Round(RoundSemifinalB)
	a.score1, a.score2 = 3, 0
	a.BuildEndMessage()
	b.score1, b.score2 = 1, 3
	b.BuildEndMessage()
	tm.SeedFinal(a.Winner(), b.Winner())
	final := tm.Round(RoundFinal)

	var wg sync.WaitGroup
	for _, id := range []string{"u1", "u4"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			final.SetRoundReady(id)
			tm.AllRoundReady()
		}(id)
	}
	wg.Wait()

	if !final.AllReady() {
		t.Fatal("final barrier not passed after both finalists readied")
	}
	if !tm.AllRoundReady() {
		t.Fatal("AllRoundReady() false after both finalists readied")
	}
}
