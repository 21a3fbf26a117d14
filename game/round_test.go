package game

import "testing"

func newTestRound() *Round {
	return NewRound(NewPlayer(1, "carol", "carol"), NewPlayer(2, "dave", "dave"), RoundSemifinalA)
}

func TestRoundReadyBarrierIsRoundSpecific(t *testing.T) {
	r := newTestRound()

	// The generic lobby ready status must not pass the round barrier
	r.Match.SetReady(SlotPlayer1)
	r.Match.SetReady(SlotPlayer2)
	if r.AllReady() {
		t.Fatal("AllReady() passed on lobby ready statuses")
	}

	r.SetRoundReady("carol")
	if r.AllReady() {
		t.Fatal("AllReady() passed with one player round-ready")
	}
	r.SetRoundReady("dave")
	if !r.AllReady() {
		t.Fatal("AllReady() false with both players round-ready")
	}
}

func TestRoundSetRoundReadyUnknownID(t *testing.T) {
	r := newTestRound()
	r.SetRoundReady("mallory")
	if r.AllReady() {
		t.Fatal("unknown id advanced the barrier")
	}
}

func TestRoundRecordsWinnerAndLoser(t *testing.T) {
	r := newTestRound()
	r.score1, r.score2 = 3, 1

	end := r.BuildEndMessage()
	if end.Round != "1" || end.Winner != "carol" || end.Loser != "dave" {
		t.Errorf("end = %+v, expected carol beats dave in round 1", end)
	}
	if r.Winner() != "carol" || r.Loser() != "dave" {
		t.Errorf("recorded winner/loser = %q/%q", r.Winner(), r.Loser())
	}

	stay := r.BuildStayMessage()
	if stay.MessageType != MsgTypeStay || stay.Winner != "carol" {
		t.Errorf("stay = %+v", stay)
	}
}

func TestRoundCloseIsOnceOnly(t *testing.T) {
	r := newTestRound()
	if r.Closed() {
		t.Fatal("round born closed")
	}
	if !r.Close() {
		t.Fatal("first Close() returned false")
	}
	if r.Close() {
		t.Fatal("second Close() returned true")
	}
	if !r.Closed() {
		t.Fatal("Closed() false after Close()")
	}
}
