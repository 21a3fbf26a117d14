package game

import "testing"

func newTestMatch() *Match {
	return NewMatch(NewPlayer(1, "alice", "alice"), NewPlayer(2, "bob", "bob"))
}

func TestMatchAllReady(t *testing.T) {
	m := newTestMatch()
	if m.AllReady() {
		t.Fatal("AllReady() true before anyone signalled")
	}
	m.SetReady(SlotPlayer1)
	if m.AllReady() {
		t.Fatal("AllReady() true with one player ready")
	}
	m.SetReady(SlotPlayer2)
	if !m.AllReady() {
		t.Fatal("AllReady() false with both players ready")
	}
}

func TestMatchInputIgnoredOutsidePlaying(t *testing.T) {
	m := newTestMatch()
	m.HandleInput(SlotPlayer1, InputRightPress)
	frame := m.Advance(false)
	if frame.Paddle1 != 0 {
		t.Errorf("paddle moved from input received while waiting: x = %v", frame.Paddle1)
	}

	m.SetStatus(StatusPlaying)
	m.HandleInput(SlotPlayer1, InputRightPress)
	frame = m.Advance(false)
	if frame.Paddle1 != PaddleSpeed {
		t.Errorf("paddle x = %v, expected %v", frame.Paddle1, float64(PaddleSpeed))
	}
}

func TestMatchShieldInput(t *testing.T) {
	m := newTestMatch()
	m.SetStatus(StatusPlaying)
	m.HandleInput(SlotPlayer1, InputShield)
	frame := m.Advance(false)
	if frame.BallVZ != BallSpeedZ+ShieldSpeedBoost {
		t.Errorf("ball vz = %v, expected %v", frame.BallVZ, float64(BallSpeedZ+ShieldSpeedBoost))
	}
}

func TestMatchScoringBehindPaddle1(t *testing.T) {
	m := newTestMatch()
	m.SetStatus(StatusPlaying)
	// Player 1 steps aside so the serve (vz=+30 toward player 1) sails
	// past the goal line at z > 1500+correction.
	m.HandleInput(SlotPlayer1, InputRightPress)
	var frames int
	for m.Status() == StatusPlaying {
		m.Advance(true)
		frames++
		if frames > 100 {
			t.Fatal("no score after 100 ticks")
		}
	}
	if m.Status() != StatusScore {
		t.Fatalf("status = %v, expected %v", m.Status(), StatusScore)
	}
	s1, s2 := m.Score()
	if s1 != 0 || s2 != 1 {
		t.Errorf("score = %d-%d, expected 0-1", s1, s2)
	}
	// Scoring resets the ball to the serve state
	frame := m.Advance(false)
	if frame.BallX != 0 || frame.BallZ != 0 {
		t.Errorf("ball = (%v, %v) after score, expected origin", frame.BallX, frame.BallZ)
	}
}

func TestMatchPaddleBlocksGoal(t *testing.T) {
	m := newTestMatch()
	m.SetStatus(StatusPlaying)
	// Paddle 1 stays centered, so the centered serve must rebound
	var sawNegativeVZ bool
	for i := 0; i < 120; i++ {
		frame := m.Advance(true)
		if frame.BallVZ < 0 {
			sawNegativeVZ = true
			break
		}
	}
	if !sawNegativeVZ {
		t.Fatal("centered serve never rebounded off paddle 1")
	}
	if m.Status() != StatusPlaying {
		t.Errorf("status = %v, expected still playing", m.Status())
	}
}

func TestMatchWinnerLoserIDs(t *testing.T) {
	m := newTestMatch()
	if w, l := m.WinnerLoserIDs(); w != "" || l != "" {
		t.Errorf("WinnerLoserIDs() = (%q, %q) before threshold, expected empty", w, l)
	}
	m.score1 = MaxScore
	if w, l := m.WinnerLoserIDs(); w != "alice" || l != "bob" {
		t.Errorf("WinnerLoserIDs() = (%q, %q), expected (alice, bob)", w, l)
	}
}

func TestMatchEndMessageNamesHigherScorer(t *testing.T) {
	m := newTestMatch()
	m.score1, m.score2 = 1, 3

	end := m.BuildEndMessage()
	if end.Winner != SlotPlayer2 || end.Loser != SlotPlayer1 {
		t.Errorf("end = %+v, expected player2 beats player1", end)
	}

	complete := m.BuildCompleteMessage(false)
	if complete.MessageType != MsgTypeComplete || complete.Winner != "bob" || complete.Loser != "alice" {
		t.Errorf("complete = %+v, expected bob beats alice", complete)
	}

	failed := m.BuildCompleteMessage(true)
	if failed.MessageType != MsgTypeError {
		t.Errorf("complete message type = %q on persistence failure, expected %q",
			failed.MessageType, MsgTypeError)
	}
}

func TestMatchFail(t *testing.T) {
	m := newTestMatch()
	m.SetStatus(StatusPlaying)
	m.Fail()
	if m.Status() != StatusError {
		t.Fatalf("status = %v, expected %v", m.Status(), StatusError)
	}

	done := newTestMatch()
	done.SetStatus(StatusEnd)
	done.Fail()
	if done.Status() != StatusEnd {
		t.Errorf("Fail() overwrote terminal end state: %v", done.Status())
	}
}

func TestMatchResultSnapshot(t *testing.T) {
	m := newTestMatch()
	m.StampStart()
	m.score1 = 3
	m.StampEnd()

	result := m.Result()
	if result.Player1ID != "alice" || result.Player2ID != "bob" {
		t.Errorf("result ids = %q, %q", result.Player1ID, result.Player2ID)
	}
	if result.Score1 != 3 || result.Score2 != 0 {
		t.Errorf("result score = %d-%d, expected 3-0", result.Score1, result.Score2)
	}
	if result.StartedAt.IsZero() || result.EndedAt.IsZero() {
		t.Error("result timestamps not stamped")
	}
}
