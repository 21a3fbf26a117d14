package game

import (
	"sync"
	"time"
)

// MatchResult is the persistence view of a finished match.
type MatchResult struct {
	StartedAt time.Time
	EndedAt   time.Time
	Player1ID string
	Player2ID string
	Score1    int
	Score2    int
}

// Match is one two-player game: two players, one ball, the score and the
// match state machine. All methods are safe for concurrent use; the
// driving loop is still the only caller of Advance, so ticks for one match
// never overlap.
type Match struct {
	mu        sync.Mutex
	ball      *Ball
	player1   *Player
	player2   *Player
	score1    int
	score2    int
	status    Status
	startedAt time.Time
	endedAt   time.Time
}

// NewMatch creates a match in the wait state.
func NewMatch(player1, player2 *Player) *Match {
	return &Match{
		ball:    NewBall(),
		player1: player1,
		player2: player2,
		status:  StatusWait,
	}
}

// AllReady reports whether both seats are filled and both players have
// signalled ready.
func (m *Match) AllReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player1 == nil || m.player2 == nil {
		return false
	}
	return m.player1.Status() == PlayerReady && m.player2.Status() == PlayerReady
}

// SetReady marks the player in the given wire slot ready.
func (m *Match) SetReady(slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch slot {
	case SlotPlayer1:
		m.player1.SetStatus(PlayerReady)
	case SlotPlayer2:
		m.player2.SetStatus(PlayerReady)
	}
}

// HandleInput applies a client input token for the given slot. Input is
// dropped silently unless the ball is live.
func (m *Match) HandleInput(slot, input string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusPlaying {
		return
	}
	switch {
	case input == InputShield:
		m.ball.Shield()
	case slot == SlotPlayer1:
		m.player1.Paddle().HandleInput(input)
	case slot == SlotPlayer2:
		m.player2.Paddle().HandleInput(input)
	}
}

// Advance runs one physics tick and returns the resulting frame. Paddles
// always move; the ball only moves when moveBall is true (the freeze
// countdown broadcasts frames with the ball held still).
func (m *Match) Advance(moveBall bool) FrameMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player1.Paddle().Move()
	m.player2.Paddle().Move()
	if moveBall {
		m.moveBall()
	}
	return FrameMessage{
		MessageType: MsgTypePlaying,
		Paddle1:     m.player1.Paddle().X(),
		Paddle2:     m.player2.Paddle().X(),
		BallX:       m.ball.X(),
		BallY:       m.ball.Y(),
		BallZ:       m.ball.Z(),
		BallVX:      m.ball.VX(),
		BallVZ:      m.ball.VZ(),
	}
}

// moveBall steps the ball and resolves at most one outcome per tick, in
// fixed priority order: goal behind paddle 1, goal behind paddle 2, side
// wall, paddle 1 rebound, paddle 2 rebound.
func (m *Match) moveBall() {
	m.ball.Step()
	switch {
	case m.pastPaddle1():
		m.score2++
		m.ball.Reset()
		m.status = StatusScore
	case m.pastPaddle2():
		m.score1++
		m.ball.Reset()
		m.status = StatusScore
	case m.ball.SideCollision():
		m.ball.BounceOffWall()
	case m.paddle1Collision():
		m.ball.Rebound(m.player1.Paddle().X())
	case m.paddle2Collision():
		m.ball.Rebound(m.player2.Paddle().X())
	}
}

func (m *Match) pastPaddle1() bool {
	return m.ball.Z() > m.player1.Paddle().Z()+m.ball.Correction()
}

func (m *Match) pastPaddle2() bool {
	return m.ball.Z() < m.player2.Paddle().Z()-m.ball.Correction()
}

func (m *Match) paddle1Collision() bool {
	return m.ball.Z()+m.ball.Radius() >= m.player1.Paddle().Z() && m.alignedWithPaddle(m.player1.Paddle())
}

func (m *Match) paddle2Collision() bool {
	return m.ball.Z()-m.ball.Radius() <= m.player2.Paddle().Z() && m.alignedWithPaddle(m.player2.Paddle())
}

func (m *Match) alignedWithPaddle(p *Paddle) bool {
	half := float64(PaddleWidth) / 2
	return p.X()-half < m.ball.X() && m.ball.X() < p.X()+half
}

// Fail forces the match into the error state unless it already ended.
func (m *Match) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusEnd && m.status != StatusError {
		m.status = StatusError
	}
}

// PlayerByID returns the player with the given user id and its slot
// number, or nil if the id belongs to neither seat.
func (m *Match) PlayerByID(userID string) (*Player, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player1 != nil && m.player1.UserID() == userID {
		return m.player1, 1
	}
	if m.player2 != nil && m.player2.UserID() == userID {
		return m.player2, 2
	}
	return nil, 0
}

func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Match) SetStatus(status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

func (m *Match) Score() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score1, m.score2
}

// StampStart records the moment play began.
func (m *Match) StampStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startedAt = time.Now()
}

// StampEnd records the moment play finished.
func (m *Match) StampEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endedAt = time.Now()
}

// WinnerLoserIDs returns the user ids of the winner and loser once either
// side has reached the score threshold, or empty strings before that.
func (m *Match) WinnerLoserIDs() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.score1 == MaxScore:
		return m.player1.UserID(), m.player2.UserID()
	case m.score2 == MaxScore:
		return m.player2.UserID(), m.player1.UserID()
	}
	return "", ""
}

// Result snapshots the match for persistence.
func (m *Match) Result() MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MatchResult{
		StartedAt: m.startedAt,
		EndedAt:   m.endedAt,
		Player1ID: m.player1.UserID(),
		Player2ID: m.player2.UserID(),
		Score1:    m.score1,
		Score2:    m.score2,
	}
}

// BuildReadyMessage hands a freshly connected player its seat.
func BuildReadyMessage(number int, nickname string) ReadyMessage {
	slot := SlotPlayer1
	if number == 2 {
		slot = SlotPlayer2
	}
	return ReadyMessage{MessageType: MsgTypeReady, Number: slot, Nickname: nickname}
}

// BuildStartMessage announces both nicknames as play begins.
func (m *Match) BuildStartMessage() StartMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StartMessage{
		MessageType: MsgTypeStart,
		Player1:     m.player1.Nickname(),
		Player2:     m.player2.Nickname(),
	}
}

// BuildScoreMessage carries both totals after a goal.
func (m *Match) BuildScoreMessage() ScoreMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ScoreMessage{
		MessageType:  MsgTypeScore,
		Player1Score: m.score1,
		Player2Score: m.score2,
	}
}

// BuildEndMessage names the winning and losing slots.
func (m *Match) BuildEndMessage() EndMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	winner, loser := SlotPlayer1, SlotPlayer2
	if m.score2 > m.score1 {
		winner, loser = SlotPlayer2, SlotPlayer1
	}
	return EndMessage{MessageType: MsgTypeEnd, Winner: winner, Loser: loser}
}

// BuildErrorMessage names the participant whose disconnect broke the match.
func (m *Match) BuildErrorMessage(nickname string) ErrorMessage {
	return ErrorMessage{MessageType: MsgTypeError, Nickname: nickname}
}

// BuildCompleteMessage reports the final placements by nickname. When
// persistence failed the same payload goes out flagged as an error.
func (m *Match) BuildCompleteMessage(isError bool) CompleteMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgType := MsgTypeComplete
	if isError {
		msgType = MsgTypeError
	}
	winner, loser := m.player1.Nickname(), m.player2.Nickname()
	if m.score2 > m.score1 {
		winner, loser = loser, winner
	}
	return CompleteMessage{MessageType: msgType, Winner: winner, Loser: loser}
}
