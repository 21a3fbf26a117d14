package game

// Outbound wire messages. The envelope is flat JSON keyed by message_type;
// field names are part of the client protocol and never change shape
// between match and tournament play (tournament variants add "round").

// ReadyMessage tells a player which seat it was handed.
type ReadyMessage struct {
	MessageType string `json:"message_type"`
	Number      string `json:"number"`
	Nickname    string `json:"nickname"`
}

// StartMessage announces play is beginning.
type StartMessage struct {
	MessageType string `json:"message_type"`
	Round       string `json:"round,omitempty"`
	Player1     string `json:"1p,omitempty"`
	Player2     string `json:"2p,omitempty"`
}

// FrameMessage is one authoritative physics frame.
type FrameMessage struct {
	MessageType string  `json:"message_type"`
	Paddle1     float64 `json:"paddle1"`
	Paddle2     float64 `json:"paddle2"`
	BallX       float64 `json:"ball_x"`
	BallY       float64 `json:"ball_y"`
	BallZ       float64 `json:"ball_z"`
	BallVX      float64 `json:"ball_vx"`
	BallVZ      float64 `json:"ball_vz"`
}

// ScoreMessage carries both totals after a goal.
type ScoreMessage struct {
	MessageType  string `json:"message_type"`
	Player1Score int    `json:"player1_score"`
	Player2Score int    `json:"player2_score"`
}

// EndMessage is the terminal frame of a match or round. For matches the
// winner and loser are slot labels; for rounds they are nicknames and the
// round number is set. The same shape serves the "stay" message shown to a
// round winner moving on in the bracket.
type EndMessage struct {
	MessageType string `json:"message_type"`
	Round       string `json:"round,omitempty"`
	Winner      string `json:"winner"`
	Loser       string `json:"loser"`
}

// ErrorMessage names the participant whose disconnect broke the session.
type ErrorMessage struct {
	MessageType string `json:"message_type"`
	Nickname    string `json:"nickname"`
}

// CompleteMessage reports final placements after persistence. Etc1/Etc2
// are the semifinal losers and only appear for tournaments.
type CompleteMessage struct {
	MessageType string `json:"message_type"`
	Winner      string `json:"winner"`
	Loser       string `json:"loser"`
	Etc1        string `json:"etc1,omitempty"`
	Etc2        string `json:"etc2,omitempty"`
}

// WaitMessage tracks tournament lobby membership changes.
type WaitMessage struct {
	MessageType string `json:"message_type"`
	Nickname    string `json:"nickname"`
	Total       int    `json:"total"`
	Number      string `json:"number"`
}
