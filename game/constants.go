package game

import "time"

// Field and simulation constants
const (
	FieldWidth  = 1200
	FieldLength = 3000

	PaddleWidth      = 200
	PaddleHeight     = 30
	PaddleSpeed      = 30
	PaddleCorrection = 10

	// Paddles can move half the field width minus half their own width
	PaddleBoundary = FieldWidth/2 - PaddleWidth/2

	BallRadius = 20
	BallSpeedX = 0
	BallSpeedZ = 30

	// Shield increments applied per activation (stacks without a cap)
	ShieldSpeedBoost      = 4
	ShieldCorrectionBoost = 4

	MaxScore = 3

	TournamentPlayerCount = 4
	MaxTournamentNameLen  = 20

	// ReservedTournamentName is used by the waiting-lobby channel and can
	// never name a tournament.
	ReservedTournamentName = "wait"
)

// Game timing
const (
	FPS          = 30
	TickInterval = time.Second / FPS

	// FreezeFrames is how many frozen-ball frames are broadcast before play
	// starts and after every score (2 seconds at 30 FPS).
	FreezeFrames = 60
)

// Status is the lifecycle state shared by matches and rounds.
type Status string

const (
	StatusWait    Status = "wait"
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
	StatusScore   Status = "score"
	StatusEnd     Status = "end"
	StatusError   Status = "error"
)

// PlayerStatus mirrors Status for an individual participant, with the extra
// round_ready state used by the tournament per-round barrier.
type PlayerStatus string

const (
	PlayerWait       PlayerStatus = "wait"
	PlayerReady      PlayerStatus = "ready"
	PlayerRoundReady PlayerStatus = "round_ready"
	PlayerPlaying    PlayerStatus = "playing"
	PlayerScore      PlayerStatus = "score"
	PlayerEnd        PlayerStatus = "end"
)

// TournamentStatus is the bracket state machine.
type TournamentStatus string

const (
	TournamentWait    TournamentStatus = "wait"
	TournamentReady   TournamentStatus = "ready"
	TournamentPlaying TournamentStatus = "playing"
	TournamentEnd     TournamentStatus = "end"
	TournamentError   TournamentStatus = "error"
)

// Message types used in the flat wire envelope
const (
	MsgTypeWait     = "wait"
	MsgTypeCreate   = "create"
	MsgTypeReady    = "ready"
	MsgTypeStart    = "start"
	MsgTypePlaying  = "playing"
	MsgTypeScore    = "score"
	MsgTypeEnd      = "end"
	MsgTypeComplete = "complete"
	MsgTypeError    = "error"
	MsgTypeStay     = "stay"
)

// Key input tokens carried by client "playing" messages
const (
	InputLeftPress    = "left_press"
	InputLeftRelease  = "left_release"
	InputRightPress   = "right_press"
	InputRightRelease = "right_release"
	InputShield       = "shield"
)

// Result tokens for create replies
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// Player slot labels on the wire ("player1" .. "player4")
const (
	SlotPlayer1 = "player1"
	SlotPlayer2 = "player2"
	SlotPlayer3 = "player3"
	SlotPlayer4 = "player4"
)

// SlotLabels indexes the wire labels by tournament slot position.
var SlotLabels = [TournamentPlayerCount]string{
	SlotPlayer1, SlotPlayer2, SlotPlayer3, SlotPlayer4,
}

// Round numbers inside a tournament bracket
const (
	RoundSemifinalA = 1
	RoundSemifinalB = 2
	RoundFinal      = 3
)
