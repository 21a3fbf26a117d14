package game

import "sync"

// Player binds a participant identity to a paddle and a lifecycle status.
// A player belongs to exactly one match or round at a time; a tournament
// owns up to four players directly and lends the same references into each
// round, so the status and slot number carry their own lock rather than
// relying on any one owner's.
type Player struct {
	mu       sync.Mutex
	number   int
	userID   string
	nickname string
	status   PlayerStatus
	paddle   *Paddle
}

// NewPlayer creates a player in the wait state. An empty nickname falls
// back to the user id.
func NewPlayer(number int, userID, nickname string) *Player {
	if nickname == "" {
		nickname = userID
	}
	return &Player{
		number:   number,
		userID:   userID,
		nickname: nickname,
		status:   PlayerWait,
		paddle:   NewPaddle(number),
	}
}

func (p *Player) UserID() string   { return p.userID }
func (p *Player) Nickname() string { return p.nickname }
func (p *Player) Paddle() *Paddle  { return p.paddle }

func (p *Player) Number() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.number
}

func (p *Player) Status() PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Player) SetStatus(status PlayerStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

// SetNumber moves the player to a new slot and re-seats the paddle rather
// than recreating it.
func (p *Player) SetNumber(number int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.number = number
	p.paddle.Reseat(number)
}
