package game

// Paddle is one player's paddle. The slot number fixes which end of the
// field it defends and which way its controls map onto the x axis.
type Paddle struct {
	number int
	x      float64
	z      float64
	left   bool
	right  bool
}

// NewPaddle returns a paddle seated for the given slot number.
// Slot 1 defends z = +FieldLength/2, slot 2 defends the opposite end.
func NewPaddle(number int) *Paddle {
	p := &Paddle{}
	p.Reseat(number)
	return p
}

// Reseat re-centers the paddle for a (possibly new) slot number. Used when
// a tournament finalist moves from a semifinal seat to a final seat.
func (p *Paddle) Reseat(number int) {
	p.number = number
	p.x = 0
	p.left = false
	p.right = false
	if number == 1 {
		p.z = FieldLength / 2
	} else {
		p.z = -FieldLength / 2
	}
}

// HandleInput updates the held-key edge flags from a wire input token.
// Unknown tokens are ignored.
func (p *Paddle) HandleInput(input string) {
	switch input {
	case InputLeftPress:
		p.left = true
	case InputLeftRelease:
		p.left = false
	case InputRightPress:
		p.right = true
	case InputRightRelease:
		p.right = false
	}
}

// Move applies one tick of movement from the held-key flags. The two lanes
// face opposite directions, so "left" for slot 1 is -x and for slot 2 is +x.
func (p *Paddle) Move() {
	switch p.number {
	case 1:
		if p.left && !p.right {
			p.shift(-1)
		} else if !p.left && p.right {
			p.shift(1)
		}
	case 2:
		if p.left && !p.right {
			p.shift(1)
		} else if !p.left && p.right {
			p.shift(-1)
		}
	}
}

func (p *Paddle) shift(direction float64) {
	x := p.x + direction*PaddleSpeed
	if x < -PaddleBoundary {
		x = -PaddleBoundary
	}
	if x > PaddleBoundary {
		x = PaddleBoundary
	}
	p.x = x
}

func (p *Paddle) X() float64 { return p.x }
func (p *Paddle) Z() float64 { return p.z }
