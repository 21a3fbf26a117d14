package game

// Ball is the simulated ball. Only x and z are stored; the vertical
// position follows a fixed parabolic arc over z and is always derived.
type Ball struct {
	x          float64
	z          float64
	radius     float64
	vx         float64
	vz         float64
	correction float64
}

// NewBall returns a ball at the center of the field with the serve velocity.
func NewBall() *Ball {
	return &Ball{
		radius:     BallRadius,
		vx:         BallSpeedX,
		vz:         BallSpeedZ,
		correction: PaddleCorrection,
	}
}

// Reset returns the ball to the center with the serve velocity and the
// default paddle correction margin. Called on every score and match start.
func (b *Ball) Reset() {
	b.x = 0
	b.z = 0
	b.vx = BallSpeedX
	b.vz = BallSpeedZ
	b.correction = PaddleCorrection
}

// Step advances the ball by one tick of its velocity.
func (b *Ball) Step() {
	b.x += b.vx
	b.z += b.vz
}

// SideCollision reports whether the ball is touching either side wall.
func (b *Ball) SideCollision() bool {
	half := float64(FieldWidth-2) / 2
	return b.x-b.radius < -half || b.x+b.radius > half
}

// BounceOffWall inverts the horizontal velocity, leaving vz unchanged.
func (b *Ball) BounceOffWall() {
	b.vx = -b.vx
}

// Rebound reflects the ball off a paddle at the given x position: the new
// horizontal velocity is proportional to how far off-center the ball hit.
func (b *Ball) Rebound(paddleX float64) {
	b.vx = (b.x - paddleX) / 5
	b.vz = -b.vz
}

// Shield increases the z-speed magnitude and widens the paddle correction
// margin. Activations stack without a cap.
func (b *Ball) Shield() {
	if b.vz > 0 {
		b.vz += ShieldSpeedBoost
	} else {
		b.vz -= ShieldSpeedBoost
	}
	b.correction += ShieldCorrectionBoost
}

// Y derives the vertical position from the depth coordinate. It is never
// stored independently.
func (b *Ball) Y() float64 {
	return -((b.z - 1) * (b.z - 1) / 5000) + 435
}

func (b *Ball) X() float64          { return b.x }
func (b *Ball) Z() float64          { return b.z }
func (b *Ball) Radius() float64     { return b.radius }
func (b *Ball) Correction() float64 { return b.correction }
func (b *Ball) VX() float64         { return b.vx }
func (b *Ball) VZ() float64         { return b.vz }
