package input

// Frame is the raw key state the host supplies once per tick. The core never
// touches devices; whatever captures input fills one of these.
type Frame struct {
	Forward bool
	Back    bool
	Sprint  bool
	Charge  bool
	Dash    bool

	// Yaw is the camera yaw in radians; the flattened camera-forward
	// direction used by charge launches is derived from it.
	Yaw float64
}

// Snapshot tracks per-tick key state with edge detection and hold durations.
type Snapshot struct {
	cur  Frame
	prev Frame

	chargeHeld float64
	dashHeld   float64
	sprintHeld float64
}

// NewSnapshot creates an empty input snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Update advances the snapshot by one tick of raw state.
func (s *Snapshot) Update(dt float64, frame Frame) {
	if s == nil || dt < 0 {
		return
	}
	s.prev = s.cur
	s.cur = frame

	s.chargeHeld = holdTime(s.chargeHeld, s.cur.Charge, dt)
	s.dashHeld = holdTime(s.dashHeld, s.cur.Dash, dt)
	s.sprintHeld = holdTime(s.sprintHeld, s.cur.Sprint, dt)
}

func holdTime(acc float64, held bool, dt float64) float64 {
	if !held {
		return 0
	}
	return acc + dt
}

// MoveIntent returns -1, 0, or +1 from the forward/back keys. There is no
// strafe; lateral motion comes from turning.
func (s *Snapshot) MoveIntent() float64 {
	if s == nil {
		return 0
	}
	var v float64
	if s.cur.Forward {
		v++
	}
	if s.cur.Back {
		v--
	}
	return v
}

// SprintHeld reports whether sprint is held this tick.
func (s *Snapshot) SprintHeld() bool {
	return s != nil && s.cur.Sprint
}

// ChargeHeld reports whether the charge key is held this tick.
func (s *Snapshot) ChargeHeld() bool {
	return s != nil && s.cur.Charge
}

// ChargePressed is true only on the tick the charge key went down.
func (s *Snapshot) ChargePressed() bool {
	return s != nil && s.cur.Charge && !s.prev.Charge
}

// ChargeHoldTime returns how long the charge key has been held, in seconds.
func (s *Snapshot) ChargeHoldTime() float64 {
	if s == nil {
		return 0
	}
	return s.chargeHeld
}

// DashPressed is true only on the tick the dash key went down.
func (s *Snapshot) DashPressed() bool {
	return s != nil && s.cur.Dash && !s.prev.Dash
}

// BackOnly reports whether only the back key is held (reversed dash).
func (s *Snapshot) BackOnly() bool {
	return s != nil && s.cur.Back && !s.cur.Forward
}

// Yaw returns the camera yaw supplied with the current frame.
func (s *Snapshot) Yaw() float64 {
	if s == nil {
		return 0
	}
	return s.cur.Yaw
}

// YawDelta returns how far the camera turned since the previous tick.
func (s *Snapshot) YawDelta() float64 {
	if s == nil {
		return 0
	}
	return s.cur.Yaw - s.prev.Yaw
}
