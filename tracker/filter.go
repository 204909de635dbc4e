package tracker

import "math"

// Tracker is a dead-reckoning filter turning acceleration samples into a
// bounded pen position. It is not safe for concurrent use; callers serialise.
type Tracker struct {
	cfg   Config
	state State
}

func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

func (t *Tracker) Config() Config { return t.cfg }

func (t *Tracker) State() State { return t.state }

// Reset zeroes position, velocity and the stationary counter.
func (t *Tracker) Reset() {
	t.state = State{}
}

// Update integrates one sample. The step order is fixed:
// dt clamp, deadband, stationary check / velocity integration, damping,
// velocity clamp, position integration and clamp.
func (t *Tracker) Update(ax, ay, dt float64) Snapshot {
	c := t.cfg
	s := &t.state

	dt = clamp(dt, MinDT, MaxDT)

	ax = deadband(ax, c.Deadband)
	ay = deadband(ay, c.Deadband)

	if math.Abs(ax) < c.StationaryThreshold && math.Abs(ay) < c.StationaryThreshold {
		s.StationaryFrames++
	} else {
		s.StationaryFrames = 0
	}

	if s.StationaryFrames >= c.StationaryFramesToZero {
		s.VX = 0
		s.VY = 0
	} else {
		s.VX += ax * dt
		s.VY += ay * dt
	}

	damping := math.Exp(-c.VelocityDamping * dt)
	s.VX *= damping
	s.VY *= damping

	s.VX = clamp(s.VX, -c.MaxVelocity, c.MaxVelocity)
	s.VY = clamp(s.VY, -c.MaxVelocity, c.MaxVelocity)

	s.X += s.VX * dt * c.PositionScale
	s.Y += s.VY * dt * c.PositionScale

	s.X = clamp(s.X, -c.MaxPosition, c.MaxPosition)
	s.Y = clamp(s.Y, -c.MaxPosition, c.MaxPosition)

	return Snapshot{
		X: s.X, Y: s.Y,
		VX: s.VX, VY: s.VY,
		AX: ax, AY: ay,
		DT: dt,
	}
}

// deadband shrinks v toward zero by threshold, so the response stays
// continuous just above it.
func deadband(v, threshold float64) float64 {
	if math.Abs(v) <= threshold {
		return 0
	}
	if v > 0 {
		return v - threshold
	}
	return v + threshold
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
