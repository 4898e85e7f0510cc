package anim

import (
	"image"
	"time"
)

// Motion is the pure bounce/decelerate state machine. It performs no I/O:
// callers feed it timestamps and act on the returned Frame.
type Motion struct {
	Pos         image.Point
	Vel         image.Point
	Phase       Phase
	Transition  int
	ActivatedAt time.Time

	View   Size
	Object Size

	cfg   Config
	total int
}

// NewMotion returns an Active motion with the object centred in view.
func NewMotion(cfg Config, view, object Size) *Motion {
	m := &Motion{
		Vel:    cfg.Velocity,
		Phase:  Active,
		View:   view,
		Object: object,
		cfg:    cfg,
		total:  cfg.TransitionFrames(),
	}
	m.Center()
	return m
}

// Center places the object in the middle of the view.
func (m *Motion) Center() {
	m.Pos = image.Pt(
		max(0, (m.View.W-m.Object.W)/2),
		max(0, (m.View.H-m.Object.H)/2),
	)
}

// Reset restarts the full-speed phase from now.
func (m *Motion) Reset(now time.Time) {
	m.ActivatedAt = now
	m.Phase = Active
	m.Transition = 0
}

// Resize updates the object bounds and pulls the position back into view.
func (m *Motion) Resize(object Size) {
	m.Object = object
	m.Pos.X = clamp(m.Pos.X, m.View.W-object.W)
	m.Pos.Y = clamp(m.Pos.Y, m.View.H-object.H)
}

// Step advances one tick.
func (m *Motion) Step(now time.Time) Frame {
	if m.Phase == Stopped {
		return m.frame(false, false)
	}
	before := m.Pos

	if m.Phase == Active && now.Sub(m.ActivatedAt) >= m.cfg.Idle {
		m.Phase = Decelerating
		m.Transition = 0
	}

	if m.Phase == Active {
		m.Vel = m.advance(m.Vel)
		return m.frame(m.Pos != before, true)
	}

	if m.Transition >= m.total {
		m.Phase = Stopped
		return m.frame(false, false)
	}

	if mult := SpeedMultiplier(m.Transition, m.total); mult > stopThreshold {
		scaled := image.Pt(int(float64(m.Vel.X)*mult), int(float64(m.Vel.Y)*mult))
		after := scaled
		if scaled != (image.Point{}) {
			after = m.advance(scaled)
		}
		// Full magnitude comes back, but a bounce taken at reduced speed sticks.
		m.Vel = image.Pt(restore(m.Vel.X, scaled.X, after.X), restore(m.Vel.Y, scaled.Y, after.Y))
	}
	m.Transition++
	return m.frame(m.Pos != before, true)
}

// Snapshot reports the current state without stepping.
func (m *Motion) Snapshot() Frame {
	return m.frame(false, m.Phase != Stopped)
}

func (m *Motion) frame(moved, rearm bool) Frame {
	return Frame{
		Pos:        m.Pos,
		Vel:        m.Vel,
		Phase:      m.Phase,
		Transition: m.Transition,
		Moved:      moved,
		Rearm:      rearm,
	}
}

// advance moves by v, reflects off the view edges and returns v with any
// sign flips applied.
func (m *Motion) advance(v image.Point) image.Point {
	m.Pos.X, v.X = reflect(m.Pos.X+v.X, v.X, m.Object.W, m.View.W)
	m.Pos.Y, v.Y = reflect(m.Pos.Y+v.Y, v.Y, m.Object.H, m.View.H)
	return v
}

// SpeedMultiplier eases quadratically from 1 at frame 0 toward 0 at total.
func SpeedMultiplier(frame, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := 1 - float64(frame)/float64(total)
	return p * p
}

// reflect bounces coordinate c of an object with extent e inside extent view.
// An object larger than the view is pinned at 0.
func reflect(c, v, e, view int) (int, int) {
	switch {
	case c <= 0:
		return 0, -v
	case c+e >= view:
		return max(0, view-e), -v
	}
	return c, v
}

func restore(orig, scaled, after int) int {
	if scaled*after < 0 {
		return -orig
	}
	return orig
}

func clamp(c, hi int) int {
	if hi < 0 {
		hi = 0
	}
	if c > hi {
		return hi
	}
	if c < 0 {
		return 0
	}
	return c
}
