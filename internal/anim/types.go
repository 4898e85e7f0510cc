package anim

import (
	"image"
	"time"
)

// Size is a width/height pair in pixels.
type Size struct{ W, H int }

// Phase enumerates the animation states.
type Phase string

const (
	Active       Phase = "active"
	Decelerating Phase = "decelerating"
	Stopped      Phase = "stopped"
)

const (
	DefaultTick       = 50 * time.Millisecond
	DefaultIdle       = 5 * time.Second
	DefaultTransition = 2 * time.Second

	// Below this speed multiplier a decelerating step leaves the object in place.
	stopThreshold = 0.01
)

// Config holds the animation constants.
type Config struct {
	Tick       time.Duration // interval between ticks
	Idle       time.Duration // time since activation before decelerating
	Transition time.Duration // length of the deceleration
	Velocity   image.Point   // initial pixels per tick
}

func DefaultConfig() Config {
	return Config{
		Tick:       DefaultTick,
		Idle:       DefaultIdle,
		Transition: DefaultTransition,
		Velocity:   image.Pt(2, 2),
	}
}

// TransitionFrames is the number of decelerating ticks before the object stops.
func (c Config) TransitionFrames() int {
	if c.Tick <= 0 {
		return 0
	}
	return int(c.Transition / c.Tick)
}

// Frame is the outcome of one step.
type Frame struct {
	Pos        image.Point
	Vel        image.Point
	Phase      Phase
	Transition int  // decelerating ticks taken so far
	Moved      bool // position changed this step
	Rearm      bool // another tick must be scheduled
}

// Sink receives the object position after every tick.
type Sink interface {
	SetPosition(p image.Point)
}
