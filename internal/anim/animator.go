// Package anim moves the watchface text around the display: full speed
// while the wearer is active, easing to a stop once they go idle.
package anim

import (
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-dvdface/internal/clock"
)

// Animator drives a Motion from a clock. It is not safe for concurrent use;
// every method and every timer callback must run on the same event loop.
type Animator struct {
	cfg     Config
	motion  *Motion
	clock   clock.Clock
	sink    Sink
	pending clock.Timer
	log     zerolog.Logger
}

// New builds an Animator for an object of size object inside view. Nothing
// is scheduled until ResetToActive is called.
func New(cfg Config, view, object Size, clk clock.Clock, sink Sink, log zerolog.Logger) *Animator {
	return &Animator{
		cfg:    cfg,
		motion: NewMotion(cfg, view, object),
		clock:  clk,
		sink:   sink,
		log:    log.With().Str("component", "anim").Logger(),
	}
}

// ResetToActive restarts full-speed motion from now. Any pending tick is
// cancelled and exactly one new tick is armed.
func (a *Animator) ResetToActive(now time.Time) {
	if a.motion.Phase != Active {
		a.log.Debug().Str("from", string(a.motion.Phase)).Msg("reactivated")
	}
	a.motion.Reset(now)
	a.arm()
}

// Activate is ResetToActive at the clock's current time.
func (a *Animator) Activate() { a.ResetToActive(a.clock.Now()) }

// OnTick runs one animation step, publishes the position and schedules the
// next tick unless the object has come to rest.
func (a *Animator) OnTick(now time.Time) image.Point {
	prev := a.motion.Phase
	f := a.motion.Step(now)
	if f.Phase != prev {
		a.log.Debug().
			Str("from", string(prev)).
			Str("to", string(f.Phase)).
			Int("x", f.Pos.X).Int("y", f.Pos.Y).
			Msg("phase change")
	}
	if a.sink != nil {
		a.sink.SetPosition(f.Pos)
	}
	if f.Rearm {
		a.arm()
	} else {
		a.cancel()
	}
	return f.Pos
}

// SetObjectSize records new text bounds, keeping the object inside the view.
func (a *Animator) SetObjectSize(s Size) {
	a.motion.Resize(s)
}

// Center moves the object to the middle of the view.
func (a *Animator) Center() {
	a.motion.Center()
}

// Stop cancels the pending tick without changing the motion state.
func (a *Animator) Stop() { a.cancel() }

// Position is the object's current top-left corner.
func (a *Animator) Position() image.Point { return a.motion.Pos }

// Snapshot reports the current motion state.
func (a *Animator) Snapshot() Frame { return a.motion.Snapshot() }

// Scheduled reports whether a tick is pending.
func (a *Animator) Scheduled() bool { return a.pending != nil }

func (a *Animator) arm() {
	a.cancel()
	var t clock.Timer
	t = a.clock.AfterFunc(a.cfg.Tick, func() {
		if a.pending != t {
			return
		}
		a.pending = nil
		a.OnTick(a.clock.Now())
	})
	a.pending = t
}

func (a *Animator) cancel() {
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}
