// Package app assembles the watchface: the clock text, the animator that
// bounces it and the display it is drawn on.
package app

import (
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/funtimes-dvdface/internal/anim"
	"github.com/coreman2200/funtimes-dvdface/internal/clock"
	"github.com/coreman2200/funtimes-dvdface/internal/config"
	"github.com/coreman2200/funtimes-dvdface/internal/driver"
	"github.com/coreman2200/funtimes-dvdface/internal/face"
	"github.com/coreman2200/funtimes-dvdface/internal/input"
)

// Watchface owns all watchface state. Like the Animator it holds, it must
// only be touched from the event loop that backs its clock.
type Watchface struct {
	clock  clock.Clock
	style  face.Style
	drawer display.Drawer
	layer  *face.Layer
	anim   *anim.Animator
	minute clock.Timer
	loaded bool
	halted bool
	log    zerolog.Logger
}

// AnimConfig converts the file settings into animation constants.
func AnimConfig(a config.Animation) anim.Config {
	return anim.Config{
		Tick:       a.Tick(),
		Idle:       a.Idle(),
		Transition: a.Transition(),
		Velocity:   image.Pt(a.VelocityX, a.VelocityY),
	}
}

func New(c *config.Config, clk clock.Clock, d display.Drawer, log zerolog.Logger) (*Watchface, error) {
	m, err := face.NewMetrics(c.Font, c.Scale)
	if err != nil {
		return nil, err
	}
	fg, err := driver.ParseColor(c.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	bg, err := driver.ParseColor(c.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if c.Invert {
		fg, bg = bg, fg
	}

	w := &Watchface{
		clock:  clk,
		style:  face.Style(c.Clock),
		drawer: d,
		log:    log.With().Str("component", "watchface").Logger(),
	}
	w.layer = face.NewLayer(d, m, fg.RGBA(), bg.RGBA(), log)
	w.anim = anim.New(AnimConfig(c.Animation), w.layer.Viewport(), anim.Size{}, clk, w.layer, log)
	return w, nil
}

// Load shows the current time centred on the display and starts the
// animation at full speed.
func (w *Watchface) Load() {
	now := w.clock.Now()
	w.UpdateTime(now)
	w.anim.Center()
	w.layer.SetPosition(w.anim.Position())
	w.scheduleMinute(now)
	w.anim.ResetToActive(now)
	w.loaded = true
	w.log.Info().
		Str("text", w.layer.Text()).
		Str("drawer", w.drawer.String()).
		Interface("view", w.layer.Viewport()).
		Msg("loaded")
}

// Unload cancels every timer and releases the display. It may be called
// even if Load never ran.
func (w *Watchface) Unload() error {
	w.loaded = false
	w.anim.Stop()
	if w.minute != nil {
		w.minute.Stop()
		w.minute = nil
	}
	if w.halted {
		return nil
	}
	w.halted = true
	w.log.Info().Int("frames", w.layer.Draws()).Msg("unloaded")
	return w.drawer.Halt()
}

// HandleEvent restarts the animation on focus regained or a tap.
func (w *Watchface) HandleEvent(ev input.Event) {
	if !w.loaded {
		return
	}
	switch ev.Kind {
	case input.Focus, input.Tap:
		w.log.Debug().Str("kind", string(ev.Kind)).Str("source", ev.Source).Msg("activate")
		w.anim.Activate()
	default:
		w.log.Warn().Str("kind", string(ev.Kind)).Msg("unhandled event")
	}
}

// UpdateTime renders now as the new text, keeping it inside the display.
func (w *Watchface) UpdateTime(now time.Time) {
	size := w.layer.SetText(face.Format(now, w.style))
	w.anim.SetObjectSize(size)
	w.layer.SetPosition(w.anim.Position())
}

func (w *Watchface) scheduleMinute(now time.Time) {
	next := now.Truncate(time.Minute).Add(time.Minute)
	var t clock.Timer
	t = w.clock.AfterFunc(next.Sub(now), func() {
		if w.minute != t {
			return
		}
		now := w.clock.Now()
		w.UpdateTime(now)
		w.scheduleMinute(now)
	})
	w.minute = t
}

func (w *Watchface) Text() string { return w.layer.Text() }

func (w *Watchface) Position() image.Point { return w.anim.Position() }

func (w *Watchface) Snapshot() anim.Frame { return w.anim.Snapshot() }

func (w *Watchface) Animating() bool { return w.anim.Scheduled() }
