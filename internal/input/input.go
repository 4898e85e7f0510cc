// Package input turns hardware and terminal gestures into watchface events.
package input

import "time"

// Kind enumerates the events that wake the animation.
type Kind string

const (
	Focus Kind = "focus" // the watchface regained focus
	Tap   Kind = "tap"   // wrist tap, button press or key
)

type Event struct {
	Kind   Kind
	At     time.Time
	Source string
}

// Handler receives events. It may be called from any goroutine.
type Handler func(Event)
