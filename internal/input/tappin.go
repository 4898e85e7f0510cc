package input

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePoll bounds how long Watch blocks before checking for cancellation.
const edgePoll = 200 * time.Millisecond

// TapPin reports presses of a button or tap sensor wired to a GPIO line.
type TapPin struct {
	pin      gpio.PinIn
	active   gpio.Level
	debounce time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// OpenTapPin looks the pin up by name (e.g. "GPIO17") on the host.
func OpenTapPin(name string, debounce time.Duration, activeHigh bool, log zerolog.Logger) (*TapPin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no gpio pin named %q", name)
	}
	return NewTapPin(p, debounce, activeHigh, log)
}

// NewTapPin arms edge detection on pin. Active low inputs get a pull-up and
// fire on the falling edge; active high ones the reverse.
func NewTapPin(pin gpio.PinIn, debounce time.Duration, activeHigh bool, log zerolog.Logger) (*TapPin, error) {
	pull, edge, active := gpio.PullUp, gpio.FallingEdge, gpio.Low
	if activeHigh {
		pull, edge, active = gpio.PullDown, gpio.RisingEdge, gpio.High
	}
	if err := pin.In(pull, edge); err != nil {
		return nil, fmt.Errorf("%s: %w", pin.Name(), err)
	}
	return &TapPin{
		pin:      pin,
		active:   active,
		debounce: debounce,
		now:      time.Now,
		log:      log.With().Str("component", "tap").Str("pin", pin.Name()).Logger(),
	}, nil
}

// Watch blocks until ctx is done, calling emit once per debounced press.
func (t *TapPin) Watch(ctx context.Context, emit Handler) {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !t.pin.WaitForEdge(edgePoll) {
			continue
		}
		if t.pin.Read() != t.active {
			continue
		}
		now := t.now()
		if !last.IsZero() && now.Sub(last) < t.debounce {
			t.log.Trace().Dur("since", now.Sub(last)).Msg("bounce ignored")
			continue
		}
		last = now
		t.log.Debug().Msg("tap")
		emit(Event{Kind: Tap, At: now, Source: t.pin.Name()})
	}
}

func (t *TapPin) Halt() error { return t.pin.Halt() }
