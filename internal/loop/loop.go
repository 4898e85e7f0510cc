// Package loop runs the watchface on a single goroutine. Timer callbacks,
// input events and signals are all funnelled through one select loop, so
// the animation state never needs a lock.
package loop

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-dvdface/internal/clock"
)

const queueDepth = 64

type Looper struct {
	queue  chan func()
	quit   chan struct{}
	once   sync.Once
	sigs   chan os.Signal
	onUser func()
	log    zerolog.Logger
}

func New(log zerolog.Logger) *Looper {
	return &Looper{
		queue: make(chan func(), queueDepth),
		quit:  make(chan struct{}),
		sigs:  make(chan os.Signal, 1),
		log:   log.With().Str("component", "loop").Logger(),
	}
}

// OnUserSignal sets the handler run on the loop for SIGUSR1. Must be called
// before Run.
func (l *Looper) OnUserSignal(f func()) { l.onUser = f }

// Post queues f to run on the loop goroutine. It reports false once the
// loop has quit.
func (l *Looper) Post(f func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.quit:
		return false
	}
}

// Quit stops Run. Safe to call from any goroutine, more than once.
func (l *Looper) Quit() {
	l.once.Do(func() { close(l.quit) })
}

// Run processes queued work until Quit, an interrupt signal or ctx ends.
func (l *Looper) Run(ctx context.Context) error {
	signal.Notify(l.sigs, append([]os.Signal{os.Interrupt, syscall.SIGTERM}, userSignals...)...)
	defer signal.Stop(l.sigs)

	l.log.Debug().Msg("loop started")
	for {
		select {
		case f := <-l.queue:
			f()

		case sig := <-l.sigs:
			if isUserSignal(sig) {
				if l.onUser != nil {
					l.onUser()
				}
				continue
			}
			l.log.Info().Str("signal", sig.String()).Msg("shutting down")
			l.Quit()
			return nil

		case <-l.quit:
			return nil

		case <-ctx.Done():
			l.Quit()
			return ctx.Err()
		}
	}
}

// Now implements clock.Clock.
func (l *Looper) Now() time.Time { return time.Now() }

// AfterFunc implements clock.Clock. f runs on the loop goroutine; stopping
// the timer before f is dequeued guarantees f never runs.
func (l *Looper) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Load() {
				return
			}
			t.fired.Store(true)
			f()
		})
	})
	return t
}

type timer struct {
	t       *time.Timer
	stopped atomic.Bool
	fired   atomic.Bool
}

func (t *timer) Stop() bool {
	if t.fired.Load() || t.stopped.Swap(true) {
		return false
	}
	t.t.Stop()
	return true
}
