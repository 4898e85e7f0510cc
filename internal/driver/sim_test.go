package driver

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-dvdface/internal/config"
	"github.com/coreman2200/funtimes-dvdface/internal/input"
)

func TestSimKeepsLastFrame(t *testing.T) {
	s := NewSim(32, 16, zerolog.Nop())
	assert.Equal(t, image.Rect(0, 0, 32, 16), s.Bounds())

	frame := image.NewRGBA(s.Bounds())
	draw.Draw(frame, image.Rect(4, 2, 9, 7), image.NewUniform(color.White), image.Point{}, draw.Src)
	require.NoError(t, s.Draw(s.Bounds(), frame, image.Point{}))
	require.NoError(t, s.Draw(s.Bounds(), frame, image.Point{}))

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, image.Rect(4, 2, 9, 7), Lit(s.Last()))

	require.NoError(t, s.Halt())
	assert.True(t, s.Halted())
}

func TestLitEmptyFrame(t *testing.T) {
	assert.True(t, Lit(image.NewGray(image.Rect(0, 0, 8, 8))).Empty())
}

func TestOpenFallsBackToSim(t *testing.T) {
	c := config.Default()
	d, name := Open(c, zerolog.Nop())
	assert.Equal(t, "sim", name)
	assert.Equal(t, image.Rect(0, 0, 128, 64), d.Bounds())

	c.Driver = "bogus"
	_, name = Open(c, zerolog.Nop())
	assert.Equal(t, "sim", name)
}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(cols, rows)
	return s
}

func TestTermDrawsHalfBlocks(t *testing.T) {
	s := newSimScreen(t, 20, 10)
	term := NewTerm(s, config.Term{Width: 8, Height: 4})
	defer term.Halt()
	assert.Equal(t, image.Rect(0, 0, 8, 4), term.Bounds())

	frame := image.NewRGBA(term.Bounds())
	frame.Set(1, 0, color.White) // upper half of cell (1,0)
	frame.Set(2, 3, color.White) // lower half of cell (2,1)
	require.NoError(t, term.Draw(term.Bounds(), frame, image.Point{}))

	r, _, style, _ := s.GetContent(1, 0)
	assert.Equal(t, '▀', r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), bg)

	_, _, style, _ = s.GetContent(2, 1)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), bg)
}

func TestTermFitUsesScreenSize(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	term := NewTerm(s, config.Term{Fit: true})
	defer term.Halt()
	assert.Equal(t, image.Rect(0, 0, 40, 24), term.Bounds())
}

func TestTermListenMapsEvents(t *testing.T) {
	s := newSimScreen(t, 20, 10)
	term := NewTerm(s, config.Term{Width: 8, Height: 4})

	events := make(chan input.Event, 4)
	quit := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		term.Listen(func(ev input.Event) { events <- ev }, func() { quit <- struct{}{} })
		close(done)
	}()

	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	ev := <-events
	assert.Equal(t, input.Tap, ev.Kind)
	assert.Equal(t, "term", ev.Source)

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	<-quit

	require.NoError(t, term.Halt())
	<-done
}
