package face

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-dvdface/internal/anim"
	"github.com/coreman2200/funtimes-dvdface/internal/driver"
)

var TestFormattedTimes = []struct {
	Hour, Min int
	Style     Style
	Expect    string
}{
	{9, 5, Clock24, "09:05"},
	{21, 30, Clock24, "21:30"},
	{21, 30, Clock12, "09:30"},
	{0, 0, Clock12, "12:00"},
	{12, 59, Clock12, "12:59"},
}

func TestFormat(t *testing.T) {
	for _, v := range TestFormattedTimes {
		tm := time.Date(2024, 3, 1, v.Hour, v.Min, 42, 0, time.Local)
		assert.Equal(t, v.Expect, Format(tm, v.Style))
	}
}

func TestMeasureBasicFont(t *testing.T) {
	m, err := NewMetrics("basic7x13", 1)
	require.NoError(t, err)
	assert.Equal(t, anim.Size{W: 35, H: 13}, m.Measure("12:34"))

	m, err = NewMetrics("basic7x13", 2)
	require.NoError(t, err)
	assert.Equal(t, anim.Size{W: 70, H: 26}, m.Measure("12:34"))
}

func TestMaskMatchesMeasure(t *testing.T) {
	for _, name := range Fonts() {
		m, err := NewMetrics(name, 3)
		require.NoError(t, err, name)
		size := m.Measure("08:15")
		mask := m.Mask("08:15")
		assert.Equal(t, image.Rect(0, 0, size.W, size.H), mask.Bounds(), name)

		inked := 0
		for _, a := range mask.Pix {
			if a > 0 {
				inked++
			}
		}
		assert.Greater(t, inked, 0, "%s drew glyphs", name)
	}
}

func TestNewMetricsRejects(t *testing.T) {
	_, err := NewMetrics("comic-sans", 1)
	assert.Error(t, err)
	_, err = NewMetrics("basic7x13", 0)
	assert.Error(t, err)
}

func newTestLayer(t *testing.T) (*Layer, *driver.Sim) {
	t.Helper()
	m, err := NewMetrics("basic7x13", 2)
	require.NoError(t, err)
	sim := driver.NewSim(128, 64, zerolog.Nop())
	return NewLayer(sim, m, color.White, color.Black, zerolog.Nop()), sim
}

func TestLayerDrawsTextAtPosition(t *testing.T) {
	l, sim := newTestLayer(t)
	assert.Equal(t, anim.Size{W: 128, H: 64}, l.Viewport())

	size := l.SetText("10:42")
	assert.Equal(t, anim.Size{W: 70, H: 26}, size)
	assert.Equal(t, 0, sim.Count(), "text change alone does not draw")

	l.SetPosition(image.Pt(20, 30))
	require.Equal(t, 1, sim.Count())
	lit := driver.Lit(sim.Last())
	assert.False(t, lit.Empty())
	assert.True(t, lit.In(image.Rect(20, 30, 90, 56)), "lit %v", lit)

	l.SetPosition(image.Pt(50, 2))
	lit = driver.Lit(sim.Last())
	assert.True(t, lit.In(image.Rect(50, 2, 120, 28)), "lit %v", lit)
	assert.Equal(t, image.Pt(50, 2), l.Position())
}

func TestLayerSkipsUnchangedPosition(t *testing.T) {
	l, sim := newTestLayer(t)
	l.SetText("10:42")
	l.SetPosition(image.Pt(5, 5))
	l.SetPosition(image.Pt(5, 5))
	assert.Equal(t, 1, sim.Count())

	l.SetText("10:43")
	l.SetPosition(image.Pt(5, 5))
	assert.Equal(t, 2, sim.Count(), "new text forces a redraw")
	assert.Equal(t, 2, l.Draws())
}

// failingDrawer rejects every frame.
type failingDrawer struct{ *driver.Sim }

func (f failingDrawer) Draw(image.Rectangle, image.Image, image.Point) error {
	return errors.New("bus error")
}

func TestLayerKeepsDrawError(t *testing.T) {
	m, err := NewMetrics("basic7x13", 1)
	require.NoError(t, err)
	l := NewLayer(failingDrawer{driver.NewSim(64, 32, zerolog.Nop())}, m, color.White, color.Black, zerolog.Nop())
	l.SetText("00:00")
	l.SetPosition(image.Pt(1, 1))
	assert.EqualError(t, l.Err(), "bus error")
}
