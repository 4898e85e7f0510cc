package face

import (
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/funtimes-dvdface/internal/anim"
)

// Layer is the text layer of the watchface. It owns a viewport-sized frame
// and pushes it to the display whenever the text or its position changes.
type Layer struct {
	drawer  display.Drawer
	metrics *Metrics
	fg, bg  *image.Uniform

	text  string
	size  anim.Size
	mask  *image.Alpha
	pos   image.Point
	frame *image.RGBA
	dirty bool

	draws int
	err   error
	log   zerolog.Logger
}

func NewLayer(d display.Drawer, m *Metrics, fg, bg color.Color, log zerolog.Logger) *Layer {
	return &Layer{
		drawer:  d,
		metrics: m,
		fg:      image.NewUniform(fg),
		bg:      image.NewUniform(bg),
		frame:   image.NewRGBA(image.Rect(0, 0, d.Bounds().Dx(), d.Bounds().Dy())),
		dirty:   true,
		log:     log.With().Str("component", "layer").Logger(),
	}
}

// Viewport is the drawable area of the display.
func (l *Layer) Viewport() anim.Size {
	b := l.drawer.Bounds()
	return anim.Size{W: b.Dx(), H: b.Dy()}
}

// SetText replaces the text and returns its rendered size. The display is
// updated on the next SetPosition or Redraw.
func (l *Layer) SetText(s string) anim.Size {
	if s == l.text && l.mask != nil {
		return l.size
	}
	l.text = s
	l.size = l.metrics.Measure(s)
	l.mask = l.metrics.Mask(s)
	l.dirty = true
	return l.size
}

func (l *Layer) Text() string { return l.text }

func (l *Layer) Size() anim.Size { return l.size }

func (l *Layer) Position() image.Point { return l.pos }

// SetPosition moves the text. It satisfies anim.Sink; draw failures are
// logged and kept for Err.
func (l *Layer) SetPosition(p image.Point) {
	if p == l.pos && !l.dirty {
		return
	}
	l.pos = p
	l.dirty = true
	if err := l.Redraw(); err != nil {
		l.log.Error().Err(err).Str("drawer", l.drawer.String()).Msg("draw failed")
	}
}

// Redraw renders the frame and sends it to the display.
func (l *Layer) Redraw() error {
	draw.Draw(l.frame, l.frame.Bounds(), l.bg, image.Point{}, draw.Src)
	if l.mask != nil {
		r := l.mask.Bounds().Add(l.pos)
		draw.DrawMask(l.frame, r, l.fg, image.Point{}, l.mask, image.Point{}, draw.Over)
	}
	l.draws++
	l.err = l.drawer.Draw(l.drawer.Bounds(), l.frame, image.Point{})
	if l.err == nil {
		l.dirty = false
	}
	return l.err
}

// Err is the last draw error, if any.
func (l *Layer) Err() error { return l.err }

// Draws counts frames sent to the display.
func (l *Layer) Draws() int { return l.draws }

// Frame is the last rendered frame.
func (l *Layer) Frame() *image.RGBA { return l.frame }
