// Package face turns the time into pixels: it formats the clock string,
// measures it in a bitmap font and renders the text layer that the
// animation moves around.
package face

import (
	"fmt"
	"image"
	"sort"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/funtimes-dvdface/internal/anim"
)

// Style selects the clock notation.
type Style string

const (
	Clock24 Style = "24h"
	Clock12 Style = "12h"
)

// Format renders t as HH:MM. The 12 hour form keeps the leading zero.
func Format(t time.Time, s Style) string {
	if s == Clock12 {
		return t.Format("03:04")
	}
	return t.Format("15:04")
}

var faces = map[string]font.Face{
	"basic7x13":            basicfont.Face7x13,
	"inconsolata8x16":      inconsolata.Regular8x16,
	"inconsolata-bold8x16": inconsolata.Bold8x16,
}

// Fonts lists the available font names.
func Fonts() []string {
	out := make([]string, 0, len(faces))
	for k := range faces {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Metrics measures and rasterises text in one font at an integer scale.
type Metrics struct {
	face  font.Face
	scale int
}

func NewMetrics(name string, scale int) (*Metrics, error) {
	f, ok := faces[name]
	if !ok {
		return nil, fmt.Errorf("unknown font %q", name)
	}
	if scale < 1 {
		return nil, fmt.Errorf("scale must be >= 1, got %d", scale)
	}
	return &Metrics{face: f, scale: scale}, nil
}

// Measure returns the pixel bounds text occupies once rendered.
func (m *Metrics) Measure(text string) anim.Size {
	w, h := m.unscaled(text)
	return anim.Size{W: w * m.scale, H: h * m.scale}
}

func (m *Metrics) unscaled(text string) (int, int) {
	met := m.face.Metrics()
	return font.MeasureString(m.face, text).Ceil(), (met.Ascent + met.Descent).Ceil()
}

// Mask renders text as an alpha mask the size reported by Measure.
func (m *Metrics) Mask(text string) *image.Alpha {
	w, h := m.unscaled(text)
	base := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  base,
		Src:  image.Opaque,
		Face: m.face,
		Dot:  fixed.Point26_6{Y: m.face.Metrics().Ascent},
	}
	d.DrawString(text)
	if m.scale == 1 {
		return base
	}
	out := image.NewAlpha(image.Rect(0, 0, w*m.scale, h*m.scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	return out
}
