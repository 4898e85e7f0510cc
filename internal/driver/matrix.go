package driver

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-dvdface/internal/config"
)

// Layout maps matrix coordinates to the position on the LED chain.
type Layout struct {
	W, H int
	// Serpentine chains reverse direction on every odd row.
	Serpentine bool
}

// Index maps x,y -> linear LED index (0..N-1)
func (l Layout) Index(x, y int) int {
	if l.Serpentine && y%2 == 1 {
		x = l.W - 1 - x
	}
	return y*l.W + x
}

func (l Layout) Count() int { return l.W * l.H }

// Matrix presents a WS2812 chain folded into rows as a 2D drawer.
type Matrix struct {
	strip      display.Drawer
	layout     Layout
	brightness uint8
	line       *image.NRGBA
	closer     interface{ Close() error }
}

// OpenMatrix opens the LED chain on the configured SPI port.
func OpenMatrix(c config.Matrix) (*Matrix, error) {
	port, err := spireg.Open(c.SPIDev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", c.SPIDev, err)
	}
	m, err := NewMatrixSPI(port, c)
	if err != nil {
		port.Close()
		return nil, err
	}
	m.closer = port
	return m, nil
}

// NewMatrixSPI drives the chain through nrzled on an open port.
func NewMatrixSPI(port spi.Port, c config.Matrix) (*Matrix, error) {
	l := Layout{W: c.Width, H: c.Height, Serpentine: c.Serpentine}
	opts := nrzled.Opts{
		NumPixels: l.Count(),
		Channels:  3,
		Freq:      physic.Frequency(c.FreqKHz) * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return NewMatrix(d, l, c.Brightness), nil
}

// NewMatrix wraps any one-row strip drawer.
func NewMatrix(strip display.Drawer, l Layout, brightness uint8) *Matrix {
	return &Matrix{
		strip:      strip,
		layout:     l,
		brightness: brightness,
		line:       image.NewNRGBA(image.Rect(0, 0, l.Count(), 1)),
	}
}

func (m *Matrix) String() string          { return fmt.Sprintf("matrix{%s}", m.strip) }
func (m *Matrix) ColorModel() color.Model { return color.NRGBAModel }
func (m *Matrix) Bounds() image.Rectangle { return image.Rect(0, 0, m.layout.W, m.layout.H) }

func (m *Matrix) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := FromColor(src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y))
			c.SetA(m.brightness)
			m.line.SetNRGBA(m.layout.Index(x, y), 0, c.LED())
		}
	}
	return m.strip.Draw(m.line.Bounds(), m.line, image.Point{})
}

// Halt turns every LED off and releases the port.
func (m *Matrix) Halt() error {
	err := m.strip.Halt()
	if m.closer != nil {
		if cerr := m.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
