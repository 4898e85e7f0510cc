package driver

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// MaxBrightness caps the alpha used as LED intensity.
const MaxBrightness uint8 = 200

const (
	AlphaOffset uint8 = 0x18
	RedOffset   uint8 = 0x10
	GreenOffset uint8 = 0x08
	BlueOffset  uint8 = 0x0
)

// Color is a packed 0xAARRGGBB value. Alpha doubles as LED intensity.
type Color struct {
	val uint32
}

func NewColor(c uint32) Color {
	return Color{val: c}
}

// FromColor packs any color.Color at full alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	v := NewColor(0)
	v.SetA(0xFF)
	v.SetR(n.R)
	v.SetG(n.G)
	v.SetB(n.B)
	return v
}

// ParseColor accepts "#RRGGBB", "#AARRGGBB" or the same digits with a 0x prefix.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	switch len(h) {
	case 6:
		h = "FF" + h
	case 8:
	default:
		return Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return NewColor(uint32(v)), nil
}

func (c Color) Value() uint32 { return c.val }

func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R(), c.G(), c.B(), c.A()}
}

// LED scales the channels by alpha, capped at MaxBrightness, for driving
// addressable LEDs.
func (c Color) LED() color.NRGBA {
	aa := float64(c.A())
	if aa > float64(MaxBrightness) {
		aa = float64(MaxBrightness)
	}
	aa /= 255.0
	return color.NRGBA{
		R: uint8(float64(c.R()) * aa),
		G: uint8(float64(c.G()) * aa),
		B: uint8(float64(c.B()) * aa),
		A: 255,
	}
}

func setChannel(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func channel(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

func (c *Color) SetR(r uint8) { c.val = setChannel(c.val, r, RedOffset) }
func (c *Color) SetG(g uint8) { c.val = setChannel(c.val, g, GreenOffset) }
func (c *Color) SetB(b uint8) { c.val = setChannel(c.val, b, BlueOffset) }
func (c *Color) SetA(a uint8) { c.val = setChannel(c.val, a, AlphaOffset) }

func (c Color) R() uint8 { return channel(c.val, RedOffset) }
func (c Color) G() uint8 { return channel(c.val, GreenOffset) }
func (c Color) B() uint8 { return channel(c.val, BlueOffset) }
func (c Color) A() uint8 { return channel(c.val, AlphaOffset) }
