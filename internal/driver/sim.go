package driver

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/rs/zerolog"
)

// Sim is a headless drawer: it keeps the last frame and logs where the lit
// pixels are. Useful without hardware and in tests.
type Sim struct {
	mu     sync.Mutex
	bounds image.Rectangle
	last   *image.Gray
	count  int
	halted bool
	log    zerolog.Logger
}

func NewSim(w, h int, log zerolog.Logger) *Sim {
	r := image.Rect(0, 0, w, h)
	return &Sim{
		bounds: r,
		last:   image.NewGray(r),
		log:    log.With().Str("driver", "sim").Logger(),
	}
}

func (s *Sim) String() string          { return "sim" }
func (s *Sim) ColorModel() color.Model { return color.GrayModel }
func (s *Sim) Bounds() image.Rectangle { return s.bounds }

func (s *Sim) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.last, r.Intersect(s.bounds), src, sp, draw.Src)
	s.count++
	lit := Lit(s.last)
	s.log.Trace().
		Int("frame", s.count).
		Int("x", lit.Min.X).Int("y", lit.Min.Y).
		Int("w", lit.Dx()).Int("h", lit.Dy()).
		Msg("draw")
	return nil
}

func (s *Sim) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halted = true
	s.log.Debug().Int("frames", s.count).Msg("halt")
	return nil
}

// Count is the number of frames drawn so far.
func (s *Sim) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Halted reports whether Halt was called.
func (s *Sim) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() *image.Gray {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := image.NewGray(s.last.Rect)
	copy(cp.Pix, s.last.Pix)
	return cp
}

// Lit returns the bounding box of the pixels brighter than mid-grey.
func Lit(img image.Image) image.Rectangle {
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 0x80 {
				continue
			}
			box = box.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return box
}
