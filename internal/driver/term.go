package driver

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/coreman2200/funtimes-dvdface/internal/config"
	"github.com/coreman2200/funtimes-dvdface/internal/input"
)

// Term previews the display in a terminal. Each cell shows two pixels
// stacked with an upper half block.
type Term struct {
	screen tcell.Screen
	bounds image.Rectangle
	frame  *image.RGBA
}

func OpenTerm(c config.Term) (*Term, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return NewTerm(s, c), nil
}

// NewTerm takes over an initialised screen.
func NewTerm(s tcell.Screen, c config.Term) *Term {
	w, h := c.Width, c.Height
	if c.Fit {
		cols, rows := s.Size()
		w, h = cols, rows*2
	}
	s.EnableFocus()
	s.HideCursor()
	s.Clear()
	r := image.Rect(0, 0, w, h)
	return &Term{screen: s, bounds: r, frame: image.NewRGBA(r)}
}

func (t *Term) String() string          { return "term" }
func (t *Term) ColorModel() color.Model { return color.RGBAModel }
func (t *Term) Bounds() image.Rectangle { return t.bounds }

func (t *Term) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(t.frame, r.Intersect(t.bounds), src, sp, draw.Src)
	for cy := 0; cy*2 < t.bounds.Dy(); cy++ {
		for x := 0; x < t.bounds.Dx(); x++ {
			top := t.frame.RGBAAt(x, cy*2)
			bot := t.frame.RGBAAt(x, cy*2+1)
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bot))
			t.screen.SetContent(x, cy, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func (t *Term) Halt() error {
	t.screen.Fini()
	return nil
}

// Listen forwards terminal input until the screen is finalised. Keys are
// taps, focus-in is focus regained, and Esc, q or Ctrl-C call quit.
func (t *Term) Listen(emit input.Handler, quit func()) {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				quit()
				continue
			}
			emit(input.Event{Kind: input.Tap, At: time.Now(), Source: "term"})
		case *tcell.EventFocus:
			if ev.Focused {
				emit(input.Event{Kind: input.Focus, At: time.Now(), Source: "term"})
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func cellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
