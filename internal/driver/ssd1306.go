package driver

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/coreman2200/funtimes-dvdface/internal/config"
)

// OLED drives a monochrome SSD1306 panel. Frames are thresholded to 1 bit
// before being sent.
type OLED struct {
	dev    *ssd1306.Dev
	buf    *image1bit.VerticalLSB
	closer io.Closer
}

func ssd1306Opts(c config.SSD1306) *ssd1306.Opts {
	return &ssd1306.Opts{W: c.Width, H: c.Height, Rotated: c.Rotated}
}

// OpenSSD1306 opens the panel on the configured I2C bus or SPI port.
func OpenSSD1306(c config.SSD1306) (*OLED, error) {
	if c.Interface == "spi" {
		port, err := spireg.Open(c.SPIDev)
		if err != nil {
			return nil, fmt.Errorf("open spi %q: %w", c.SPIDev, err)
		}
		dc := gpioreg.ByName(c.DCPin)
		if dc == nil {
			port.Close()
			return nil, fmt.Errorf("unknown D/C pin %q", c.DCPin)
		}
		o, err := NewOLEDSPI(port, dc, c)
		if err != nil {
			port.Close()
			return nil, err
		}
		o.closer = port
		return o, nil
	}

	bus, err := i2creg.Open(c.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c %q: %w", c.Bus, err)
	}
	if c.SpeedKHz > 0 {
		if err := bus.SetSpeed(physic.Frequency(c.SpeedKHz) * physic.KiloHertz); err != nil {
			bus.Close()
			return nil, fmt.Errorf("i2c speed: %w", err)
		}
	}
	o, err := NewOLEDI2C(bus, c)
	if err != nil {
		bus.Close()
		return nil, err
	}
	o.closer = bus
	return o, nil
}

// NewOLEDI2C wraps an SSD1306 on an already open I2C bus.
func NewOLEDI2C(bus i2c.Bus, c config.SSD1306) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, ssd1306Opts(c))
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return newOLED(dev), nil
}

// NewOLEDSPI wraps an SSD1306 on an already open SPI port with a D/C pin.
func NewOLEDSPI(port spi.Port, dc gpio.PinOut, c config.SSD1306) (*OLED, error) {
	dev, err := ssd1306.NewSPI(port, dc, ssd1306Opts(c))
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return newOLED(dev), nil
}

func newOLED(dev *ssd1306.Dev) *OLED {
	return &OLED{dev: dev, buf: image1bit.NewVerticalLSB(dev.Bounds())}
}

func (o *OLED) String() string          { return o.dev.String() }
func (o *OLED) ColorModel() color.Model { return image1bit.BitModel }
func (o *OLED) Bounds() image.Rectangle { return o.dev.Bounds() }

func (o *OLED) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(o.buf, r, src, sp, draw.Src)
	return o.dev.Draw(o.buf.Bounds(), o.buf, image.Point{})
}

// Halt blanks the panel and releases the bus.
func (o *OLED) Halt() error {
	err := o.dev.Halt()
	if o.closer != nil {
		if cerr := o.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
