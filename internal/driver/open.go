// Package driver provides the display.Drawer implementations the watchface
// can render to: SSD1306 OLED, WS2812 matrix, terminal preview and a
// headless simulator.
package driver

import (
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-dvdface/internal/config"
)

// Open returns the configured drawer and the name of the driver actually
// in use. Hardware that cannot be opened falls back to the simulator.
func Open(c *config.Config, log zerolog.Logger) (display.Drawer, string) {
	sim := func(w, h int) (display.Drawer, string) {
		if w <= 0 || h <= 0 {
			w, h = c.SSD1306.Width, c.SSD1306.Height
		}
		return NewSim(w, h, log), "sim"
	}

	switch c.Driver {
	case "ssd1306":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to SIM")
			return sim(c.SSD1306.Width, c.SSD1306.Height)
		}
		d, err := OpenSSD1306(c.SSD1306)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "ssd1306").
				Str("interface", c.SSD1306.Interface).
				Msg("SSD1306 init failed; falling back to SIM")
			return sim(c.SSD1306.Width, c.SSD1306.Height)
		}
		return d, "ssd1306"

	case "matrix":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to SIM")
			return sim(c.Matrix.Width, c.Matrix.Height)
		}
		d, err := OpenMatrix(c.Matrix)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "matrix").
				Str("dev", c.Matrix.SPIDev).
				Msg("matrix init failed; falling back to SIM")
			return sim(c.Matrix.Width, c.Matrix.Height)
		}
		return d, "matrix"

	case "term":
		d, err := OpenTerm(c.Term)
		if err != nil {
			log.Warn().Err(err).Msg("terminal init failed; falling back to SIM")
			return sim(c.Term.Width, c.Term.Height)
		}
		return d, "term"

	case "sim":
		return sim(c.SSD1306.Width, c.SSD1306.Height)

	default:
		log.Warn().Str("driver", c.Driver).Msg("unknown driver; using SIM")
		return sim(c.SSD1306.Width, c.SSD1306.Height)
	}
}
