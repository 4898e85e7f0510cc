package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 50*time.Millisecond, c.Animation.Tick())
	assert.Equal(t, 5*time.Second, c.Animation.Idle())
	assert.Equal(t, 2*time.Second, c.Animation.Transition())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: ssd1306
clock: 12h
ssd1306:
  interface: spi
  dc_pin: GPIO24
animation:
  idle_ms: 8000
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ssd1306", c.Driver)
	assert.Equal(t, "12h", c.Clock)
	assert.Equal(t, "spi", c.SSD1306.Interface)
	assert.Equal(t, "GPIO24", c.SSD1306.DCPin)
	assert.Equal(t, 128, c.SSD1306.Width, "unset keys keep defaults")
	assert.Equal(t, 8*time.Second, c.Animation.Idle())
	assert.Equal(t, 50, c.Animation.TickMs)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Default()
	want.Driver = "matrix"
	want.Matrix.Brightness = 32
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

var TestInvalidConfigs = []struct {
	Name   string
	Mutate func(c *Config)
}{
	{"driver", func(c *Config) { c.Driver = "hdmi" }},
	{"clock", func(c *Config) { c.Clock = "36h" }},
	{"scale", func(c *Config) { c.Scale = 0 }},
	{"tick", func(c *Config) { c.Animation.TickMs = 0 }},
	{"idle", func(c *Config) { c.Animation.IdleMs = -1 }},
	{"velocity", func(c *Config) { c.Animation.VelocityY = 0 }},
	{"interface", func(c *Config) { c.SSD1306.Interface = "uart" }},
	{"matrix", func(c *Config) { c.Matrix.Width = 0 }},
	{"term", func(c *Config) { c.Term.Height = 0 }},
}

func TestValidateRejects(t *testing.T) {
	for _, v := range TestInvalidConfigs {
		t.Run(v.Name, func(t *testing.T) {
			c := Default()
			v.Mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestTermFitSkipsDimensions(t *testing.T) {
	c := Default()
	c.Term = Term{Fit: true}
	assert.NoError(t, c.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: [nope"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSampleConfigMatchesDefault(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
