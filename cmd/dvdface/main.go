package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-dvdface/internal/app"
	"github.com/coreman2200/funtimes-dvdface/internal/config"
	"github.com/coreman2200/funtimes-dvdface/internal/driver"
	"github.com/coreman2200/funtimes-dvdface/internal/input"
	"github.com/coreman2200/funtimes-dvdface/internal/loop"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		drv        = flag.String("driver", "", "driver: ssd1306 | matrix | term | sim (overrides config)")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		level      = flag.String("log-level", "", "trace | debug | info | warn | error (overrides config)")
		logFile    = flag.String("log-file", "", "write logs here instead of stderr")
		writeCfg   = flag.Bool("write-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	if *drv != "" {
		cfg.Driver = *drv
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if *level != "" {
		cfg.LogLevel = *level
	}

	// ---- Logging ----
	var out io.Writer = os.Stderr
	if *logFile != "" {
		f, ferr := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr != nil {
			log.Fatal().Err(ferr).Str("path", *logFile).Msg("open log file")
		}
		defer f.Close()
		out = f
	} else if cfg.Driver == "term" {
		// the terminal belongs to the preview
		out = io.Discard
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	lvl, lerr := zerolog.ParseLevel(cfg.LogLevel)
	if lerr != nil || cfg.LogLevel == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}
	if *writeCfg {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	// ---- Display + loop ----
	d, name := driver.Open(cfg, log.Logger)
	lp := loop.New(log.Logger)

	wf, err := app.New(cfg, lp, d, log.Logger)
	if err != nil {
		_ = d.Halt()
		log.Fatal().Err(err).Msg("watchface init failed")
	}

	emit := func(ev input.Event) {
		lp.Post(func() { wf.HandleEvent(ev) })
	}
	lp.OnUserSignal(func() {
		wf.HandleEvent(input.Event{Kind: input.Tap, At: time.Now(), Source: "signal"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Inputs ----
	if t, ok := d.(*driver.Term); ok {
		go t.Listen(emit, lp.Quit)
	}
	if cfg.Tap.Pin != "" {
		debounce := time.Duration(cfg.Tap.DebounceMs) * time.Millisecond
		tp, err := input.OpenTapPin(cfg.Tap.Pin, debounce, cfg.Tap.ActiveHigh, log.Logger)
		if err != nil {
			log.Warn().Err(err).Str("pin", cfg.Tap.Pin).Msg("tap input unavailable")
		} else {
			defer tp.Halt()
			go tp.Watch(ctx, emit)
		}
	}

	log.Info().
		Str("driver", name).
		Str("clock", cfg.Clock).
		Str("font", cfg.Font).
		Int("scale", cfg.Scale).
		Msg("starting dvdface")

	lp.Post(wf.Load)
	if err := lp.Run(ctx); err != nil {
		log.Error().Err(err).Msg("loop stopped")
	}
	cancel()
	if err := wf.Unload(); err != nil {
		log.Warn().Err(err).Msg("display halt")
	}
	log.Info().Msg("bye")
}
