package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/etscheelk/fractalize/fractal"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())
	if err := run(); err != nil {
		log.Fatalf("fractalize: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	fractal.SetLogger(slog.Default())

	var profile *cpuProfile
	if cfg.CPUProfile != "" {
		profile, err = startCPUProfile(cfg.CPUProfile)
		if err != nil {
			return err
		}
		defer profile.Stop()
	}

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runHeadless(ctx, cfg)
	}

	g := newGame(cfg)
	g.profile = profile
	defer g.Close()

	ebiten.SetWindowSize(g.previewW, g.previewH)
	ebiten.SetWindowTitle(windowTitle)
	return ebiten.RunGame(g)
}
