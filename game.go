package main

import (
	"log"
	"time"

	"github.com/etscheelk/fractalize/fractal"
	"github.com/hajimehoshi/ebiten/v2"
)

// Game is the ebiten collaborator around a fractal.Supervisor. It edits the
// parameters, starts renders, and shows whatever the supervisor publishes.
type Game struct {
	cfg    Config
	sup    *fractal.Supervisor
	params fractal.Parameters

	previewW, previewH int
	preview            *ebiten.Image
	previewDirty       bool

	lastErr   error
	lastErrAt time.Time

	profile *cpuProfile // nil unless -cpuprofile is set
}

// newGame constructs a Game with an idle supervisor and cfg's parameters.
func newGame(cfg Config) *Game {
	g := &Game{
		cfg:    cfg,
		params: cfg.Params,
	}
	g.previewW, g.previewH = previewSize(cfg.Width, cfg.Height, cfg.WindowSize)
	g.sup = newSupervisor(cfg, g.onRenderComplete)
	return g
}

// newSupervisor builds the supervisor shared by the window and headless modes.
func newSupervisor(cfg Config, onComplete func(fractal.Result)) *fractal.Supervisor {
	opts := []fractal.Option{
		fractal.WithMaxInFlight(cfg.MaxRenders),
		fractal.WithInitialParameters(cfg.Params),
	}
	if seed := cfg.Seed; seed != 0 {
		opts = append(opts, fractal.WithSourceFactory(func() fractal.WordSource {
			return fractal.NewSeededSource(seed)
		}))
	}
	if onComplete != nil {
		opts = append(opts, fractal.WithOnComplete(onComplete))
	}
	return fractal.NewSupervisor(cfg.Width, cfg.Height, opts...)
}

// Update handles input and publishes finished renders. It never blocks on a
// render in flight.
func (g *Game) Update() error {
	g.handleControls()
	if _, err := g.sup.Poll(); err != nil {
		g.reportError(err)
	}
	return nil
}

func (g *Game) onRenderComplete(r fractal.Result) {
	log.Printf("Fractal rendering complete: render %d in %v (%d points, %d dropped)",
		r.ID, r.Elapsed.Round(time.Millisecond), r.Stats.Plotted, r.Stats.Dropped)
	g.previewDirty = true
}

func (g *Game) startRender() {
	if err := g.sup.StartRender(g.params); err != nil {
		g.reportError(err)
		return
	}
	log.Printf("Render started (%d in flight): %s", g.sup.Pending(), g.params)
}

// save exports the current result, not the parameters being edited.
func (g *Game) save() {
	if err := exportResult(g.sup.Current(), g.cfg.OutPath, g.cfg.OutSize); err != nil {
		g.reportError(err)
		return
	}
	log.Printf("Saved %s", g.cfg.OutPath)
}

func (g *Game) reportError(err error) {
	log.Printf("Error: %v", err)
	g.lastErr = err
	g.lastErrAt = time.Now()
}

// Close stops the supervisor from accepting renders.
func (g *Game) Close() {
	g.sup.Close()
}
