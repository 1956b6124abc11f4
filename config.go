package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/etscheelk/fractalize/fractal"
)

// Canvas, budget, and control constants for the interactive shell and the
// headless renderer.
const (
	defaultCanvasSize = 4096
	defaultPoints     = 25_000_000
	minPoints         = 1_000_000
	maxPoints         = 500_000_000
	defaultOutPath    = "my_image.png"
	defaultWindowSize = 768
	windowTitle       = "fractalize"
	angleStep         = float32(math.Pi / 180)
	maxAngle          = float32(math.Pi)
	errorShowDuration = 5 * time.Second
	headlessTimeout   = 30 * time.Minute
)

// Config is the validated run configuration assembled from flags.
type Config struct {
	Width, Height int
	Params        fractal.Parameters
	Seed          uint64
	OutPath       string
	OutSize       int
	Headless      bool
	MaxRenders    int
	CPUProfile    string
	Debug         bool
	WindowSize    int
}

// loadConfig folds the parsed flags into a Config. flag.Parse must have run.
func loadConfig() (Config, error) {
	method, err := fractal.ParseMethod(*methodFlag)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Width:  *widthFlag,
		Height: *heightFlag,
		Params: fractal.DefaultParameters().
			WithInitialPoint(float32(*initXFlag), float32(*initYFlag)).
			WithRotation(float32(*rotFlag)).
			WithThetaOffset(float32(*thetaFlag)).
			WithMethod(method).
			WithIterationBudget(alignPoints(*pointsFlag)),
		Seed:       *seedFlag,
		OutPath:    *outFlag,
		OutSize:    *outSizeFlag,
		Headless:   *headlessFlag,
		MaxRenders: *maxRendersFlag,
		CPUProfile: *cpuProfileFlag,
		Debug:      *debugFlag,
		WindowSize: *windowSizeFlag,
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Params.IterationBudget == 0 {
		errs = append(errs, errors.New("points must be at least 64"))
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.OutSize < 0 {
		errs = append(errs, fmt.Errorf("out-size %d must not be negative", c.OutSize))
	}
	if c.MaxRenders < 0 {
		errs = append(errs, fmt.Errorf("max-renders %d must not be negative", c.MaxRenders))
	}
	if !c.Headless && c.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("window-size %d must be positive", c.WindowSize))
	}
	return errors.Join(errs...)
}

// previewSize fits the canvas aspect ratio into a square of side limit.
func previewSize(width, height, limit int) (int, int) {
	if width >= height {
		return limit, max(1, limit*height/width)
	}
	return max(1, limit*width/height), limit
}

// alignPoints rounds n down to a whole number of 64-bit words, saturating at
// the largest representable budget.
func alignPoints(n uint64) uint32 {
	n = min(n, math.MaxUint32)
	return uint32(n - n%fractal.BitsPerWord)
}
