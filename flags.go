package main

import (
	"flag"

	"github.com/etscheelk/fractalize/fractal"
)

// Command-line flags for the render parameters, the canvas, and the run mode.
// loadConfig turns them into a Config.
var (
	widthFlag  = flag.Int("width", defaultCanvasSize, "canvas width in pixels")
	heightFlag = flag.Int("height", defaultCanvasSize, "canvas height in pixels")

	// pointsFlag is rounded down to a multiple of 64.
	pointsFlag = flag.Uint64("points", defaultPoints, "iteration budget (random decisions per render)")

	rotFlag    = flag.Float64("rot", fractal.DefaultRotation, "rotation angle in radians")
	thetaFlag  = flag.Float64("theta", fractal.DefaultThetaOffset, "theta offset in radians")
	methodFlag = flag.String("method", fractal.MethodDefault.String(), "angle mapping: default or multiply-theta")
	initXFlag  = flag.Float64("init-x", 0, "initial point x in [-1, 1]")
	initYFlag  = flag.Float64("init-y", 0.5, "initial point y in [-1, 1]")

	// seedFlag of 0 draws every render from a fresh random source.
	seedFlag = flag.Uint64("seed", 0, "seed for reproducible renders (0 = random)")

	outFlag     = flag.String("out", defaultOutPath, "export path; the extension picks png, tiff, bmp, or raw")
	outSizeFlag = flag.Int("out-size", 0, "scale exports to this width, keeping the aspect ratio (0 = full size)")

	headlessFlag   = flag.Bool("headless", false, "render once without a window and export to -out")
	maxRendersFlag = flag.Int("max-renders", 0, "renders allowed in flight at once (0 = unbounded)")
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this path")

	// debugFlag enables debug logging and the FPS overlay.
	debugFlag = flag.Bool("debug", false, "log render accounting and show FPS overlay")

	windowSizeFlag = flag.Int("window-size", defaultWindowSize, "longest side of the preview window")
)
