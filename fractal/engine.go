package fractal

import "math"

const pi32 = float32(math.Pi)

// Plotter receives every point the engine produces. Plot reports whether
// the point landed inside the target.
type Plotter interface {
	Plot(x, y float32) bool
}

// Stats is the accounting for one render pass.
type Stats struct {
	Words   int // random words drawn
	Plotted int // points handed to the plotter
	Dropped int // points the plotter rejected
}

// Engine evaluates the two maps of the system and walks the orbit.
//
// The rotation map turns (x, y) by the rotation angle. The polar map reads x
// as a radius seed and y as an angle seed. Per decision both maps are applied
// to the same state and both results are plotted. The bit picks which result
// becomes the next state; the other is plotted once and discarded.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	rotCos, rotSin float32
	offset         float32
	method         Method

	x, y float32
}

// NewEngine returns an engine positioned at p.InitialPoint.
func NewEngine(p Parameters) *Engine {
	sin, cos := math.Sincos(float64(p.RotationAngle))
	return &Engine{
		rotCos: float32(cos),
		rotSin: float32(sin),
		offset: p.ThetaOffset,
		method: p.Method,
		x:      p.InitialPoint.X,
		y:      p.InitialPoint.Y,
	}
}

// State returns the current orbit point.
func (e *Engine) State() Point {
	return Point{X: e.x, Y: e.y}
}

// Transform applies the rotation map when rotate is set and the polar map
// otherwise. It does not touch the engine state.
//
// Every product is rounded to float32 before it is added, so no platform
// fuses the arithmetic and renders are bit-identical across architectures.
func (e *Engine) Transform(x, y float32, rotate bool) (float32, float32) {
	if rotate {
		return float32(x*e.rotCos) + float32(y*e.rotSin), float32(y*e.rotCos) - float32(x*e.rotSin)
	}

	rad := float32(x*0.5) + 0.5
	var theta float32
	switch e.method {
	case MethodMultiplyTheta:
		theta = y * pi32 * e.offset
	default:
		theta = float32(y*pi32) + e.offset
	}
	sin, cos := math.Sincos(float64(theta))
	return rad * float32(cos), rad * float32(sin)
}

// Run consumes every decision left in src, plotting two points per decision.
func (e *Engine) Run(src *DecisionStream, dst Plotter) Stats {
	var st Stats
	x, y := e.x, e.y
	drawnBefore := src.Drawn()
	for word := range src.Words() {
		for i := range BitsPerWord {
			bit := word&(1<<i) != 0

			// ghost point: plotted, never kept
			ax, ay := e.Transform(x, y, !bit)
			if !dst.Plot(ax, ay) {
				st.Dropped++
			}

			bx, by := e.Transform(x, y, bit)
			if !dst.Plot(bx, by) {
				st.Dropped++
			}

			x, y = bx, by
		}
		st.Plotted += 2 * BitsPerWord
	}
	e.x, e.y = x, y
	st.Words = src.Drawn() - drawnBefore
	return st
}

// Render runs one full pass of p over dst using decisions drawn from src.
func Render(p Parameters, src WordSource, dst Plotter) Stats {
	return NewEngine(p).Run(NewDecisionStream(src, p.Words()), dst)
}
