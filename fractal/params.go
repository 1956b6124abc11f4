// Package fractal renders a two-map chaos-game fractal into a visit-count canvas.
//
// Each iteration consumes one random bit. Both maps are evaluated from the
// current state and both results are plotted, but only one of them becomes the
// next state. The bit decides which one. Renders run on a background worker
// and are published by a Supervisor that the foreground loop polls.
package fractal

import (
	"fmt"
	"math"
	"strings"
)

// BitsPerWord is the number of decisions supplied by one random word.
const BitsPerWord = 64

// Method selects how the theta offset combines with the polar angle.
type Method uint8

const (
	// MethodDefault adds the offset: angle = y·π + offset.
	MethodDefault Method = iota
	// MethodMultiplyTheta scales by the offset: angle = y·π·offset.
	MethodMultiplyTheta
)

func (m Method) String() string {
	switch m {
	case MethodDefault:
		return "default"
	case MethodMultiplyTheta:
		return "multiply-theta"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// ParseMethod accepts the names produced by Method.String.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "":
		return MethodDefault, nil
	case "multiply-theta", "multiplytheta", "multiply":
		return MethodMultiplyTheta, nil
	}
	return 0, fmt.Errorf("fractal: unknown method %q", s)
}

// Point is a position in the normalized [-1, 1]² space.
type Point struct {
	X, Y float32
}

// Parameters describes one fractal run. It is a plain value: copies share
// nothing and the With methods return modified copies.
type Parameters struct {
	InitialPoint    Point
	RotationAngle   float32 // radians
	ThetaOffset     float32 // radians
	Method          Method
	IterationBudget uint32
}

// Library defaults.
const (
	DefaultRotation    = 1.724643921305295
	DefaultThetaOffset = 3.0466792337230033
	DefaultBudget      = 1_000_000
)

// DefaultParameters returns the stock configuration.
func DefaultParameters() Parameters {
	return Parameters{
		InitialPoint:    Point{X: 0.0, Y: 0.5},
		RotationAngle:   DefaultRotation,
		ThetaOffset:     DefaultThetaOffset,
		Method:          MethodDefault,
		IterationBudget: DefaultBudget,
	}
}

func (p Parameters) WithInitialPoint(x, y float32) Parameters {
	p.InitialPoint = Point{X: x, Y: y}
	return p
}

func (p Parameters) WithRotation(rad float32) Parameters {
	p.RotationAngle = rad
	return p
}

func (p Parameters) WithThetaOffset(rad float32) Parameters {
	p.ThetaOffset = rad
	return p
}

func (p Parameters) WithMethod(m Method) Parameters {
	p.Method = m
	return p
}

func (p Parameters) WithIterationBudget(n uint32) Parameters {
	p.IterationBudget = n
	return p
}

// Words is the number of 64-bit random words a render draws. A budget that is
// not a multiple of 64 is truncated.
func (p Parameters) Words() int {
	return int(p.IterationBudget / BitsPerWord)
}

// Plots is the number of points a render plots: two per decision bit, so
// twice the aligned budget.
func (p Parameters) Plots() int {
	return 2 * BitsPerWord * p.Words()
}

// Validate reports a misaligned budget or a non-finite float. A misaligned
// budget still renders; Validate only makes the truncation visible.
func (p Parameters) Validate() error {
	for _, v := range [...]float32{p.InitialPoint.X, p.InitialPoint.Y, p.RotationAngle, p.ThetaOffset} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrNonFinite, v)
		}
	}
	if p.Method > MethodMultiplyTheta {
		return fmt.Errorf("fractal: invalid method %v", p.Method)
	}
	if p.IterationBudget%BitsPerWord != 0 {
		return fmt.Errorf("%w: %d", ErrBudgetAlignment, p.IterationBudget)
	}
	return nil
}

func (p Parameters) String() string {
	return fmt.Sprintf("init=(%g, %g) rot=%.4f theta=%.4f method=%s points=%d",
		p.InitialPoint.X, p.InitialPoint.Y, p.RotationAngle, p.ThetaOffset, p.Method, p.IterationBudget)
}
