package fractal

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

// wordSeq returns its words in order, wrapping around.
type wordSeq struct {
	words []uint64
	calls int
}

func (s *wordSeq) Uint64() uint64 {
	w := s.words[s.calls%len(s.words)]
	s.calls++
	return w
}

func constWords(w uint64) *wordSeq {
	return &wordSeq{words: []uint64{w}}
}

// countingSource counts draws from an underlying source.
type countingSource struct {
	src   WordSource
	calls int
}

func (c *countingSource) Uint64() uint64 {
	c.calls++
	return c.src.Uint64()
}

type panicSource struct{}

func (panicSource) Uint64() uint64 { panic("source exploded") }

// recorder keeps every plotted point and accepts all of them.
type recorder struct {
	points []Point
}

func (r *recorder) Plot(x, y float32) bool {
	r.points = append(r.points, Point{X: x, Y: y})
	return true
}

// manualPool holds submitted functions until the test runs them.
type manualPool struct {
	mu    sync.Mutex
	fns   []func()
	fail  error
	calls int
}

func (p *manualPool) Go(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail != nil {
		return p.fail
	}
	p.fns = append(p.fns, fn)
	return nil
}

// run executes the i-th submitted function on the calling goroutine.
func (p *manualPool) run(t *testing.T, i int) {
	t.Helper()
	p.mu.Lock()
	if i >= len(p.fns) {
		p.mu.Unlock()
		t.Fatalf("no submitted task %d (have %d)", i, len(p.fns))
	}
	fn := p.fns[i]
	p.mu.Unlock()
	fn()
}

var errNoCapacity = errors.New("no capacity")

func sameImage(t *testing.T, want *image.RGBA, got image.Image) {
	t.Helper()
	if want.Bounds() != got.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			w := want.RGBAAt(x, y)
			g := color.RGBAModel.Convert(got.At(x, y)).(color.RGBA)
			if w != g {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func testParams() Parameters {
	return DefaultParameters().WithIterationBudget(64 * 50)
}
