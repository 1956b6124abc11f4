package fractal

import (
	"fmt"
	"image"
)

const (
	channels = 4
	opaque   = 0xff
)

// Canvas is a grid of RGBA8 visit counters. Plot increments R, G and B of
// the hit pixel, saturating at 255. A is left alone until Finalize.
//
// A Canvas has exactly one owner at a time and is not safe for concurrent use.
type Canvas struct {
	width  int
	height int
	pix    []uint8 // row-major RGBA
}

// NewCanvas allocates a zeroed canvas.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("fractal: invalid canvas size %dx%d", width, height))
	}
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*channels),
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Pix returns the backing RGBA bytes without copying.
func (c *Canvas) Pix() []uint8 { return c.pix }

// Plot maps a normalized point to a cell and bumps its visit channels.
// The mapping truncates toward zero, so (-1, 0) still lands in cell 0.
// Anything else outside the grid, NaN included, is dropped.
func (c *Canvas) Plot(x, y float32) bool {
	// Explicit float32 rounding keeps the mapping unfused on every platform.
	r := (float32(y*0.5) + 0.5) * float32(c.height)
	col := (float32(x*0.5) + 0.5) * float32(c.width)
	if !(r > -1 && r < float32(c.height)) || !(col > -1 && col < float32(c.width)) {
		return false
	}

	i := (int(r)*c.width + int(col)) * channels
	p := c.pix[i : i+3 : i+3]
	if p[0] < opaque {
		p[0]++
	}
	if p[1] < opaque {
		p[1]++
	}
	if p[2] < opaque {
		p[2]++
	}
	return true
}

// Finalize forces every pixel's alpha to opaque. Run it once after a pass.
func (c *Canvas) Finalize() {
	for i := channels - 1; i < len(c.pix); i += channels {
		c.pix[i] = opaque
	}
}

// Clear zeroes every channel.
func (c *Canvas) Clear() {
	clear(c.pix)
}

// At returns the four channels of the pixel at (col, row).
func (c *Canvas) At(col, row int) [4]uint8 {
	i := (row*c.width + col) * channels
	return [4]uint8(c.pix[i : i+channels])
}

// Visits returns the visit count of the pixel at (col, row).
func (c *Canvas) Visits(col, row int) uint8 {
	return c.pix[(row*c.width+col)*channels]
}

// RGBA exposes the canvas as an image sharing the same pixels.
func (c *Canvas) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    c.pix,
		Stride: c.width * channels,
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}
