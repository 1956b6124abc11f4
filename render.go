package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/etscheelk/fractalize/fractal"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw shows the latest published canvas and the settings overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.preview == nil {
		g.preview = ebiten.NewImage(g.previewW, g.previewH)
		g.previewDirty = true
	}
	if g.previewDirty {
		img := fractal.Scale(g.sup.Current().Canvas.RGBA(), g.previewW, g.previewH)
		g.preview.WritePixels(img.Pix)
		g.previewDirty = false
	}
	screen.DrawImage(g.preview, nil)

	ebitenutil.DebugPrint(screen, g.hudText())
}

// Layout reports the preview size as the logical screen size.
func (g *Game) Layout(_, _ int) (int, int) { return g.previewW, g.previewH }

func (g *Game) hudText() string {
	var b strings.Builder
	p := g.params
	fmt.Fprintf(&b, "Points: %d (PgUp/PgDn)\n", p.IterationBudget)
	fmt.Fprintf(&b, "Rotation: %.4f (Left/Right)\n", p.RotationAngle)
	fmt.Fprintf(&b, "Theta offset: %.4f (Up/Down)\n", p.ThetaOffset)
	fmt.Fprintf(&b, "Method: %s (M)\n", p.Method)
	fmt.Fprintf(&b, "R render  D display  S save %s\n", g.cfg.OutPath)

	cur := g.sup.Current()
	fmt.Fprintf(&b, "State: %s, %d in flight\n", g.sup.State(), g.sup.Pending())
	if cur.ID > 0 {
		fmt.Fprintf(&b, "Shown: render %d, %d points in %v\n",
			cur.ID, cur.Stats.Plotted, cur.Elapsed.Round(time.Millisecond))
	}
	if g.lastErr != nil && time.Since(g.lastErrAt) < errorShowDuration {
		fmt.Fprintf(&b, "Error: %v\n", g.lastErr)
	}
	if g.profile != nil {
		fmt.Fprintf(&b, "Profiling to %s (%v)\n", g.profile.path, g.profile.Elapsed().Round(time.Second))
	}
	if g.cfg.Debug {
		fmt.Fprintf(&b, "FPS: %.1f TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	}
	return b.String()
}
