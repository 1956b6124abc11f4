package main

import (
	"log"

	"github.com/etscheelk/fractalize/fractal"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleControls processes the action and settings hotkeys.
func (g *Game) handleControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.startRender()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.previewDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.save()
	}

	p := g.params
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		p = p.WithRotation(nudgeAngle(p.RotationAngle, -angleStep))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		p = p.WithRotation(nudgeAngle(p.RotationAngle, angleStep))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		p = p.WithThetaOffset(nudgeAngle(p.ThetaOffset, -angleStep))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		p = p.WithThetaOffset(nudgeAngle(p.ThetaOffset, angleStep))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		p = p.WithIterationBudget(stepPoints(p.IterationBudget, false))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		p = p.WithIterationBudget(stepPoints(p.IterationBudget, true))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		p = p.WithMethod(toggleMethod(p.Method))
	}
	g.setParams(p)
}

// setParams records p as the settings for the next render and logs changes.
func (g *Game) setParams(p fractal.Parameters) {
	if p == g.params {
		return
	}
	g.params = p
	log.Printf("Settings changed: %s", p)
}

// nudgeAngle moves a by delta, clamped to [-π, π].
func nudgeAngle(a, delta float32) float32 {
	return min(max(a+delta, -maxAngle), maxAngle)
}

// stepPoints doubles or halves n within [minPoints, maxPoints], keeping it a
// multiple of the word size.
func stepPoints(n uint32, up bool) uint32 {
	next := uint64(n) / 2
	if up {
		next = uint64(n) * 2
	}
	next = min(max(next, minPoints), maxPoints)
	return alignPoints(next)
}

func toggleMethod(m fractal.Method) fractal.Method {
	if m == fractal.MethodDefault {
		return fractal.MethodMultiplyTheta
	}
	return fractal.MethodDefault
}
