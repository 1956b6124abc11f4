package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/etscheelk/fractalize/fractal"
)

// runHeadless renders cfg.Params once and exports it to cfg.OutPath.
func runHeadless(ctx context.Context, cfg Config) error {
	sup := newSupervisor(cfg, nil)
	defer sup.Close()

	start := time.Now()
	if err := sup.StartRender(cfg.Params); err != nil {
		return err
	}
	log.Printf("Rendering %dx%d: %s", cfg.Width, cfg.Height, cfg.Params)

	ctx, cancel := context.WithTimeout(ctx, headlessTimeout)
	defer cancel()
	if err := sup.Wait(ctx); err != nil {
		return fmt.Errorf("wait for render: %w", err)
	}

	r := sup.Current()
	if r.ID == 0 {
		return errors.New("render produced no result")
	}
	log.Printf("Fractal rendering complete in %v (%d points, %d dropped)",
		time.Since(start).Round(time.Millisecond), r.Stats.Plotted, r.Stats.Dropped)
	return exportResult(r, cfg.OutPath, cfg.OutSize)
}

// exportResult saves r's canvas to path, scaled to width size when size > 0.
func exportResult(r fractal.Result, path string, size int) error {
	img := r.Canvas.RGBA()
	if b := img.Bounds(); size > 0 && size != b.Dx() {
		img = fractal.Scale(img, size, scaledHeight(b, size))
	}
	if err := fractal.Save(path, img); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func scaledHeight(b image.Rectangle, width int) int {
	return max(1, width*b.Dy()/b.Dx())
}
