// Command herodemo renders offline frames of the hero scene.
//
// It bypasses the probe and frame loop and drives the scene renderer (or
// the static fallback) directly, writing PNG frames at a fixed simulated
// frame rate. Useful for eyeballing tier differences without a display.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/glowstack/herofx"
	"github.com/glowstack/herofx/fallback"
	"github.com/glowstack/herofx/render"
)

func main() {
	var (
		width    = flag.Int("width", 1280, "frame width")
		height   = flag.Int("height", 720, "frame height")
		outDir   = flag.String("output", "frames", "output directory")
		tierName = flag.String("tier", "high", "fidelity tier: high, medium, low")
		frames   = flag.Int("frames", 1, "number of frames to render")
		fps      = flag.Float64("fps", 60, "simulated frame rate")
		static   = flag.Bool("static", false, "render the static fallback instead")
		fontPath = flag.String("font", "", "TTF font for node labels (optional)")
	)
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	if *static {
		renderStatic(*width, *height, *outDir, *frames, *fps)
		return
	}

	tier, err := parseTier(*tierName)
	if err != nil {
		log.Fatal(err)
	}

	opts := []render.Option{}
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
		opts = append(opts, render.WithLabelFont(data))
	}

	r, err := render.New(*width, *height, herofx.Config(tier), opts...)
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}
	defer r.Close()

	for i := 0; i < *frames; i++ {
		t := float64(i) / *fps
		frame := r.Render(t)
		path := filepath.Join(*outDir, fmt.Sprintf("hero_%04d.png", i))
		if err := frame.SavePNG(path); err != nil {
			log.Fatalf("Failed to save %s: %v", path, err)
		}
	}

	log.Printf("Rendered %d %s-tier frame(s) to %s (%dx%d)\n",
		*frames, tier.String(), *outDir, *width, *height)
}

func renderStatic(width, height int, outDir string, frames int, fps float64) {
	s, err := fallback.New(width, height)
	if err != nil {
		log.Fatalf("Failed to build fallback: %v", err)
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / fps
		path := filepath.Join(outDir, fmt.Sprintf("fallback_%04d.png", i))
		if err := s.Render(t).SavePNG(path); err != nil {
			log.Fatalf("Failed to save %s: %v", path, err)
		}
	}
	log.Printf("Rendered %d fallback frame(s) to %s (%dx%d)\n", frames, outDir, width, height)
}

func parseTier(name string) (herofx.Tier, error) {
	switch name {
	case "high":
		return herofx.TierHigh, nil
	case "medium":
		return herofx.TierMedium, nil
	case "low":
		return herofx.TierLow, nil
	}
	return herofx.TierLow, fmt.Errorf("unknown tier %q (want high, medium, or low)", name)
}
