// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/glowstack/herofx"
)

// labelPainter rasterizes node labels and caches the results.
//
// Shaping (advance widths, kerning, ligatures) goes through go-text's
// HarfBuzz implementation so labels center correctly in any script;
// rasterization uses x/image's opentype face. Glyph reordering for RTL runs
// is not performed, which is acceptable for short decorative labels.
type labelPainter struct {
	size   float64
	gtFont *gtfont.Font

	// shaperPool pools HarfbuzzShaper instances; they carry mutable buffer
	// state and are not safe for concurrent use.
	shaperPool sync.Pool

	// mu guards face (font.Face is not concurrent-safe) and cache.
	mu    sync.Mutex
	face  font.Face
	cache map[string]*renderedLabel
}

// renderedLabel is a rasterized label ready for compositing.
type renderedLabel struct {
	mask  *image.Alpha
	width float64 // shaped advance width in pixels
}

func newLabelPainter(ttf []byte, size float64) (*labelPainter, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	gtFace, err := gtfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("parse font for shaping: %w", err)
	}

	return &labelPainter{
		size:   size,
		gtFont: gtFace.Font,
		face:   face,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		cache: make(map[string]*renderedLabel),
	}, nil
}

// draw composites the label centered at cx with its top edge at top.
func (lp *labelPainter) draw(dst *herofx.Pixmap, text string, cx, top float64, col herofx.RGBA) {
	if text == "" {
		return
	}
	rl := lp.render(text)
	if rl == nil {
		return
	}
	x0 := int(cx - rl.width/2)
	y0 := int(top)
	b := rl.mask.Bounds()
	for my := b.Min.Y; my < b.Max.Y; my++ {
		for mx := b.Min.X; mx < b.Max.X; mx++ {
			a := rl.mask.AlphaAt(mx, my).A
			if a == 0 {
				continue
			}
			x, y := x0+mx, y0+my
			under := dst.GetPixel(x, y)
			dst.SetPixel(x, y, under.Lerp(col, float64(a)/255))
		}
	}
}

// render returns the cached rasterization of text, building it on first use.
func (lp *labelPainter) render(text string) *renderedLabel {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if rl, ok := lp.cache[text]; ok {
		return rl
	}

	width := lp.shapedWidth(text)

	metrics := lp.face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	height := ascent + fixedToFloat(metrics.Descent)

	mask := image.NewAlpha(image.Rect(0, 0, int(math.Ceil(width))+2, int(math.Ceil(height))+2))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: lp.face,
		Dot:  fixed.Point26_6{X: fixed.I(1), Y: floatToFixed(ascent)},
	}
	drawer.DrawString(text)

	rl := &renderedLabel{mask: mask, width: width}
	lp.cache[text] = rl
	return rl
}

// shapedWidth measures text through HarfBuzz shaping so the advance reflects
// kerning and ligatures, not a sum of per-rune widths.
func (lp *labelPainter) shapedWidth(text string) float64 {
	runes := []rune(text)

	// font.Face instances from gtfont are cheap wrappers over the
	// thread-safe *Font; create one per call.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: baseDirection(text),
		Face:      gtfont.NewFace(lp.gtFont),
		Size:      floatToFixed(lp.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hbShaper := lp.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hbShaper.Shape(input)
	lp.shaperPool.Put(hbShaper)

	return fixedToFloat(output.Advance)
}

// baseDirection resolves the paragraph base direction of text via the
// Unicode bidi algorithm.
func baseDirection(text string) di.Direction {
	p := bidi.Paragraph{}
	if _, err := p.SetString(text); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	run := ordering.Run(0)
	if run.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript inspects the runes and returns the script of the first
// non-space character. Mixed-script labels shape as the leading script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
