// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/glowstack/herofx"
	"github.com/glowstack/herofx/internal/filter"
)

const (
	// dofBlurRadius is the gaussian sigma for the fully out-of-focus plane.
	dofBlurRadius = 3.0

	// dofFocusRange is the camera-space distance over which sharpness falls
	// off to fully blurred. Geometry at the focal distance stays sharp.
	dofFocusRange = 25.0
)

// depthOfField blends each pixel between the sharp frame and a blurred copy
// based on its distance from the focal plane. The circle of confusion grows
// linearly with depth distance and saturates at dofFocusRange.
//
// No fidelity tier currently enables this effect; it is kept behind the
// DepthOfFieldEnabled flag for hosts that force their own configuration.
func (r *SceneRenderer) depthOfField() {
	blurred := herofx.NewPixmap(r.width, r.height)
	filter.Blur(r.target, blurred, dofBlurRadius)

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			d := float64(r.depth[y*r.width+x])
			coc := (d - focalLength) / dofFocusRange
			if coc < 0 {
				coc = -coc
			}
			if coc > 1 {
				coc = 1
			}
			if coc == 0 {
				continue
			}
			sharp := r.target.GetPixel(x, y)
			soft := blurred.GetPixel(x, y)
			r.target.SetPixel(x, y, sharp.Lerp(soft, coc))
		}
	}
}
