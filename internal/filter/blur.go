// Package filter implements the pixel-level kernels behind the post-effects:
// separable Gaussian blur, bright-pass extraction, and additive compositing.
package filter

import (
	"math"

	"github.com/glowstack/herofx"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for the given
// radius (used as sigma). The kernel size 2*ceil(3σ)+1 covers 99.7% of the
// distribution. For radius <= 0 the identity kernel [1] is returned.
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}

	halfSize := int(math.Ceil(radius * 3))
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	twoSigmaSq := 2 * radius * radius
	var sum float64
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// Blur applies a separable Gaussian blur over the whole pixmap: a
// horizontal pass into a temporary float buffer, then a vertical pass back
// into dst. src and dst must have identical dimensions; dst may be src.
func Blur(src, dst *herofx.Pixmap, radius float64) {
	if src == nil || dst == nil || src.Width() != dst.Width() || src.Height() != dst.Height() {
		return
	}
	if radius <= 0 {
		if src != dst {
			copy(dst.Data(), src.Data())
		}
		return
	}

	width, height := src.Width(), src.Height()
	kernel := GaussianKernel(radius)
	half := len(kernel) / 2
	temp := make([]float32, width*height*4)
	srcData := src.Data()

	// Horizontal pass with edge extension.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32
			for k := range kernel {
				kx := x + k - half
				if kx < 0 {
					kx = 0
				} else if kx >= width {
					kx = width - 1
				}
				i := (y*width + kx) * 4
				w := kernel[k]
				r += float32(srcData[i+0]) * w
				g += float32(srcData[i+1]) * w
				b += float32(srcData[i+2]) * w
				a += float32(srcData[i+3]) * w
			}
			i := (y*width + x) * 4
			temp[i+0], temp[i+1], temp[i+2], temp[i+3] = r, g, b, a
		}
	}

	// Vertical pass.
	dstData := dst.Data()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32
			for k := range kernel {
				ky := y + k - half
				if ky < 0 {
					ky = 0
				} else if ky >= height {
					ky = height - 1
				}
				i := (ky*width + x) * 4
				w := kernel[k]
				r += temp[i+0] * w
				g += temp[i+1] * w
				b += temp[i+2] * w
				a += temp[i+3] * w
			}
			i := (y*width + x) * 4
			dstData[i+0] = clampUint8(r)
			dstData[i+1] = clampUint8(g)
			dstData[i+2] = clampUint8(b)
			dstData[i+3] = clampUint8(a)
		}
	}
}

// BrightPass copies into dst only the pixels of src whose luminance exceeds
// threshold (0..1); everything else becomes transparent black. This is the
// extraction stage of bloom.
func BrightPass(src, dst *herofx.Pixmap, threshold float64) {
	if src == nil || dst == nil || src.Width() != dst.Width() || src.Height() != dst.Height() {
		return
	}
	cut := float32(threshold * 255)
	srcData, dstData := src.Data(), dst.Data()
	for i := 0; i < len(srcData); i += 4 {
		// Rec. 601 luma weights.
		luma := 0.299*float32(srcData[i]) + 0.587*float32(srcData[i+1]) + 0.114*float32(srcData[i+2])
		if luma >= cut {
			dstData[i+0] = srcData[i+0]
			dstData[i+1] = srcData[i+1]
			dstData[i+2] = srcData[i+2]
			dstData[i+3] = srcData[i+3]
		} else {
			dstData[i+0] = 0
			dstData[i+1] = 0
			dstData[i+2] = 0
			dstData[i+3] = 0
		}
	}
}

// AddScaled additively composites src onto dst, scaling src by intensity
// and saturating per channel. This is the final stage of bloom.
func AddScaled(dst, src *herofx.Pixmap, intensity float64) {
	if src == nil || dst == nil || src.Width() != dst.Width() || src.Height() != dst.Height() {
		return
	}
	srcData, dstData := src.Data(), dst.Data()
	scale := float32(intensity)
	for i := range srcData {
		sum := float32(dstData[i]) + float32(srcData[i])*scale
		dstData[i] = clampUint8(sum)
	}
}

func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
