package filter

import (
	"math"
	"testing"

	"github.com/glowstack/herofx"
)

func TestGaussianKernelNormalized(t *testing.T) {
	for _, radius := range []float64{0.5, 1, 2, 5} {
		kernel := GaussianKernel(radius)
		if len(kernel)%2 != 1 {
			t.Errorf("radius %v: kernel size %d not odd", radius, len(kernel))
		}
		var sum float64
		for _, w := range kernel {
			sum += float64(w)
		}
		if math.Abs(sum-1) > 1e-4 {
			t.Errorf("radius %v: kernel sums to %v, want 1", radius, sum)
		}
	}
}

func TestGaussianKernelIdentity(t *testing.T) {
	kernel := GaussianKernel(0)
	if len(kernel) != 1 || kernel[0] != 1 {
		t.Errorf("GaussianKernel(0) = %v, want [1]", kernel)
	}
}

func TestBlurSpreadsEnergy(t *testing.T) {
	src := herofx.NewPixmap(21, 21)
	dst := herofx.NewPixmap(21, 21)
	src.SetPixel(10, 10, herofx.RGBA{R: 1, G: 1, B: 1, A: 1})

	Blur(src, dst, 2)

	center := dst.GetPixel(10, 10)
	neighbor := dst.GetPixel(12, 10)
	if center.R >= 1 {
		t.Errorf("center untouched by blur: %v", center)
	}
	if neighbor.R <= 0 {
		t.Error("blur did not spread energy to neighbors")
	}
	if neighbor.R >= center.R {
		t.Errorf("neighbor (%v) brighter than center (%v)", neighbor.R, center.R)
	}
}

func TestBlurZeroRadiusCopies(t *testing.T) {
	src := herofx.NewPixmap(4, 4)
	dst := herofx.NewPixmap(4, 4)
	src.SetPixel(1, 1, herofx.RGBA{R: 1, A: 1})

	Blur(src, dst, 0)
	if got := dst.GetPixel(1, 1); got.R == 0 {
		t.Error("zero-radius blur did not copy source")
	}
}

func TestBlurMismatchedSizesIgnored(t *testing.T) {
	src := herofx.NewPixmap(4, 4)
	dst := herofx.NewPixmap(8, 8)
	Blur(src, dst, 2) // must not panic
	Blur(nil, dst, 2)
	Blur(src, nil, 2)
}

func TestBrightPass(t *testing.T) {
	src := herofx.NewPixmap(2, 1)
	dst := herofx.NewPixmap(2, 1)
	src.SetPixel(0, 0, herofx.RGBA{R: 1, G: 1, B: 1, A: 1})       // bright
	src.SetPixel(1, 0, herofx.RGBA{R: 0.1, G: 0.1, B: 0.1, A: 1}) // dim

	BrightPass(src, dst, 0.5)

	if got := dst.GetPixel(0, 0); got.R == 0 {
		t.Error("bright pixel removed by bright pass")
	}
	if got := dst.GetPixel(1, 0); got.R != 0 || got.A != 0 {
		t.Errorf("dim pixel survived bright pass: %v", got)
	}
}

func TestAddScaledSaturates(t *testing.T) {
	dst := herofx.NewPixmap(1, 1)
	src := herofx.NewPixmap(1, 1)
	dst.SetPixel(0, 0, herofx.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1})
	src.SetPixel(0, 0, herofx.RGBA{R: 0.8, G: 0.8, B: 0.8, A: 1})

	AddScaled(dst, src, 1.0)
	if got := dst.GetPixel(0, 0); got.R != 1 {
		t.Errorf("AddScaled result %v, want saturated white", got)
	}
}
