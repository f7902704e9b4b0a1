package predictedit

import (
	"testing"

	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
)

func TestLowResSize(t *testing.T) {
	for _, tc := range []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1000, 500, 256, 256, 128},
		{500, 1000, 256, 128, 256},
		{100, 50, 256, 100, 50},
		{5000, 10, 256, 256, 1},
		{3, 3, 0, 3, 3},
		{1023, 767, 256, 256, 192},
	} {
		w, h := LowResSize(tc.w, tc.h, tc.max)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("LowResSize(%d, %d, %d) = %dx%d, want %dx%d", tc.w, tc.h, tc.max, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestResamplersKeepUniformColor(t *testing.T) {
	src := NewFilledRaster(37, 23, 90, 160, 30, 255)

	resamplers := map[string]Resampler{
		"nfnt": NfntResampler{Filter: resize.Bilinear},
	}
	for name, interp := range interpolationNames {
		resamplers[name] = KernelResampler{Interpolation: interp, Workers: 2}
	}

	for name, r := range resamplers {
		for _, size := range [][2]int{{10, 7}, {37, 23}, {50, 30}} {
			out := r.Resample(src, size[0], size[1])
			if out.Width != size[0] || out.Height != size[1] || !out.Valid() {
				t.Fatalf("%s: unexpected size %dx%d", name, out.Width, out.Height)
			}
			for i := 0; i < len(out.Pix); i += 4 {
				for c, want := range []uint8{90, 160, 30, 255} {
					if d := int(out.Pix[i+c]) - int(want); d < -1 || d > 1 {
						t.Fatalf("%s %v: pixel %d channel %d = %d, want %d", name, size, i/4, c, out.Pix[i+c], want)
					}
				}
			}
		}
	}
}

func TestDownscale(t *testing.T) {
	src := gradientRaster(400, 300)
	low := Downscale(KernelResampler{Interpolation: InterpolationBilinear}, src, 100)
	assert.Equal(t, 100, low.Width)
	assert.Equal(t, 75, low.Height)

	same := Downscale(KernelResampler{}, src, 1000)
	assert.NotSame(t, src, same)
	assert.Equal(t, src.Pix, same.Pix)
}

func TestParseInterpolation(t *testing.T) {
	i, err := ParseInterpolation("Lanczos3")
	assert.NoError(t, err)
	assert.Equal(t, InterpolationLanczos3, i)

	_, err = ParseInterpolation("sharp")
	assert.Error(t, err)
}

func TestParallelFor(t *testing.T) {
	hits := make([]int, 1000)
	parallelFor(len(hits), 0, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i]++
		}
	})
	for i, n := range hits {
		if n != 1 {
			t.Fatalf("index %d visited %d times", i, n)
		}
	}

	called := false
	parallelFor(0, 4, func(int, int) { called = true })
	assert.False(t, called)
}
