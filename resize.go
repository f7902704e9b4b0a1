package predictedit

import (
	"fmt"
	"math"
	"strings"

	"github.com/nfnt/resize"
)

// DefaultLowResMaxSize is the longer edge of the low-resolution working buffer.
const DefaultLowResMaxSize = 256

// Interpolation selects the built-in interpolation mode.
type Interpolation int

const (
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3
)

var interpolationNames = map[string]Interpolation{
	"nearest":  InterpolationNearest,
	"bilinear": InterpolationBilinear,
	"bicubic":  InterpolationBicubic,
	"mitchell": InterpolationMitchellNetravali,
	"lanczos2": InterpolationLanczos2,
	"lanczos3": InterpolationLanczos3,
}

// ParseInterpolation resolves names like "bilinear" or "lanczos3".
func ParseInterpolation(name string) (Interpolation, error) {
	if i, ok := interpolationNames[strings.ToLower(name)]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

// LowResSize scales w x h so that the longer edge fits maxSize, never upscaling.
// Both dimensions are rounded and at least 1.
func LowResSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 {
		maxSize = DefaultLowResMaxSize
	}
	longer := max(w, h)
	if longer <= 0 {
		return max(w, 1), max(h, 1)
	}
	scale := math.Min(1, float64(maxSize)/float64(longer))
	lw := int(math.Round(float64(w) * scale))
	lh := int(math.Round(float64(h) * scale))
	return max(lw, 1), max(lh, 1)
}

// Resampler resizes a raster to exact dimensions.
type Resampler interface {
	Resample(src *RasterBuffer, w, h int) *RasterBuffer
}

// KernelResampler is a separable kernel resampler with rows spread over workers.
type KernelResampler struct {
	Interpolation Interpolation
	// Workers limits parallel rows, 0 means GOMAXPROCS.
	Workers int
}

// Resample implements Resampler.
func (k KernelResampler) Resample(src *RasterBuffer, w, h int) *RasterBuffer {
	if w == src.Width && h == src.Height {
		return src.Clone()
	}
	if k.Interpolation == InterpolationNearest {
		return resizeNearest(src, w, h)
	}
	return resampleRaster(src, w, h, kernelForInterpolation(k.Interpolation), k.Workers)
}

// NfntResampler delegates to github.com/nfnt/resize.
type NfntResampler struct {
	Filter resize.InterpolationFunction
}

// Resample implements Resampler.
func (n NfntResampler) Resample(src *RasterBuffer, w, h int) *RasterBuffer {
	if w == src.Width && h == src.Height {
		return src.Clone()
	}
	return RasterFromImage(resize.Resize(uint(w), uint(h), src.Image(), n.Filter))
}

// Downscale resizes src to its low-resolution working size.
func Downscale(r Resampler, src *RasterBuffer, maxSize int) *RasterBuffer {
	w, h := LowResSize(src.Width, src.Height, maxSize)
	return r.Resample(src, w, h)
}
