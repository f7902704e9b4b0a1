package predictedit

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Luma weights (BT.601).
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// DefaultSCurveStrength is the cubic strength used by ToneForScoring.
const DefaultSCurveStrength = 0.4

// ToneFunc renders a candidate on the low-resolution buffer for scoring.
// It returns the toned image and its curved luminance (one value per pixel).
type ToneFunc func(low *RasterBuffer, c Candidate) (*RasterBuffer, []float64)

// Brightness adds delta*255 to each color channel.
func Brightness(buf *RasterBuffer, delta float64) *RasterBuffer {
	shift := finite(delta) * 255
	return mapRGB(buf, func(v float64) float64 { return v + shift })
}

// Contrast scales each color channel around 128 by 1+delta.
func Contrast(buf *RasterBuffer, delta float64) *RasterBuffer {
	factor := 1 + finite(delta)
	return mapRGB(buf, func(v float64) float64 { return (v-128)*factor + 128 })
}

// Saturation moves each channel away from (or towards) the pixel luma by 1+delta.
// The delta is not clamped: -1 yields grayscale.
func Saturation(buf *RasterBuffer, delta float64) *RasterBuffer {
	factor := 1 + finite(delta)
	out := buf.newLike()
	p := buf.Pix
	for i := 0; i+3 < len(p); i += 4 {
		r, g, b := float64(p[i]), float64(p[i+1]), float64(p[i+2])
		y := lumaR*r + lumaG*g + lumaB*b
		out.Pix[i] = toByte(y + (r-y)*factor)
		out.Pix[i+1] = toByte(y + (g-y)*factor)
		out.Pix[i+2] = toByte(y + (b-y)*factor)
		out.Pix[i+3] = p[i+3]
	}
	return out
}

// Temperature warms (positive) or cools (negative) the image by shifting red and blue in opposite directions.
func Temperature(buf *RasterBuffer, value float64) *RasterBuffer {
	shift := finite(value) * 0.1 * 255
	out := buf.newLike()
	p := buf.Pix
	for i := 0; i+3 < len(p); i += 4 {
		out.Pix[i] = toByte(float64(p[i]) + shift)
		out.Pix[i+1] = p[i+1]
		out.Pix[i+2] = toByte(float64(p[i+2]) - shift)
		out.Pix[i+3] = p[i+3]
	}
	return out
}

// HueShift rotates the hue of every pixel by the given number of degrees.
func HueShift(buf *RasterBuffer, degrees float64) *RasterBuffer {
	degrees = wrapDegrees(degrees)
	if degrees == 0 {
		return buf.Clone()
	}
	out := buf.newLike()
	p := buf.Pix
	for i := 0; i+3 < len(p); i += 4 {
		c := colorful.Color{R: float64(p[i]) / 255, G: float64(p[i+1]) / 255, B: float64(p[i+2]) / 255}
		h, s, v := c.Hsv()
		h = wrapDegrees(h + degrees)
		shifted := colorful.Hsv(h, s, v).Clamped()
		out.Pix[i] = toByte(shifted.R * 255)
		out.Pix[i+1] = toByte(shifted.G * 255)
		out.Pix[i+2] = toByte(shifted.B * 255)
		out.Pix[i+3] = p[i+3]
	}
	return out
}

// Opacity scales the alpha channel by factor.
func Opacity(buf *RasterBuffer, factor float64) *RasterBuffer {
	factor = clamp(finite(factor), 0, 1)
	out := buf.Clone()
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = toByte(float64(out.Pix[i]) * factor)
	}
	return out
}

// Luminance returns the linear luma of every pixel in [0, 1].
func Luminance(buf *RasterBuffer) []float64 {
	out := make([]float64, buf.Pixels())
	p := buf.Pix
	for j := range out {
		i := j * 4
		out[j] = lumaR*float64(p[i])/255 + lumaG*float64(p[i+1])/255 + lumaB*float64(p[i+2])/255
	}
	return out
}

// SCurve applies a soft cubic contrast curve centered at 0.5: x' = x + strength*x^3.
// Values are clamped to [0, 1] on input and output.
func SCurve(lum []float64, strength float64) []float64 {
	out := make([]float64, len(lum))
	for i, v := range lum {
		x := clamp01(finite(v)) - 0.5
		out[i] = clamp01(0.5 + x + strength*x*x*x)
	}
	return out
}

// ToneForScoring applies brightness then contrast to a low-resolution buffer and returns
// the result with its S-curved luminance. It is used only for scoring; delivered images
// never go through the S-curve.
func ToneForScoring(low *RasterBuffer, brightnessDelta, contrastDelta float64) (*RasterBuffer, []float64) {
	toned := Contrast(Brightness(low, brightnessDelta), contrastDelta)
	return toned, SCurve(Luminance(toned), DefaultSCurveStrength)
}

// HeuristicTone is the default ToneFunc: ToneForScoring, plus saturation when the
// candidate carries a non-zero saturation delta.
func HeuristicTone(low *RasterBuffer, c Candidate) (*RasterBuffer, []float64) {
	if c.Saturation == 0 {
		return ToneForScoring(low, c.Brightness, c.Contrast)
	}
	toned := Saturation(Contrast(Brightness(low, c.Brightness), c.Contrast), c.Saturation)
	return toned, SCurve(Luminance(toned), DefaultSCurveStrength)
}

func mapRGB(buf *RasterBuffer, fn func(v float64) float64) *RasterBuffer {
	out := buf.newLike()
	p := buf.Pix
	for i := 0; i+3 < len(p); i += 4 {
		out.Pix[i] = toByte(fn(float64(p[i])))
		out.Pix[i+1] = toByte(fn(float64(p[i+1])))
		out.Pix[i+2] = toByte(fn(float64(p[i+2])))
		out.Pix[i+3] = p[i+3]
	}
	return out
}
