package predictedit

import (
	"github.com/lucasb-eyer/go-colorful"
)

// BuildLut fills an n^3 LUT by evaluating fn at every lattice point.
// Outputs are clamped to [0, 1].
func BuildLut(n int, fn func(r, g, b float64) (float64, float64, float64)) *Lut {
	if n < 2 {
		n = 2
	}
	l := &Lut{Size: n, Entries: make([]float32, n*n*n*3)}
	step := 1 / float64(n-1)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				or, og, ob := fn(float64(r)*step, float64(g)*step, float64(b)*step)
				idx := (b*n*n + g*n + r) * 3
				l.Entries[idx] = float32(clamp01(or))
				l.Entries[idx+1] = float32(clamp01(og))
				l.Entries[idx+2] = float32(clamp01(ob))
			}
		}
	}
	return l
}

// IdentityLut maps every color to itself.
func IdentityLut(n int) *Lut {
	return BuildLut(n, func(r, g, b float64) (float64, float64, float64) { return r, g, b })
}

// CinematicWarmLut boosts reds, pulls blues down and adds a touch of midtone contrast.
func CinematicWarmLut(n int) *Lut {
	return BuildLut(n, func(r, g, b float64) (float64, float64, float64) {
		r = clamp01(r*1.05 + 0.02)
		b = clamp01(b*0.97 - 0.01)
		return (r-0.5)*1.05 + 0.5, (g-0.5)*1.05 + 0.5, (b-0.5)*1.05 + 0.5
	})
}

// HueRotateLut rotates hue by the given degrees while keeping HSL saturation and lightness.
func HueRotateLut(n int, degrees float64) *Lut {
	degrees = wrapDegrees(degrees)
	return BuildLut(n, func(r, g, b float64) (float64, float64, float64) {
		h, s, l := colorful.Color{R: r, G: g, B: b}.Hsl()
		h = wrapDegrees(h + degrees)
		c := colorful.Hsl(h, s, l).Clamped()
		return c.R, c.G, c.B
	})
}
