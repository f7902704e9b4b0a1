package predictedit

import (
	"io"
	"math"
	"strings"

	"github.com/vearutop/predictedit/internal/cube"
)

// ParseError is returned when a LUT source cannot be used at all.
type ParseError = cube.ParseError

// ErrNoLutSize is matched by errors.Is when the LUT_3D_SIZE directive is missing.
var ErrNoLutSize = cube.ErrNoSize

// Lut is a 3D color cube with Size^3 RGB entries in [0, 1],
// red varying fastest and blue slowest.
type Lut struct {
	Size    int
	Entries []float32
}

// ParseLut parses .cube text. A data line count other than Size^3 is logged and
// tolerated: the table is truncated or zero-padded.
func ParseLut(source string) (*Lut, error) {
	return ReadLut(strings.NewReader(source))
}

// ReadLut parses a .cube stream, see ParseLut.
func ReadLut(r io.Reader) (*Lut, error) {
	t, err := cube.Parse(r)
	if err != nil {
		return nil, err
	}
	if !t.Complete() {
		Logger().Warn("predictedit: LUT size mismatch",
			"size", t.Size, "expected", t.Expected(), "got", t.Count)
	}
	return &Lut{Size: t.Size, Entries: t.Data}, nil
}

// WriteCube encodes the LUT as .cube text.
func (l *Lut) WriteCube(w io.Writer, title string) error {
	return cube.Write(w, &cube.Table{Title: title, Size: l.Size, Data: l.Entries, Count: l.Size * l.Size * l.Size})
}

func (l *Lut) at(ix, iy, iz int) (float64, float64, float64) {
	n := l.Size
	idx := (iz*n*n + iy*n + ix) * 3
	if idx+2 >= len(l.Entries) {
		return 0, 0, 0
	}
	return float64(l.Entries[idx]), float64(l.Entries[idx+1]), float64(l.Entries[idx+2])
}

// lattice maps a [0, 1] value to its lower corner index and fractional offset.
func (l *Lut) lattice(v float64) (int, int, float64) {
	last := l.Size - 1
	x := clamp01(finite(v)) * float64(last)
	if r := math.Round(x); math.Abs(x-r) < 1e-9 {
		x = r
	}
	i0 := int(math.Floor(x))
	if i0 > last {
		i0 = last
	}
	i1 := i0 + 1
	if i1 > last {
		i1 = last
	}
	return i0, i1, x - float64(i0)
}

// Sample returns the trilinearly interpolated color for r, g, b in [0, 1].
// Inputs are clamped. Lattice points are reproduced exactly.
func (l *Lut) Sample(r, g, b float64) (float64, float64, float64) {
	if l == nil || l.Size < 1 {
		return clamp01(r), clamp01(g), clamp01(b)
	}
	x0, x1, dx := l.lattice(r)
	y0, y1, dy := l.lattice(g)
	z0, z1, dz := l.lattice(b)

	lerp := func(ar, ag, ab, br, bg, bb, t float64) (float64, float64, float64) {
		mt := 1 - t
		return mt*ar + t*br, mt*ag + t*bg, mt*ab + t*bb
	}
	corner := l.at

	c000r, c000g, c000b := corner(x0, y0, z0)
	c100r, c100g, c100b := corner(x1, y0, z0)
	c010r, c010g, c010b := corner(x0, y1, z0)
	c110r, c110g, c110b := corner(x1, y1, z0)
	c001r, c001g, c001b := corner(x0, y0, z1)
	c101r, c101g, c101b := corner(x1, y0, z1)
	c011r, c011g, c011b := corner(x0, y1, z1)
	c111r, c111g, c111b := corner(x1, y1, z1)

	// Red axis.
	c00r, c00g, c00b := lerp(c000r, c000g, c000b, c100r, c100g, c100b, dx)
	c10r, c10g, c10b := lerp(c010r, c010g, c010b, c110r, c110g, c110b, dx)
	c01r, c01g, c01b := lerp(c001r, c001g, c001b, c101r, c101g, c101b, dx)
	c11r, c11g, c11b := lerp(c011r, c011g, c011b, c111r, c111g, c111b, dx)

	// Green axis.
	c0r, c0g, c0b := lerp(c00r, c00g, c00b, c10r, c10g, c10b, dy)
	c1r, c1g, c1b := lerp(c01r, c01g, c01b, c11r, c11g, c11b, dy)

	// Blue axis.
	return lerp(c0r, c0g, c0b, c1r, c1g, c1b, dz)
}

// ApplyLut blends the LUT color with the original by strength in (0, 1].
// A nil LUT or non-positive strength returns buf itself.
func ApplyLut(buf *RasterBuffer, lut *Lut, strength float64) *RasterBuffer {
	strength = finite(strength)
	if lut == nil || strength <= 0 {
		return buf
	}
	if strength > 1 {
		strength = 1
	}
	out := buf.newLike()
	p := buf.Pix
	mt := 1 - strength
	for i := 0; i+3 < len(p); i += 4 {
		r := float64(p[i]) / 255
		g := float64(p[i+1]) / 255
		b := float64(p[i+2]) / 255
		lr, lg, lb := lut.Sample(r, g, b)
		out.Pix[i] = toByte((mt*r + strength*lr) * 255)
		out.Pix[i+1] = toByte((mt*g + strength*lg) * 255)
		out.Pix[i+2] = toByte((mt*b + strength*lb) * 255)
		out.Pix[i+3] = p[i+3]
	}
	return out
}
