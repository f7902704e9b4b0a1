package predictedit

import (
	"image"
	"image/draw"
)

// RasterBuffer is an 8-bit RGBA image with interleaved, non-premultiplied channels.
// Every transform in this package returns a new buffer and leaves its input untouched.
type RasterBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // R,G,B,A per pixel, len = Width*Height*4
}

// NewRasterBuffer allocates a zeroed buffer of the given size.
func NewRasterBuffer(w, h int) *RasterBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &RasterBuffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// NewFilledRaster allocates a buffer with every pixel set to the given color.
func NewFilledRaster(w, h int, r, g, b, a uint8) *RasterBuffer {
	buf := NewRasterBuffer(w, h)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = a
	}
	return buf
}

// Valid reports whether the pixel slice matches the declared dimensions.
func (b *RasterBuffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Pix) == b.Width*b.Height*4
}

// Pixels returns the number of pixels.
func (b *RasterBuffer) Pixels() int {
	if b == nil {
		return 0
	}
	return b.Width * b.Height
}

// Clone returns a deep copy.
func (b *RasterBuffer) Clone() *RasterBuffer {
	if b == nil {
		return nil
	}
	return &RasterBuffer{Width: b.Width, Height: b.Height, Pix: append([]uint8(nil), b.Pix...)}
}

func (b *RasterBuffer) newLike() *RasterBuffer {
	return &RasterBuffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
}

// Image wraps a copy of the buffer into an *image.NRGBA.
func (b *RasterBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// RasterFromImage converts any image into a RasterBuffer.
func RasterFromImage(img image.Image) *RasterBuffer {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewRasterBuffer(w, h)

	origin := bounds.Min
	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(src, src.Bounds(), img, bounds.Min, draw.Src)
		origin = image.Point{}
	}
	rowSize := w * 4
	for y := 0; y < h; y++ {
		off := src.PixOffset(origin.X, origin.Y+y)
		copy(out.Pix[y*rowSize:(y+1)*rowSize], src.Pix[off:off+rowSize])
	}
	return out
}

// FlipHorizontal mirrors the buffer left to right.
func FlipHorizontal(buf *RasterBuffer) *RasterBuffer {
	out := buf.newLike()
	w := buf.Width
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 4
			dst := (y*w + (w - 1 - x)) * 4
			copy(out.Pix[dst:dst+4], buf.Pix[src:src+4])
		}
	}
	return out
}

// FlipVertical mirrors the buffer top to bottom.
func FlipVertical(buf *RasterBuffer) *RasterBuffer {
	out := buf.newLike()
	rowSize := buf.Width * 4
	for y := 0; y < buf.Height; y++ {
		dy := buf.Height - 1 - y
		copy(out.Pix[dy*rowSize:(dy+1)*rowSize], buf.Pix[y*rowSize:(y+1)*rowSize])
	}
	return out
}

// Rotate90 rotates the buffer 90 degrees clockwise.
func Rotate90(buf *RasterBuffer) *RasterBuffer {
	w, h := buf.Width, buf.Height
	out := NewRasterBuffer(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 4
			dst := (x*h + (h - 1 - y)) * 4
			copy(out.Pix[dst:dst+4], buf.Pix[src:src+4])
		}
	}
	return out
}

// Rotate180 rotates the buffer by 180 degrees.
func Rotate180(buf *RasterBuffer) *RasterBuffer {
	out := buf.newLike()
	n := buf.Pixels()
	for i := 0; i < n; i++ {
		copy(out.Pix[(n-1-i)*4:(n-i)*4], buf.Pix[i*4:i*4+4])
	}
	return out
}

// Rotate270 rotates the buffer 90 degrees counter-clockwise.
func Rotate270(buf *RasterBuffer) *RasterBuffer {
	w, h := buf.Width, buf.Height
	out := NewRasterBuffer(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 4
			dst := ((w-1-x)*h + y) * 4
			copy(out.Pix[dst:dst+4], buf.Pix[src:src+4])
		}
	}
	return out
}
