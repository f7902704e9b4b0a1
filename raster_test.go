package predictedit

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid3x2 has pixel values equal to their index in the red channel.
func grid3x2() *RasterBuffer {
	buf := NewRasterBuffer(3, 2)
	for i := 0; i < 6; i++ {
		buf.Pix[i*4] = uint8(i)
		buf.Pix[i*4+3] = 255
	}
	return buf
}

func reds(buf *RasterBuffer) []uint8 {
	out := make([]uint8, buf.Pixels())
	for i := range out {
		out[i] = buf.Pix[i*4]
	}
	return out
}

func TestRasterGeometry(t *testing.T) {
	src := grid3x2()

	assert.Equal(t, []uint8{2, 1, 0, 5, 4, 3}, reds(FlipHorizontal(src)))
	assert.Equal(t, []uint8{3, 4, 5, 0, 1, 2}, reds(FlipVertical(src)))
	assert.Equal(t, []uint8{5, 4, 3, 2, 1, 0}, reds(Rotate180(src)))

	r90 := Rotate90(src)
	require.Equal(t, 2, r90.Width)
	require.Equal(t, 3, r90.Height)
	assert.Equal(t, []uint8{3, 0, 4, 1, 5, 2}, reds(r90))

	r270 := Rotate270(src)
	require.Equal(t, 2, r270.Width)
	assert.Equal(t, []uint8{2, 5, 1, 4, 0, 3}, reds(r270))

	assert.Equal(t, src.Pix, Rotate270(Rotate90(src)).Pix)
	assert.Equal(t, []uint8{0, 1, 2, 3, 4, 5}, reds(src), "source mutated")
}

func TestRasterImageInterop(t *testing.T) {
	src := grid3x2()
	img := src.Image()
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, src.Pix, RasterFromImage(img).Pix)

	// Sub-image with a non-zero origin.
	sub := img.SubImage(image.Rect(1, 1, 3, 2))
	assert.Equal(t, []uint8{4, 5}, reds(RasterFromImage(sub)))

	gray := image.NewGray(image.Rect(5, 5, 7, 6))
	gray.SetGray(5, 5, color.Gray{Y: 10})
	gray.SetGray(6, 5, color.Gray{Y: 200})
	conv := RasterFromImage(gray)
	assert.Equal(t, 2, conv.Width)
	assert.Equal(t, []uint8{10, 10, 10, 255, 200, 200, 200, 255}, conv.Pix)

	assert.Nil(t, RasterFromImage(nil))
}

func TestRasterValid(t *testing.T) {
	assert.True(t, NewRasterBuffer(2, 2).Valid())
	assert.False(t, NewRasterBuffer(0, 2).Valid())
	assert.False(t, (&RasterBuffer{Width: 2, Height: 2, Pix: make([]uint8, 15)}).Valid())

	var nilBuf *RasterBuffer
	assert.False(t, nilBuf.Valid())
	assert.Nil(t, nilBuf.Clone())
}
