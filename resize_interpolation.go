package predictedit

import (
	"math"
	"sync"
)

type resampleWeights struct {
	coeffs       []float32
	start        []int
	filterLength int
}

type kernelDef struct {
	interp Interpolation
	taps   int
	kernel func(float64) float64
}

type weightsKey struct {
	src    int
	dst    int
	interp Interpolation
}

var weightsCache sync.Map

var float32Pool = sync.Pool{
	New: func() any {
		buf := make([]float32, 0)
		return &buf
	},
}

func kernelForInterpolation(interp Interpolation) kernelDef {
	switch interp {
	case InterpolationBilinear:
		return kernelDef{interp: InterpolationBilinear, taps: 2, kernel: linearKernel}
	case InterpolationBicubic:
		return kernelDef{interp: InterpolationBicubic, taps: 4, kernel: cubicKernel}
	case InterpolationMitchellNetravali:
		return kernelDef{interp: InterpolationMitchellNetravali, taps: 4, kernel: mitchellNetravaliKernel}
	case InterpolationLanczos2:
		return kernelDef{interp: InterpolationLanczos2, taps: 4, kernel: lanczos2Kernel}
	case InterpolationLanczos3:
		return kernelDef{interp: InterpolationLanczos3, taps: 6, kernel: lanczos3Kernel}
	default:
		return kernelDef{interp: InterpolationNearest, taps: 2, kernel: nearestKernel}
	}
}

// resizeNearest picks the source pixel under each destination pixel.
func resizeNearest(src *RasterBuffer, w, h int) *RasterBuffer {
	dst := NewRasterBuffer(w, h)
	for y := 0; y < h; y++ {
		sy := y * src.Height / h
		for x := 0; x < w; x++ {
			sx := x * src.Width / w
			so := (sy*src.Width + sx) * 4
			do := (y*w + x) * 4
			copy(dst.Pix[do:do+4], src.Pix[so:so+4])
		}
	}
	return dst
}

// resampleRaster runs a separable two-pass convolution: horizontal into a float
// buffer, then vertical into bytes. Rows of each pass are spread over workers.
func resampleRaster(src *RasterBuffer, dstW, dstH int, def kernelDef, workers int) *RasterBuffer {
	srcW, srcH := src.Width, src.Height
	scaleX := float64(srcW) / float64(dstW)
	scaleY := float64(srcH) / float64(dstH)
	wx := getWeights(srcW, dstW, def, scaleX)
	wy := getWeights(srcH, dstH, def, scaleY)

	stride := srcW * 4
	temp := getFloat32(dstW * srcH * 4)
	parallelFor(srcH, workers, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*stride:]
			outRow := temp[y*dstW*4:]
			for x := 0; x < dstW; x++ {
				s := wx.start[x]
				base := x * wx.filterLength
				var r, g, b, a float32
				for i := 0; i < wx.filterLength; i++ {
					xi := clampIndex(s+i, srcW)
					off := xi * 4
					w := wx.coeffs[base+i]
					r += float32(row[off+0]) * w
					g += float32(row[off+1]) * w
					b += float32(row[off+2]) * w
					a += float32(row[off+3]) * w
				}
				outOff := x * 4
				outRow[outOff+0] = r
				outRow[outOff+1] = g
				outRow[outOff+2] = b
				outRow[outOff+3] = a
			}
		}
	})

	out := NewRasterBuffer(dstW, dstH)
	parallelFor(dstH, workers, func(start, end int) {
		for y := start; y < end; y++ {
			s := wy.start[y]
			base := y * wy.filterLength
			row := out.Pix[y*dstW*4:]
			for x := 0; x < dstW; x++ {
				var r, g, b, a float32
				for i := 0; i < wy.filterLength; i++ {
					yi := clampIndex(s+i, srcH)
					off := (yi*dstW + x) * 4
					w := wy.coeffs[base+i]
					r += temp[off+0] * w
					g += temp[off+1] * w
					b += temp[off+2] * w
					a += temp[off+3] * w
				}
				outOff := x * 4
				row[outOff+0] = clampToByte(r)
				row[outOff+1] = clampToByte(g)
				row[outOff+2] = clampToByte(b)
				row[outOff+3] = clampToByte(a)
			}
		}
	})

	putFloat32(temp)
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func getWeights(src, dst int, def kernelDef, scale float64) resampleWeights {
	if src <= 0 || dst <= 0 {
		return resampleWeights{}
	}
	key := weightsKey{src: src, dst: dst, interp: def.interp}
	if cached, ok := weightsCache.Load(key); ok {
		return cached.(resampleWeights)
	}
	filterLength := def.taps * int(math.Max(math.Ceil(scale), 1))
	filterFactor := math.Min(1.0/scale, 1.0)
	coeffs := make([]float32, dst*filterLength)
	start := make([]int, dst)
	for y := 0; y < dst; y++ {
		interpX := scale*(float64(y)+0.5) - 0.5
		start[y] = int(interpX) - filterLength/2 + 1
		interpX -= float64(start[y])
		base := y * filterLength
		var sum float64
		for i := 0; i < filterLength; i++ {
			in := (interpX - float64(i)) * filterFactor
			w := def.kernel(in)
			coeffs[base+i] = float32(w)
			sum += w
		}
		if sum != 0 {
			inv := float32(1.0 / sum)
			for i := 0; i < filterLength; i++ {
				coeffs[base+i] *= inv
			}
		}
	}
	weights := resampleWeights{coeffs: coeffs, start: start, filterLength: filterLength}
	weightsCache.Store(key, weights)
	return weights
}

func getFloat32(n int) []float32 {
	bufPtr := float32Pool.Get().(*[]float32)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func putFloat32(buf []float32) {
	if buf == nil {
		return
	}
	clear(buf)
	buf = buf[:0]
	float32Pool.Put(&buf)
}

func nearestKernel(in float64) float64 {
	if in >= -0.5 && in < 0.5 {
		return 1
	}
	return 0
}

func linearKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return 1 - in
	}
	return 0
}

func cubicKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return in*in*(1.5*in-2.5) + 1.0
	}
	if in <= 2 {
		return in*(in*(2.5-0.5*in)-4.0) + 2.0
	}
	return 0
}

func mitchellNetravaliKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return (7.0*in*in*in - 12.0*in*in + 5.33333333333) * 0.16666666666
	}
	if in <= 2 {
		return (-2.33333333333*in*in*in + 12.0*in*in - 20.0*in + 10.6666666667) * 0.16666666666
	}
	return 0
}

func sinc(x float64) float64 {
	x = math.Abs(x) * math.Pi
	if x >= 1.220703e-4 {
		return math.Sin(x) / x
	}
	return 1
}

func lanczos2Kernel(in float64) float64 {
	if in > -2 && in < 2 {
		return sinc(in) * sinc(in*0.5)
	}
	return 0
}

func lanczos3Kernel(in float64) float64 {
	if in > -3 && in < 3 {
		return sinc(in) * sinc(in*0.3333333333333333)
	}
	return 0
}

func clampToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
