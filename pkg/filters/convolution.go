package filters

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// gaussianKernel1D returns the 2r+1 normalized weights exp(-u²/2σ²), u in [-r, r].
// A sigma so small that 2σ² underflows gives the identity kernel.
func gaussianKernel1D(radius int, sigma float64) []float32 {
	kern := make([]float32, 2*radius+1)
	den := 2 * sigma * sigma
	if den == 0 {
		kern[radius] = 1
		return kern
	}
	sum := 0.0
	vals := make([]float64, len(kern))
	for u := -radius; u <= radius; u++ {
		v := math.Exp(-float64(u*u) / den)
		vals[u+radius] = v
		sum += v
	}
	for i, v := range vals {
		kern[i] = float32(v / sum)
	}
	return kern
}

// GaussianBlur blurs the color channels of b with a separable Gaussian of
// the given radius. sigma <= 0 selects radius/2. Radius 0 leaves b unchanged.
func GaussianBlur(b *raster.Buffer, radius int, sigma float64) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("%w: blur radius %d", raster.ErrInvalidParameter, radius)
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: blur sigma %v", raster.ErrInvalidParameter, sigma)
	}
	if radius == 0 {
		return nil
	}
	if sigma <= 0 {
		sigma = float64(radius) / 2
	}
	ext, err := raster.ExpandBorder(b, radius)
	if err != nil {
		return err
	}
	kern := gaussianKernel1D(radius, sigma)
	convolveSeparable(b, ext, radius, kern)
	return nil
}

// convolveSeparable runs the horizontal pass over every row of ext into a
// float buffer, then the vertical pass into b. Only color channels are
// written.
func convolveSeparable(b, ext *raster.Buffer, radius int, kern []float32) {
	w, c, cc := b.W, b.C, b.ColorChannels()
	eh := ext.H
	es := ext.Stride()
	tmp := make([]float32, w*eh*cc)

	raster.ParallelRows(eh, func(start, end int) {
		for y := start; y < end; y++ {
			src := ext.Pix[y*es : (y+1)*es]
			dst := tmp[y*w*cc : (y+1)*w*cc]
			for x := 0; x < w; x++ {
				for ch := 0; ch < cc; ch++ {
					var acc float32
					for k, kv := range kern {
						acc += kv * float32(src[(x+k)*c+ch])
					}
					dst[x*cc+ch] = acc
				}
			}
		}
	})

	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for x := 0; x < w; x++ {
				for ch := 0; ch < cc; ch++ {
					var acc float32
					for k, kv := range kern {
						acc += kv * tmp[((y+k)*w+x)*cc+ch]
					}
					row[x*c+ch] = raster.ClampUint8(float64(acc))
				}
			}
		}
	})
}

// BoxBlur replaces each color sample by the truncated mean of the (2r+1)
// window along x, then along y. Sums slide: the trailing sample is
// subtracted and the leading one added. Radius 0 leaves b unchanged.
func BoxBlur(b *raster.Buffer, radius int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("%w: box radius %d", raster.ErrInvalidParameter, radius)
	}
	if radius == 0 {
		return nil
	}
	ext, err := raster.ExpandBorder(b, radius)
	if err != nil {
		return err
	}
	boxBlurInto(b, ext, radius)
	return nil
}

func boxBlurInto(dst, ext *raster.Buffer, radius int) {
	w, h, c, cc := dst.W, dst.H, dst.C, dst.ColorChannels()
	size := 2*radius + 1
	es := ext.Stride()
	eh := ext.H
	tmp := make([]uint8, w*eh*cc)

	raster.ParallelRows(eh, func(start, end int) {
		for y := start; y < end; y++ {
			src := ext.Pix[y*es : (y+1)*es]
			out := tmp[y*w*cc : (y+1)*w*cc]
			for ch := 0; ch < cc; ch++ {
				sum := 0
				for k := 0; k < size; k++ {
					sum += int(src[k*c+ch])
				}
				out[ch] = uint8(sum / size)
				for x := 1; x < w; x++ {
					sum += int(src[(x+size-1)*c+ch]) - int(src[(x-1)*c+ch])
					out[x*cc+ch] = uint8(sum / size)
				}
			}
		}
	})

	// vertical sums slide down each column, so split the work by columns
	raster.ParallelRows(w, func(start, end int) {
		for x := start; x < end; x++ {
			for ch := 0; ch < cc; ch++ {
				sum := 0
				for k := 0; k < size; k++ {
					sum += int(tmp[(k*w+x)*cc+ch])
				}
				dst.Pix[dst.Offset(x, 0)+ch] = uint8(sum / size)
				for y := 1; y < h; y++ {
					sum += int(tmp[((y+size-1)*w+x)*cc+ch]) - int(tmp[((y-1)*w+x)*cc+ch])
					dst.Pix[dst.Offset(x, y)+ch] = uint8(sum / size)
				}
			}
		}
	})
}
