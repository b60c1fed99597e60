package geometry

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/Fepozopo/photofix/pkg/raster"
)

func checkResize(b *raster.Buffer, w, h int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return raster.CheckSize(w, h)
}

// Resize scales b to w x h with the bicubic sampler, aligning pixel centres.
func Resize(b *raster.Buffer, w, h int) (*raster.Buffer, error) {
	if err := checkResize(b, w, h); err != nil {
		return nil, err
	}
	if w == b.W && h == b.H {
		return b.Clone(), nil
	}
	out, err := raster.New(w, h, b.C)
	if err != nil {
		return nil, err
	}
	xScale := float64(b.W) / float64(w)
	yScale := float64(b.H) / float64(h)
	raster.ParallelRows(h, func(start, end int) {
		for y := start; y < end; y++ {
			sy := (float64(y)+0.5)*yScale - 0.5
			row := out.Row(y)
			for x := 0; x < w; x++ {
				sx := (float64(x)+0.5)*xScale - 0.5
				SampleBicubic(b, sx, sy, row[x*b.C:(x+1)*b.C])
			}
		}
	})
	return out, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x = math.Pi * x
	return math.Sin(x) / x
}

// lanczosKernel returns the Lanczos weight for distance x with window a.
func lanczosKernel(x, a float64) float64 {
	x = math.Abs(x)
	if x < 1e-12 {
		return 1
	}
	if x >= a {
		return 0
	}
	return sinc(x) * sinc(x/a)
}

// ResizeLanczos scales b to w x h with a Lanczos window of a lobes
// (commonly 3).
func ResizeLanczos(b *raster.Buffer, w, h int, a float64) (*raster.Buffer, error) {
	if err := checkResize(b, w, h); err != nil {
		return nil, err
	}
	if !(a >= 1) || a > 8 {
		return nil, fmt.Errorf("%w: lanczos window %v", raster.ErrInvalidParameter, a)
	}
	out, err := raster.New(w, h, b.C)
	if err != nil {
		return nil, err
	}
	xScale := float64(b.W) / float64(w)
	yScale := float64(b.H) / float64(h)
	raster.ParallelRows(h, func(start, end int) {
		var sum [4]float64
		for y := start; y < end; y++ {
			sy := (float64(y)+0.5)*yScale - 0.5
			yMin := int(math.Floor(sy - a + 1))
			yMax := int(math.Ceil(sy + a - 1))
			row := out.Row(y)
			for x := 0; x < w; x++ {
				sx := (float64(x)+0.5)*xScale - 0.5
				xMin := int(math.Floor(sx - a + 1))
				xMax := int(math.Ceil(sx + a - 1))
				sum = [4]float64{}
				weightSum := 0.0
				for yi := yMin; yi <= yMax; yi++ {
					wy := lanczosKernel(float64(yi)-sy, a)
					for xi := xMin; xi <= xMax; xi++ {
						wgt := wy * lanczosKernel(float64(xi)-sx, a)
						px := b.At(xi, yi)
						for c := range px {
							sum[c] += float64(px[c]) * wgt
						}
						weightSum += wgt
					}
				}
				if weightSum == 0 {
					weightSum = 1
				}
				for c := 0; c < b.C; c++ {
					row[x*b.C+c] = raster.ClampUint8(sum[c] / weightSum)
				}
			}
		}
	})
	return out, nil
}

// ResizeWith scales b to w x h with one of the x/image/draw interpolators
// (draw.NearestNeighbor, draw.ApproxBiLinear, draw.BiLinear, draw.CatmullRom).
// The result keeps b's channel count.
func ResizeWith(b *raster.Buffer, w, h int, interp xdraw.Interpolator) (*raster.Buffer, error) {
	if err := checkResize(b, w, h); err != nil {
		return nil, err
	}
	if interp == nil {
		return nil, fmt.Errorf("%w: nil interpolator", raster.ErrInvalidParameter)
	}
	src := b.NRGBA()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	interp.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return raster.FromImage(dst).WithChannels(b.C)
}

// Interpolator returns the x/image/draw interpolator called name.
func Interpolator(name string) (xdraw.Interpolator, error) {
	switch name {
	case "nearest":
		return xdraw.NearestNeighbor, nil
	case "approxbilinear":
		return xdraw.ApproxBiLinear, nil
	case "bilinear":
		return xdraw.BiLinear, nil
	case "catmullrom":
		return xdraw.CatmullRom, nil
	}
	return nil, fmt.Errorf("%w: unknown interpolator %q", raster.ErrInvalidParameter, name)
}
