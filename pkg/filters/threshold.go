package filters

import (
	"fmt"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// OtsuThreshold returns the gray level maximizing the between-class variance
// of b's gray histogram. Buckets are scanned in ascending order and the first
// maximum wins.
func OtsuThreshold(b *raster.Buffer) (int, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	hist := GrayHistogram(b)
	return otsu(&hist, b.W*b.H), nil
}

func otsu(hist *Histogram, n int) int {
	sum := 0
	for i, v := range hist {
		sum += i * v
	}
	threshold := 0
	sumB, q1 := 0, 0
	best := 0.0
	for i, v := range hist {
		q1 += v
		if q1 == 0 {
			continue
		}
		q2 := n - q1
		if q2 == 0 {
			break
		}
		sumB += i * v
		m1m2 := float64(sumB)/float64(q1) - float64(sum-sumB)/float64(q2)
		between := m1m2 * m1m2 * float64(q1) * float64(q2)
		if between > best {
			best = between
			threshold = i
		}
	}
	return threshold
}

// Binarize sets every pixel whose gray value exceeds t to white and every
// other pixel to black. Alpha is preserved.
func Binarize(b *raster.Buffer, t int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if t < 0 || t > 255 {
		return fmt.Errorf("%w: threshold %d", raster.ErrInvalidParameter, t)
	}
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for i := 0; i < len(row); i += b.C {
				v := uint8(0)
				if int(raster.Gray(row[i], row[i+1], row[i+2])) > t {
					v = 255
				}
				row[i], row[i+1], row[i+2] = v, v, v
			}
		}
	})
	return nil
}

// AdaptiveOptions configures AdaptiveThreshold.
type AdaptiveOptions struct {
	// T is the fraction below the local mean a pixel must fall to turn black.
	T float64
	// Window is the side of the square neighborhood. Zero selects
	// max(16, W/32).
	Window int
}

// DefaultAdaptiveOptions returns T=0.15 with an automatic window.
func DefaultAdaptiveOptions() AdaptiveOptions {
	return AdaptiveOptions{T: 0.15}
}

// WindowFor returns the neighborhood side used for an image of width w.
func (o AdaptiveOptions) WindowFor(w int) int {
	if o.Window > 0 {
		return o.Window
	}
	return max(16, w/32)
}

// AdaptiveThreshold binarizes b against the mean of each pixel's square
// neighborhood (Bradley's method). The neighborhood is clipped to the image,
// and its sum is read in O(1) from an integral image.
func AdaptiveThreshold(b *raster.Buffer, opts AdaptiveOptions) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if opts.T < 0 || opts.T >= 1 {
		return fmt.Errorf("%w: adaptive threshold T %v", raster.ErrInvalidParameter, opts.T)
	}
	if opts.Window < 0 {
		return fmt.Errorf("%w: adaptive window %d", raster.ErrInvalidParameter, opts.Window)
	}
	w, h := b.W, b.H
	half := opts.WindowFor(w) / 2

	// (w+1)x(h+1) integral with a zero first row and column; each row depends
	// on the previous one, so this part stays sequential.
	iw := w + 1
	integral := make([]uint64, iw*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		src := b.Row(y)
		prev := integral[y*iw:]
		cur := integral[(y+1)*iw:]
		for x := 0; x < w; x++ {
			rowSum += uint64(raster.Gray(src[x*b.C], src[x*b.C+1], src[x*b.C+2]))
			cur[x+1] = prev[x+1] + rowSum
		}
	}

	scale := 1 - opts.T
	raster.ParallelRows(h, func(start, end int) {
		for y := start; y < end; y++ {
			y1 := max(y-half, 0)
			y2 := min(y+half, h-1)
			row := b.Row(y)
			for x := 0; x < w; x++ {
				x1 := max(x-half, 0)
				x2 := min(x+half, w-1)
				count := uint64((x2 - x1 + 1) * (y2 - y1 + 1))
				sum := integral[(y2+1)*iw+x2+1] - integral[y1*iw+x2+1] - integral[(y2+1)*iw+x1] + integral[y1*iw+x1]
				i := x * b.C
				v := uint8(255)
				if count > 0 {
					g := uint64(raster.Gray(row[i], row[i+1], row[i+2]))
					if float64(g*count) < float64(sum)*scale {
						v = 0
					}
				}
				row[i], row[i+1], row[i+2] = v, v, v
			}
		}
	})
	return nil
}
