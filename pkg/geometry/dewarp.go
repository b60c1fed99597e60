package geometry

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// Polyline is a page contour: control points ordered by X, the first on the
// left image edge and the last on the right one.
type Polyline []Point

// DewarpOptions selects how the contour is followed between control points
// and how rows are redistributed.
type DewarpOptions struct {
	// Lagrange follows the contour with a local 4-point polynomial instead of
	// straight segments.
	Lagrange bool
	// EqualArea scales the zones above, between and below the contours
	// separately so each keeps its area.
	EqualArea bool
}

// NewContour returns n evenly spaced interior control points at height y,
// plus the two edge points, for an image w pixels wide.
func NewContour(w int, y float64, n int) Polyline {
	if n < 0 {
		n = 0
	}
	p := make(Polyline, n+2)
	for i := range p {
		p[i] = Point{float64(i) * float64(w) / float64(n+1), y}
	}
	return p
}

// pinned returns a copy of p with its ends moved onto the image edges, after
// checking the points are usable.
func (p Polyline) pinned(w int) (Polyline, error) {
	if len(p) < 2 {
		return nil, fmt.Errorf("%w: contour needs at least 2 points, got %d", raster.ErrInvalidParameter, len(p))
	}
	out := make(Polyline, len(p))
	copy(out, p)
	out[0].X = 0
	out[len(out)-1].X = float64(w)
	for i, pt := range out {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			return nil, errNonFinite(pt)
		}
		if i > 0 && pt.X <= out[i-1].X {
			return nil, fmt.Errorf("%w: contour x not increasing at point %d (%v <= %v)", raster.ErrInvalidParameter, i, pt.X, out[i-1].X)
		}
	}
	return out, nil
}

// mean is the height of the straight line enclosing the same area against
// the top edge as the contour.
func (p Polyline) mean(w int) float64 {
	poly := make([]Point, 0, len(p)+2)
	poly = append(poly, Point{0, 0})
	poly = append(poly, p...)
	poly = append(poly, Point{float64(w), 0})
	return Area(poly) / float64(w)
}

// at returns the contour height at column x.
func (p Polyline) at(x float64, lagrange bool, h int) float64 {
	s := 0
	for s < len(p)-2 && x >= p[s+1].X {
		s++
	}
	if !lagrange {
		a, b := p[s], p[s+1]
		return a.Y + (x-a.X)*(b.Y-a.Y)/(b.X-a.X)
	}
	n := min(4, len(p))
	start := raster.ClampInt(s-1, 0, len(p)-n)
	y := Lagrange(x, p[start:start+n])
	return math.Max(1, math.Min(float64(h-1), y))
}

// Dewarp straightens a curved page. For each column the source rows on the
// upper and lower contours are pulled onto their mean heights and the rows
// in between are interpolated linearly; with EqualArea the bands above the
// upper contour and below the lower one are stretched independently.
// Samples are taken with the cubic kernel along the column.
func Dewarp(b *raster.Buffer, upper, lower Polyline, opts DewarpOptions) (*raster.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	up, err := upper.pinned(b.W)
	if err != nil {
		return nil, fmt.Errorf("upper contour: %w", err)
	}
	lo, err := lower.pinned(b.W)
	if err != nil {
		return nil, fmt.Errorf("lower contour: %w", err)
	}
	h := float64(b.H)
	meanU := up.mean(b.W)
	meanL := lo.mean(b.W)
	if !(meanU > 0 && meanU < meanL && meanL < h) {
		return nil, fmt.Errorf("%w: contour means %.2f and %.2f must satisfy 0 < upper < lower < %d",
			raster.ErrInvalidParameter, meanU, meanL, b.H)
	}

	out, err := raster.New(b.W, b.H, b.C)
	if err != nil {
		return nil, err
	}
	zoneU := int(meanU + 1)
	zoneL := int(meanL + 1)
	raster.ParallelRange(b.W, 1, func(start, end int) {
		for x := start; x < end; x++ {
			fx := float64(x)
			yU := up.at(fx, opts.Lagrange, b.H)
			yL := lo.at(fx, opts.Lagrange, b.H)
			k0 := yU / meanU
			k1 := (yL - yU) / (meanL - meanU)
			k2 := (h - yL) / (h - meanL)
			for y := 0; y < b.H; y++ {
				fy := float64(y)
				var oy float64
				switch {
				case !opts.EqualArea:
					oy = yU + (fy-meanU)*k1
				case y < zoneU:
					oy = fy * k0
				case y < zoneL:
					oy = yU + (fy-meanU)*k1
				default:
					oy = yL + (fy-meanL)*k2
				}
				i := out.Offset(x, y)
				SampleBicubic(b, fx, oy, out.Pix[i:i+b.C])
			}
		}
	})
	return out, nil
}

func errNonFinite(p Point) error {
	return fmt.Errorf("%w: point %v is not finite", raster.ErrInvalidParameter, p)
}
