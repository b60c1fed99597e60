// Package geometry implements the resampling transforms: perspective
// correction through a quad-to-quad homography, single-axis deoblique,
// piecewise contour dewarping, and bicubic/Lanczos resizing. None of them
// mutate their input; each returns a new buffer.
package geometry

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// Point is a position in image space (pixels, y down).
type Point struct {
	X, Y float64
}

// Quad lists four corners in order top-left, top-right, bottom-right,
// bottom-left.
type Quad [4]Point

// Scale divides every coordinate by (sx, sy), turning display-space points
// into image-space points when the display is the image scaled by sx, sy.
func (q Quad) Scale(sx, sy float64) (Quad, error) {
	if !(sx > 0) || !(sy > 0) {
		return q, fmt.Errorf("%w: display scale %v x %v", raster.ErrInvalidParameter, sx, sy)
	}
	for i := range q {
		q[i] = Point{q[i].X / sx, q[i].Y / sy}
	}
	return q, nil
}

// RectQuad returns the quad of the rectangle (x0,y0)-(x1,y1).
func RectQuad(x0, y0, x1, y1 float64) Quad {
	return Quad{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// finite reports whether every coordinate is a real number.
func (q Quad) finite() bool {
	for _, p := range q {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// Convex reports whether q is a non-degenerate convex quadrilateral. A
// self-intersecting (bow-tie) quad is not convex.
func (q Quad) Convex() bool {
	if !q.finite() {
		return false
	}
	sign := 0
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if math.Abs(cross) < 1e-9 {
			return false
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// meanStd returns the per-axis mean and population standard deviation of
// the corners, each rounded half-up to a whole pixel.
func (q Quad) meanStd() (mean, std Point) {
	var mx, my float64
	for _, p := range q {
		mx += p.X
		my += p.Y
	}
	mx /= 4
	my /= 4
	var sx, sy float64
	for _, p := range q {
		sx += (mx - p.X) * (mx - p.X)
		sy += (my - p.Y) * (my - p.Y)
	}
	sx = math.Sqrt(sx / 4)
	sy = math.Sqrt(sy / 4)
	return Point{math.Floor(mx + 0.5), math.Floor(my + 0.5)}, Point{math.Floor(sx + 0.5), math.Floor(sy + 0.5)}
}

// Area returns the unsigned area of the closed polygon through pts.
func Area(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	area := pts[0].Y*pts[n-1].X - pts[0].X*pts[n-1].Y
	for i := 0; i < n-1; i++ {
		area += pts[i+1].Y*pts[i].X - pts[i+1].X*pts[i].Y
	}
	return math.Abs(area) / 2
}

// Lagrange evaluates at x the polynomial through pts. The X values must be
// distinct.
func Lagrange(x float64, pts []Point) float64 {
	sum := 0.0
	for i, pi := range pts {
		basis := 1.0
		for j, pj := range pts {
			if j != i {
				basis *= (x - pj.X) / (pi.X - pj.X)
			}
		}
		sum += basis * pi.Y
	}
	return sum
}
