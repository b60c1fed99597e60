package geometry

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// Matrix is a 3x3 projective transform acting on column vectors (x, y, 1).
type Matrix [3][3]float64

// Identity is the identity transform.
var Identity = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Map applies m to p. ok is false when p maps to infinity.
func (m Matrix) Map(p Point) (q Point, ok bool) {
	w := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]
	if math.Abs(w) < 1e-12 {
		return Point{}, false
	}
	return Point{
		X: (m[0][0]*p.X + m[0][1]*p.Y + m[0][2]) / w,
		Y: (m[1][0]*p.X + m[1][1]*p.Y + m[1][2]) / w,
	}, true
}

// Mul returns m·n, the transform applying n first.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return out
}

// Invert returns the inverse of m, or an error if m is singular.
func (m Matrix) Invert() (Matrix, error) {
	a := m
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if math.Abs(det) < 1e-12 || math.IsNaN(det) {
		return Matrix{}, fmt.Errorf("%w: singular transform", raster.ErrInvalidParameter)
	}
	inv := 1 / det
	var out Matrix
	out[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) * inv
	out[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) * inv
	out[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * inv
	out[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) * inv
	out[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * inv
	out[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) * inv
	out[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) * inv
	out[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) * inv
	out[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * inv
	return out, nil
}

// SquareToQuad returns the transform taking the unit square
// (0,0),(1,0),(1,1),(0,1) onto q (Heckbert's closed form).
func SquareToQuad(q Quad) (Matrix, error) {
	if !q.Convex() {
		return Matrix{}, fmt.Errorf("%w: quad %v is degenerate or not convex", raster.ErrInvalidParameter, q)
	}
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y
	ax := x0 - x1 + x2 - x3
	ay := y0 - y1 + y2 - y3
	if math.Abs(ax) < 1e-12 && math.Abs(ay) < 1e-12 {
		// parallelogram
		return Matrix{
			{x1 - x0, x3 - x0, x0},
			{y1 - y0, y3 - y0, y0},
			{0, 0, 1},
		}, nil
	}
	dx1, dy1 := x1-x2, y1-y2
	dx2, dy2 := x3-x2, y3-y2
	den := dx1*dy2 - dx2*dy1
	if math.Abs(den) < 1e-12 {
		return Matrix{}, fmt.Errorf("%w: quad %v is degenerate", raster.ErrInvalidParameter, q)
	}
	g := (ax*dy2 - dx2*ay) / den
	h := (dx1*ay - ax*dy1) / den
	return Matrix{
		{x1 - x0 + g*x1, x3 - x0 + h*x3, x0},
		{y1 - y0 + g*y1, y3 - y0 + h*y3, y0},
		{g, h, 1},
	}, nil
}

// QuadToQuad returns the projective transform mapping each corner of from
// onto the matching corner of to.
func QuadToQuad(from, to Quad) (Matrix, error) {
	sFrom, err := SquareToQuad(from)
	if err != nil {
		return Matrix{}, err
	}
	sTo, err := SquareToQuad(to)
	if err != nil {
		return Matrix{}, err
	}
	inv, err := sFrom.Invert()
	if err != nil {
		return Matrix{}, err
	}
	return sTo.Mul(inv), nil
}
