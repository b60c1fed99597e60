package geometry

import (
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// SampleBilinear samples every channel of b at (x, y) into dst, clamping
// the four neighbours to the image bounds. dst must hold b.C bytes.
func SampleBilinear(b *raster.Buffer, x, y float64, dst []uint8) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	c00 := b.At(x0, y0)
	c10 := b.At(x0+1, y0)
	c01 := b.At(x0, y0+1)
	c11 := b.At(x0+1, y0+1)
	for c := 0; c < b.C; c++ {
		top := float64(c00[c])*(1-xFrac) + float64(c10[c])*xFrac
		bottom := float64(c01[c])*(1-xFrac) + float64(c11[c])*xFrac
		dst[c] = raster.ClampUint8(top*(1-yFrac) + bottom*yFrac)
	}
}

// cubic evaluates at t in [0,1] the cubic through p0..p3 sampled at
// -1, 0, 1, 2. It is exact at t = 0 and t = 1.
func cubic(p0, p1, p2, p3, t float64) float64 {
	d0 := p0 - p1
	d2 := p2 - p1
	d3 := p3 - p1
	a1 := -d0/3 + d2 - d3/6
	a2 := (d0 + d2) / 2
	a3 := -d0/6 - d2/2 + d3/6
	return p1 + (a1+(a2+a3*t)*t)*t
}

// SampleBicubic samples every channel of b at (x, y) into dst using a 4x4
// neighbourhood with clamped indices. A zero fraction on either axis skips
// interpolation along it, so integer coordinates reproduce the source pixel.
func SampleBicubic(b *raster.Buffer, x, y float64, dst []uint8) {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	dx := x - float64(xi)
	dy := y - float64(yi)

	var rows [4]float64
	for c := 0; c < b.C; c++ {
		row := func(yy int) float64 {
			if dx > 0 {
				return cubic(
					float64(b.At(xi-1, yy)[c]),
					float64(b.At(xi, yy)[c]),
					float64(b.At(xi+1, yy)[c]),
					float64(b.At(xi+2, yy)[c]),
					dx)
			}
			return float64(b.At(xi, yy)[c])
		}
		var v float64
		if dy > 0 {
			for i := -1; i <= 2; i++ {
				rows[i+1] = row(yi + i)
			}
			v = cubic(rows[0], rows[1], rows[2], rows[3], dy)
		} else {
			v = row(yi)
		}
		dst[c] = raster.ClampUint8(v)
	}
}
