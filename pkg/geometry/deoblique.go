package geometry

import (
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// Deoblique straightens an image whose horizontal and vertical axes lean.
// The four guide points are the left and right ends of a line that should
// be horizontal followed by the top and bottom ends of a line that should
// be vertical. The image corners are shifted by half of each lean and the
// result covers the bounding box of the moved corners; uncovered pixels
// stay zero.
func Deoblique(b *raster.Buffer, pts [4]Point) (*raster.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errNonFinite(p)
		}
	}
	dy := (pts[1].Y - pts[0].Y) / 2
	dx := (pts[3].X - pts[2].X) / 2
	if dx == 0 && dy == 0 {
		return b.Clone(), nil
	}

	w := float64(b.W)
	h := float64(b.H)
	from := RectQuad(0, 0, w-1, h-1)
	to := Quad{
		{dx, dy},
		{w + dx - 1, -dy},
		{w - dx - 1, h - dy - 1},
		{-dx, h + dy - 1},
	}
	t, err := QuadToQuad(from, to)
	if err != nil {
		return nil, err
	}
	inv, err := t.Invert()
	if err != nil {
		return nil, err
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range to {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	ow := int(math.Round(maxX-minX)) + 1
	oh := int(math.Round(maxY-minY)) + 1
	return warp(b, inv, ow, oh, minX, minY, true)
}
