package geometry

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// warp fills a w x h buffer by mapping each output pixel (x+ox, y+oy)
// through inv back into b. Samples falling outside the source are left zero
// when clip is set and clamped to the edge otherwise.
func warp(b *raster.Buffer, inv Matrix, w, h int, ox, oy float64, clip bool) (*raster.Buffer, error) {
	if err := raster.CheckSize(w, h); err != nil {
		return nil, err
	}
	out, err := raster.New(w, h, b.C)
	if err != nil {
		return nil, err
	}
	maxX := float64(b.W) - 0.5
	maxY := float64(b.H) - 0.5
	raster.ParallelRows(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Row(y)
			for x := 0; x < w; x++ {
				src, ok := inv.Map(Point{float64(x) + ox, float64(y) + oy})
				if !ok {
					continue
				}
				if clip && (src.X < -0.5 || src.Y < -0.5 || src.X > maxX || src.Y > maxY) {
					continue
				}
				SampleBilinear(b, src.X, src.Y, row[x*b.C:(x+1)*b.C])
			}
		}
	})
	return out, nil
}

// PerspectiveCorrect maps the image-space quad q onto an upright rectangle
// and returns the rectified region. When isometric is false the rectangle
// is anchored at the origin with the longer of each pair of opposite quad
// edges as its size. When isometric is true it is centred on the corners'
// mean and spans their standard deviation, which keeps the result close to
// the source scale.
func PerspectiveCorrect(b *raster.Buffer, q Quad, isometric bool) (*raster.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if !q.Convex() {
		return nil, fmt.Errorf("%w: quad %v is degenerate or not convex", raster.ErrInvalidParameter, q)
	}

	var rect Quad
	if isometric {
		mean, std := q.meanStd()
		rect = RectQuad(mean.X-std.X, mean.Y-std.Y, mean.X+std.X, mean.Y+std.Y)
	} else {
		maxW := math.Max(q[1].X-q[0].X, q[2].X-q[3].X)
		maxH := math.Max(q[3].Y-q[0].Y, q[2].Y-q[1].Y)
		if maxW <= 0 || maxH <= 0 {
			return nil, fmt.Errorf("%w: quad %v is not ordered top-left, top-right, bottom-right, bottom-left", raster.ErrInvalidParameter, q)
		}
		rect = RectQuad(0, 0, maxW, maxH)
	}

	t, err := QuadToQuad(q, rect)
	if err != nil {
		return nil, err
	}
	inv, err := t.Invert()
	if err != nil {
		return nil, err
	}
	w := int(math.Floor(rect[2].X-rect[0].X)) + 1
	h := int(math.Floor(rect[2].Y-rect[0].Y)) + 1
	return warp(b, inv, w, h, rect[0].X, rect[0].Y, false)
}
