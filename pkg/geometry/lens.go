package geometry

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// LensDistortion corrects (or adds) radial distortion around the image
// centre. main and edge weight the r² and r⁴ terms and zoom rescales the
// result; all three are in [-100, 100] and zero everywhere is the identity.
// Positive values pull the corners inwards, undoing pincushion distortion.
func LensDistortion(b *raster.Buffer, main, edge, zoom float64) (*raster.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	for _, p := range [...]struct {
		name string
		v    float64
	}{{"main", main}, {"edge", edge}, {"zoom", zoom}} {
		if !(p.v >= -100 && p.v <= 100) {
			return nil, fmt.Errorf("%w: lens %s %v", raster.ErrInvalidParameter, p.name, p.v)
		}
	}
	out, err := raster.New(b.W, b.H, b.C)
	if err != nil {
		return nil, err
	}
	cx := float64(b.W-1) / 2
	cy := float64(b.H-1) / 2
	norm := 4 / float64(b.W*b.W+b.H*b.H)
	rescale := math.Pow(2, -zoom/100)
	mulSq := main / 200
	mulQd := edge / 200
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Row(y)
			dy := (float64(y) - cy) * rescale
			for x := 0; x < b.W; x++ {
				dx := (float64(x) - cx) * rescale
				r2 := (dx*dx + dy*dy) * norm
				k := 1 + r2*mulSq + r2*r2*mulQd
				SampleBilinear(b, cx+k*dx, cy+k*dy, row[x*b.C:(x+1)*b.C])
			}
		}
	})
	return out, nil
}
