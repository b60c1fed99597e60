package geometry

import "github.com/Fepozopo/photofix/pkg/raster"

// Mirror returns b reflected left to right, or top to bottom when vertical
// is set.
func Mirror(b *raster.Buffer, vertical bool) (*raster.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out, err := raster.New(b.W, b.H, b.C)
	if err != nil {
		return nil, err
	}
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			if vertical {
				copy(out.Row(y), b.Row(b.H-1-y))
				continue
			}
			src, dst := b.Row(y), out.Row(y)
			for x := 0; x < b.W; x++ {
				copy(dst[x*b.C:(x+1)*b.C], src[(b.W-1-x)*b.C:(b.W-x)*b.C])
			}
		}
	})
	return out, nil
}
