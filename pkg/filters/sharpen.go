package filters

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// UnsharpMask sharpens b against a radius-1 box blur of itself. A color
// sample moves by factor*(v-blurred) when |v-blurred| exceeds threshold.
func UnsharpMask(b *raster.Buffer, factor float64, threshold int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if factor < 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: unsharp factor %v", raster.ErrInvalidParameter, factor)
	}
	if threshold < 0 || threshold > 255 {
		return fmt.Errorf("%w: unsharp threshold %d", raster.ErrInvalidParameter, threshold)
	}
	ext, err := raster.ExpandBorder(b, 1)
	if err != nil {
		return err
	}
	mask := b.Clone()
	boxBlurInto(mask, ext, 1)

	cc := b.ColorChannels()
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			blurred := mask.Row(y)
			for i := 0; i < len(row); i += b.C {
				for ch := 0; ch < cc; ch++ {
					v := int(row[i+ch])
					diff := v - int(blurred[i+ch])
					if diff > threshold || -diff > threshold {
						row[i+ch] = raster.ClampUint8(float64(v) + factor*float64(diff))
					}
				}
			}
		}
	})
	return nil
}
