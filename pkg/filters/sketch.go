package filters

import (
	"fmt"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// DefaultSketchRadius is the blur radius PencilSketch uses when none is given.
const DefaultSketchRadius = 5

// PencilSketch turns b into a gray pencil drawing: the gray image is
// colour-dodged with a Gaussian blur of its own negative, so flat areas go
// white unless they are black, and edges keep ink. Alpha is preserved.
func PencilSketch(b *raster.Buffer, radius int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if radius < 1 {
		return fmt.Errorf("%w: sketch radius %d", raster.ErrInvalidParameter, radius)
	}
	gray := b.Clone()
	if err := Grayscale(gray); err != nil {
		return err
	}
	blur := gray.Clone()
	if err := Invert(blur); err != nil {
		return err
	}
	if err := GaussianBlur(blur, radius, 0); err != nil {
		return err
	}
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row, base, top := b.Row(y), gray.Row(y), blur.Row(y)
			for i := 0; i < len(row); i += b.C {
				var v uint8
				switch t := int(top[i]); {
				case base[i] == 0:
				case t == 255:
					v = 255
				default:
					v = uint8(min(255, int(base[i])*255/(255-t)))
				}
				row[i], row[i+1], row[i+2] = v, v, v
			}
		}
	})
	return nil
}
