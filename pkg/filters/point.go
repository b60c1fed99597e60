package filters

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// applyLUT maps every color sample of b through lut.
func applyLUT(b *raster.Buffer, lut *[256]uint8) {
	cc := b.ColorChannels()
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for i := 0; i < len(row); i += b.C {
				for ch := 0; ch < cc; ch++ {
					row[i+ch] = lut[row[i+ch]]
				}
			}
		}
	})
}

// Grayscale replaces each pixel by its gray value. Alpha is preserved.
func Grayscale(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for i := 0; i < len(row); i += b.C {
				v := raster.Gray(row[i], row[i+1], row[i+2])
				row[i], row[i+1], row[i+2] = v, v, v
			}
		}
	})
	return nil
}

// Invert negates the color channels.
func Invert(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(255 - i)
	}
	applyLUT(b, &lut)
	return nil
}

// ApplyGamma raises normalized color samples to 1/gamma. gamma 1 is the
// identity.
func ApplyGamma(b *raster.Buffer, gamma float64) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return fmt.Errorf("%w: gamma %v", raster.ErrInvalidParameter, gamma)
	}
	if gamma == 1 {
		return nil
	}
	inv := 1 / gamma
	var lut [256]uint8
	for i := range lut {
		lut[i] = raster.ClampUint8(255 * math.Pow(float64(i)/255, inv))
	}
	applyLUT(b, &lut)
	return nil
}
