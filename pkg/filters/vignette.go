package filters

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// VignetteOptions configures Vignette. Zero values pick defaults.
type VignetteOptions struct {
	// Radius is the distance at which darkening reaches Strength. Zero
	// selects half the image diagonal.
	Radius float64
	// Sigma is the falloff of the gaussian mask. Zero selects Radius/3.
	Sigma float64
	// CX, CY is the center. Negative values select the image center.
	CX, CY float64
	// Strength in [0,1] is the darkening at Radius and beyond.
	Strength float64
}

// DefaultVignetteOptions centres a medium-strength vignette on the image.
func DefaultVignetteOptions() VignetteOptions {
	return VignetteOptions{CX: -1, CY: -1, Strength: 0.6}
}

// Vignette darkens color samples by a radial mask that is 0 at the center
// and 1 at Radius: mask(d) = (1-exp(-d²/2σ²)) / (1-exp(-R²/2σ²)).
func Vignette(b *raster.Buffer, opts VignetteOptions) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if opts.Radius < 0 || opts.Sigma < 0 || math.IsNaN(opts.Radius) || math.IsNaN(opts.Sigma) {
		return fmt.Errorf("%w: vignette radius %v sigma %v", raster.ErrInvalidParameter, opts.Radius, opts.Sigma)
	}
	if !(opts.Strength >= 0 && opts.Strength <= 1) {
		return fmt.Errorf("%w: vignette strength %v", raster.ErrInvalidParameter, opts.Strength)
	}
	radius := opts.Radius
	if radius == 0 {
		radius = math.Hypot(float64(b.W), float64(b.H)) / 2
	}
	sigma := opts.Sigma
	if sigma == 0 {
		sigma = radius / 3
	}
	cx, cy := opts.CX, opts.CY
	if cx < 0 {
		cx = float64(b.W-1) / 2
	}
	if cy < 0 {
		cy = float64(b.H-1) / 2
	}
	norm := 1 - math.Exp(-0.5*radius*radius/(sigma*sigma))
	cc := b.ColorChannels()
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			dy := float64(y) - cy
			for x := 0; x < b.W; x++ {
				dx := float64(x) - cx
				d2 := dx*dx + dy*dy
				mask := 1 - math.Exp(-0.5*d2/(sigma*sigma))
				if norm > 0 {
					mask /= norm
				}
				mask = math.Min(math.Max(mask, 0), 1)
				factor := 1 - mask*opts.Strength
				i := x * b.C
				for ch := 0; ch < cc; ch++ {
					row[i+ch] = raster.ClampUint8(float64(row[i+ch]) * factor)
				}
			}
		}
	})
	return nil
}
