package filters

import (
	"fmt"
	"math"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// Percentiles bounding the contrast and white-balance stretches.
const (
	stretchLow  = 0.5
	stretchHigh = 99.5
)

// DefaultSigmoidContrast is the sigmoid steepness used when none is given.
const DefaultSigmoidContrast = 3.0

func sigmoid(a, mid, x float64) float64 {
	return math.Tanh(0.5 * a * (x - mid))
}

// scaledSigmoid maps x in [lo, hi] onto [0, 1] along a tanh curve centred on mid.
func scaledSigmoid(a, mid, x, lo, hi float64) float64 {
	return (sigmoid(a, mid, x) - sigmoid(a, mid, lo)) / (sigmoid(a, mid, hi) - sigmoid(a, mid, lo))
}

// SigmoidalContrast remaps color samples through a sigmoid of the given
// contrast (steepness, > 0) and midpoint (in [0,1]). 0 maps to 0 and 255 to
// 255. The curve is evaluated once into a lookup table.
func SigmoidalContrast(b *raster.Buffer, contrast, midpoint float64) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if !(contrast > 0) || math.IsInf(contrast, 0) {
		return fmt.Errorf("%w: sigmoid contrast %v", raster.ErrInvalidParameter, contrast)
	}
	if !(midpoint >= 0 && midpoint <= 1) {
		return fmt.Errorf("%w: sigmoid midpoint %v", raster.ErrInvalidParameter, midpoint)
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = raster.ClampUint8(255 * scaledSigmoid(contrast, midpoint, float64(i)/255, 0, 1))
	}
	applyLUT(b, &lut)
	return nil
}

// stretchLUT linearly maps [lo, hi] onto [0, 255]. ok is false when the
// window is empty, in which case the channel must be left alone.
func stretchLUT(lo, hi int) (lut [256]uint8, ok bool) {
	if hi <= lo {
		return lut, false
	}
	for i := range lut {
		lut[i] = raster.ClampUint8(255 * float64(i-lo) / float64(hi-lo))
	}
	return lut, true
}

// StretchContrast stretches the HSV value channel so that its 0.5th and
// 99.5th percentiles become 0 and 255. Hue and saturation are kept.
func StretchContrast(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	var hist Histogram
	for i := 0; i < len(b.Pix); i += b.C {
		hist[max(b.Pix[i], b.Pix[i+1], b.Pix[i+2])]++
	}
	n := b.W * b.H
	lo := Percentile(&hist, stretchLow, n)
	hi := Percentile(&hist, stretchHigh, n)
	lut, ok := stretchLUT(lo, hi)
	if !ok {
		return nil
	}
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for i := 0; i < len(row); i += b.C {
				c := RGBToHSV(row[i], row[i+1], row[i+2])
				c.V = float64(lut[raster.ClampUint8(c.V*255)]) / 255
				row[i], row[i+1], row[i+2] = HSVToRGB(c)
			}
		}
	})
	return nil
}

// AutoWhiteBalance stretches R, G and B independently between their 0.5th
// and 99.5th percentiles. A channel with no spread is left unchanged.
func AutoWhiteBalance(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	hists := ChannelHistograms(b)
	n := b.W * b.H
	var luts [3][256]uint8
	for ch := range hists {
		lo := Percentile(&hists[ch], stretchLow, n)
		hi := Percentile(&hists[ch], stretchHigh, n)
		lut, ok := stretchLUT(lo, hi)
		if !ok {
			for i := range lut {
				lut[i] = uint8(i)
			}
		}
		luts[ch] = lut
	}
	applyChannelLUTs(b, &luts)
	return nil
}

// GrayWorld scales each channel so that its mean matches the mean over all
// three channels. A channel whose sum is zero is lifted by the overall mean
// instead of scaled.
func GrayWorld(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	var sums [3]int64
	for i := 0; i < len(b.Pix); i += b.C {
		sums[0] += int64(b.Pix[i])
		sums[1] += int64(b.Pix[i+1])
		sums[2] += int64(b.Pix[i+2])
	}
	n := int64(b.W * b.H)
	// fixed point with three implied decimals
	const km = 0.001 / 3
	mi := (sums[0] + sums[1] + sums[2]) * 1000
	vm := km * float64(mi/n)

	var luts [3][256]uint8
	for ch, s := range sums {
		a0, a1 := 0.0, 1.0
		if s > 0 {
			a1 = km * float64(mi/s)
		} else {
			a0 = vm
		}
		for i := range luts[ch] {
			luts[ch][i] = uint8(raster.ClampInt(int(a1*float64(i)+a0), 0, 255))
		}
	}
	applyChannelLUTs(b, &luts)
	return nil
}

func applyChannelLUTs(b *raster.Buffer, luts *[3][256]uint8) {
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for i := 0; i < len(row); i += b.C {
				row[i+0] = luts[0][row[i+0]]
				row[i+1] = luts[1][row[i+1]]
				row[i+2] = luts[2][row[i+2]]
			}
		}
	})
}

// EnhanceColor stretches HCL chroma so the most saturated pixel reaches a
// chroma of 100, leaving hue and lightness alone. Chroma 0 stays 0.
func EnhanceColor(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	n := b.W * b.H
	hcl := make([]HCL, n)
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for x := 0; x < b.W; x++ {
				i := x * b.C
				hcl[y*b.W+x] = RGBToHCL(row[i], row[i+1], row[i+2])
			}
		}
	})
	var hist Histogram
	for _, c := range hcl {
		hist[raster.ClampInt(int(c.C), 0, 255)]++
	}
	lo := 0.0
	hi := float64(Percentile(&hist, 100, n))
	if hi == 0 {
		// all gray
		hi = 100
	}
	if hi <= lo {
		return nil
	}
	raster.ParallelRows(b.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := b.Row(y)
			for x := 0; x < b.W; x++ {
				c := hcl[y*b.W+x]
				c.C = 100 * (c.C - lo) / (hi - lo)
				if c.C < 0 {
					c.C = 0
				}
				i := x * b.C
				row[i], row[i+1], row[i+2] = HCLToRGB(c)
			}
		}
	})
	return nil
}
