package filters

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// HSV is a color in hue (degrees, [0,360)), saturation and value ([0,1]).
type HSV struct {
	H, S, V float64
}

// RGBToHSV converts 8-bit RGB to HSV.
func RGBToHSV(r, g, b uint8) HSV {
	h, s, v := rgbColor(r, g, b).Hsv()
	return HSV{H: h, S: s, V: v}
}

// HSVToRGB converts HSV back to 8-bit RGB, rounding and clamping each channel.
func HSVToRGB(c HSV) (r, g, b uint8) {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	col := colorful.Hsv(h, c.S, c.V)
	return raster.ClampUint8(255 * col.R), raster.ClampUint8(255 * col.G), raster.ClampUint8(255 * col.B)
}

func rgbColor(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// HCL is CIE LCh(ab) under D65: hue in degrees, chroma and lightness in CIE
// units (L in [0,100]).
type HCL struct {
	H, C, L float64
}

// RGBToHCL converts 8-bit sRGB to HCL.
func RGBToHCL(r, g, b uint8) HCL {
	l, la, lb := rgbColor(r, g, b).Lab()
	h := math.Atan2(lb, la) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return HCL{H: h, C: 100 * math.Hypot(la, lb), L: 100 * l}
}

// HCLToRGB converts HCL to 8-bit sRGB. Out-of-gamut results are clamped.
func HCLToRGB(c HCL) (r, g, b uint8) {
	rad := c.H * math.Pi / 180
	la := c.C * math.Cos(rad) / 100
	lb := c.C * math.Sin(rad) / 100
	return colorful.Lab(c.L/100, la, lb).Clamped().RGB255()
}
