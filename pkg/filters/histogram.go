// Package filters implements the in-place pixel transforms: thresholding,
// blurs, sharpening, order-statistic and morphological noise removal, and
// color enhancement. Every exported transform validates its parameters before
// touching a pixel and returns an error wrapping raster.ErrInvalidParameter on
// bad input.
package filters

import "github.com/Fepozopo/photofix/pkg/raster"

// Histogram counts pixels per 8-bit intensity.
type Histogram [256]int

// Total returns the number of samples counted.
func (h *Histogram) Total() int {
	n := 0
	for _, v := range h {
		n += v
	}
	return n
}

// GrayHistogram counts the gray value of every pixel of b.
func GrayHistogram(b *raster.Buffer) Histogram {
	var h Histogram
	for i := 0; i < len(b.Pix); i += b.C {
		h[b.GrayAt(i)]++
	}
	return h
}

// ChannelHistograms counts R, G and B separately.
func ChannelHistograms(b *raster.Buffer) [3]Histogram {
	var hs [3]Histogram
	for i := 0; i < len(b.Pix); i += b.C {
		hs[0][b.Pix[i+0]]++
		hs[1][b.Pix[i+1]]++
		hs[2][b.Pix[i+2]]++
	}
	return hs
}

// Percentile returns the smallest occupied bucket whose cumulative count
// reaches n*p/100. p is clamped to [0, 100]. An empty histogram yields 0.
func Percentile(h *Histogram, p float64, n int) int {
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}
	index := int(float64(n) * p / 100)
	a := 0
	for a < len(h)-1 && (h[a] == 0 || index > h[a]) {
		index -= h[a]
		a++
	}
	return a
}
