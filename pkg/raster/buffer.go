// Package raster holds the pixel buffer shared by every transform, plus the
// small helpers (border extension, clamping, gray value, row-parallel loops)
// the filters are built on.
package raster

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned (wrapped) whenever a transform rejects its
// input before touching any pixel.
var ErrInvalidParameter = errors.New("invalid parameter")

// Buffer is an 8-bit, row-major raster with C interleaved channels (R,G,B[,A])
// and no row padding: stride is always W*C.
type Buffer struct {
	W, H int
	C    int
	Pix  []uint8
}

// MaxPixels bounds the pixel count of any buffer the engine allocates.
const MaxPixels = 1 << 28

// CheckSize rejects empty sizes and sizes above MaxPixels.
func CheckSize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxPixels/h {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidParameter, w, h)
	}
	return nil
}

// New allocates a zeroed buffer.
func New(w, h, c int) (*Buffer, error) {
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	if c != 3 && c != 4 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidParameter, c)
	}
	return &Buffer{W: w, H: h, C: c, Pix: make([]uint8, w*h*c)}, nil
}

// Validate reports whether b satisfies the buffer invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidParameter, b.W, b.H)
	}
	if b.C != 3 && b.C != 4 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidParameter, b.C)
	}
	if len(b.Pix) != b.W*b.H*b.C {
		return fmt.Errorf("%w: pixel slice has %d bytes, want %d", ErrInvalidParameter, len(b.Pix), b.W*b.H*b.C)
	}
	return nil
}

// Stride is the number of bytes per row.
func (b *Buffer) Stride() int { return b.W * b.C }

// Offset returns the index of the first channel of pixel (x, y).
func (b *Buffer) Offset(x, y int) int { return y*b.W*b.C + x*b.C }

// Row returns the bytes of row y.
func (b *Buffer) Row(y int) []uint8 {
	s := b.Stride()
	return b.Pix[y*s : (y+1)*s]
}

// HasAlpha reports whether the fourth channel is present.
func (b *Buffer) HasAlpha() bool { return b.C == 4 }

// ColorChannels is the number of channels carrying color (alpha excluded).
func (b *Buffer) ColorChannels() int {
	if b.C == 4 {
		return 3
	}
	return b.C
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	out := &Buffer{W: b.W, H: b.H, C: b.C, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Fill sets every pixel to px. Missing trailing channels are left untouched.
func (b *Buffer) Fill(px ...uint8) {
	n := len(px)
	if n > b.C {
		n = b.C
	}
	for i := 0; i < len(b.Pix); i += b.C {
		copy(b.Pix[i:i+n], px[:n])
	}
}

// At returns the channels of pixel (x, y), clamped to the image bounds.
func (b *Buffer) At(x, y int) []uint8 {
	x = ClampInt(x, 0, b.W-1)
	y = ClampInt(y, 0, b.H-1)
	i := b.Offset(x, y)
	return b.Pix[i : i+b.C]
}

// Gray is the integer luma used by every thresholding operator:
// (11r + 16g + 5b) / 32.
func Gray(r, g, b uint8) uint8 {
	return uint8((uint32(r)*11 + uint32(g)*16 + uint32(b)*5) >> 5)
}

// GrayAt returns the gray value of the pixel starting at Pix[i].
func (b *Buffer) GrayAt(i int) uint8 {
	return Gray(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
}

// ClampInt clamps v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampUint8 rounds v half-up and clamps it to [0, 255].
func ClampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
