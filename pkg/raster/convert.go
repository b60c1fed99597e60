package raster

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FromImage converts any image.Image into a 4-channel buffer. The source is
// left untouched.
func FromImage(src image.Image) *Buffer {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := &Buffer{W: w, H: h, C: 4, Pix: make([]uint8, w*h*4)}
	if n, ok := src.(*image.NRGBA); ok {
		// copy row by row; the source may be a sub-image with its own stride
		for y := 0; y < h; y++ {
			i := n.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*w*4:(y+1)*w*4], n.Pix[i:i+w*4])
		}
		return out
	}
	dst := &image.NRGBA{Pix: out.Pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	xdraw.Draw(dst, dst.Rect, src, bounds.Min, xdraw.Src)
	return out
}

// NRGBA returns the buffer as an *image.NRGBA. A 3-channel buffer gains an
// opaque alpha channel.
func (b *Buffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	if b.C == 4 {
		copy(img.Pix, b.Pix)
		return img
	}
	for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
		img.Pix[j+0] = b.Pix[i+0]
		img.Pix[j+1] = b.Pix[i+1]
		img.Pix[j+2] = b.Pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

// WithChannels returns a copy of b converted to c channels (3 or 4). Dropped
// alpha is discarded; added alpha is opaque.
func (b *Buffer) WithChannels(c int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if c == b.C {
		return b.Clone(), nil
	}
	out, err := New(b.W, b.H, c)
	if err != nil {
		return nil, err
	}
	for i, j := 0, 0; i < len(b.Pix); i, j = i+b.C, j+c {
		copy(out.Pix[j:j+3], b.Pix[i:i+3])
		if c == 4 {
			out.Pix[j+3] = 255
		}
	}
	return out, nil
}
