package raster

import "fmt"

// ExpandBorder returns a (W+2r)x(H+2r) copy of b with the original in the
// center. Border rows and columns replicate the nearest edge pixel, so the
// corners replicate the corner pixels.
func ExpandBorder(b *Buffer, r int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if r < 0 {
		return nil, fmt.Errorf("%w: border width %d", ErrInvalidParameter, r)
	}
	if r == 0 {
		return b.Clone(), nil
	}
	if r > MaxPixels {
		return nil, fmt.Errorf("%w: border width %d", ErrInvalidParameter, r)
	}
	w, h, c := b.W+2*r, b.H+2*r, b.C
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	out := &Buffer{W: w, H: h, C: c, Pix: make([]uint8, w*h*c)}
	src := b.Stride()
	dst := out.Stride()
	for y := 0; y < b.H; y++ {
		row := out.Pix[(y+r)*dst : (y+r+1)*dst]
		copy(row[r*c:], b.Pix[y*src:(y+1)*src])
		first := row[r*c : r*c+c]
		last := row[(r+b.W-1)*c : (r+b.W)*c]
		for x := 0; x < r; x++ {
			copy(row[x*c:], first)
			copy(row[(r+b.W+x)*c:], last)
		}
	}
	top := out.Pix[r*dst : (r+1)*dst]
	bottom := out.Pix[(r+b.H-1)*dst : (r+b.H)*dst]
	for y := 0; y < r; y++ {
		copy(out.Pix[y*dst:(y+1)*dst], top)
		copy(out.Pix[(r+b.H+y)*dst:(r+b.H+y+1)*dst], bottom)
	}
	return out, nil
}

// Crop returns a copy of the w x h region whose top-left corner is (x, y).
func Crop(b *Buffer, x, y, w, h int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > b.W || y+h > b.H {
		return nil, fmt.Errorf("%w: crop %dx%d+%d+%d outside %dx%d", ErrInvalidParameter, w, h, x, y, b.W, b.H)
	}
	out := &Buffer{W: w, H: h, C: b.C, Pix: make([]uint8, w*h*b.C)}
	n := w * b.C
	for row := 0; row < h; row++ {
		i := b.Offset(x, y+row)
		copy(out.Pix[row*n:(row+1)*n], b.Pix[i:i+n])
	}
	return out, nil
}
