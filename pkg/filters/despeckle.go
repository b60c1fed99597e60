package filters

import "github.com/Fepozopo/photofix/pkg/raster"

// Crimmins directions: down, right, down-right, down-left.
var (
	hullX = [4]int{0, 1, 1, -1}
	hullY = [4]int{1, 0, 1, 1}
)

// Despeckle removes isolated light and dark specks with Crimmins' complementary
// hulling. Each color channel is processed independently on a 1-pixel padded
// plane whose border replicates the nearest edge sample. Alpha is untouched.
func Despeckle(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	w, h := b.W, b.H
	raster.ParallelRange(b.ColorChannels(), 1, func(start, end int) {
		for ch := start; ch < end; ch++ {
			f := make([]uint8, (w+2)*(h+2))
			for y := 0; y < h; y++ {
				row := b.Row(y)
				dst := f[(y+1)*(w+2)+1:]
				for x := 0; x < w; x++ {
					dst[x] = row[x*b.C+ch]
				}
			}
			replicateBorder(f, w, h)
			g := make([]uint8, len(f))
			copy(g, f)

			for k := 0; k < 4; k++ {
				hull(hullX[k], hullY[k], w, h, 1, f, g)
				hull(-hullX[k], -hullY[k], w, h, 1, f, g)
				hull(-hullX[k], -hullY[k], w, h, -1, f, g)
				hull(hullX[k], hullY[k], w, h, -1, f, g)
			}

			for y := 0; y < h; y++ {
				row := b.Row(y)
				src := f[(y+1)*(w+2)+1:]
				for x := 0; x < w; x++ {
					row[x*b.C+ch] = src[x]
				}
			}
		}
	})
	return nil
}

// hull runs one Crimmins pass in the direction (dx, dy). Stage A reads f and
// writes g, nudging a sample by one toward a neighbor that differs by at
// least two. Stage B reads g and writes f, keeping the nudge only when the
// opposite neighbor agrees.
func hull(dx, dy, w, h, polarity int, f, g []uint8) {
	stride := w + 2
	off := dy*stride + dx
	for y := 0; y < h; y++ {
		i := (y+1)*stride + 1
		for x := 0; x < w; x, i = x+1, i+1 {
			v := int(f[i])
			r := int(f[i+off])
			if polarity > 0 {
				if r >= v+2 {
					v++
				}
			} else if r <= v-2 {
				v--
			}
			g[i] = uint8(v)
		}
	}
	replicateBorder(g, w, h)

	for y := 0; y < h; y++ {
		i := (y+1)*stride + 1
		for x := 0; x < w; x, i = x+1, i+1 {
			v := int(g[i])
			r := int(g[i+off])
			s := int(g[i-off])
			if polarity > 0 {
				if s >= v+2 && r > v {
					v++
				}
			} else if s <= v-2 && r < v {
				v--
			}
			f[i] = uint8(v)
		}
	}
	replicateBorder(f, w, h)
}

// replicateBorder copies the outermost interior samples of a padded
// (w+2)x(h+2) plane into its 1-pixel frame.
func replicateBorder(p []uint8, w, h int) {
	stride := w + 2
	for y := 1; y <= h; y++ {
		row := p[y*stride : (y+1)*stride]
		row[0] = row[1]
		row[w+1] = row[w]
	}
	copy(p[:stride], p[stride:2*stride])
	copy(p[(h+1)*stride:], p[h*stride:(h+1)*stride])
}
