package filters

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Fepozopo/photofix/pkg/raster"
)

func makeSolid(w, h int, px ...uint8) *raster.Buffer {
	b, err := raster.New(w, h, len(px))
	if err != nil {
		panic(err)
	}
	b.Fill(px...)
	return b
}

func setGray(b *raster.Buffer, x, y int, v uint8) {
	i := b.Offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = v, v, v
}

func grayAt(b *raster.Buffer, x, y int) uint8 {
	return b.Pix[b.Offset(x, y)]
}

// makePattern fills a buffer with a deterministic, non-uniform texture.
func makePattern(w, h, c int) *raster.Buffer {
	b, _ := raster.New(w, h, c)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := b.Offset(x, y)
			b.Pix[i+0] = uint8((x*37 + y*11) % 256)
			b.Pix[i+1] = uint8((x*7 + y*53) % 256)
			b.Pix[i+2] = uint8((x*x + y*3) % 256)
			if c == 4 {
				b.Pix[i+3] = uint8(100 + (x+y)%100)
			}
		}
	}
	return b
}

func assertSame(t *testing.T, want, got *raster.Buffer) {
	t.Helper()
	if diff := cmp.Diff(want.Pix, got.Pix); diff != "" {
		t.Fatalf("buffer changed:\n%s", diff)
	}
}

func assertInvalid(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, raster.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestFiltersKeepUniformImages(t *testing.T) {
	steps := map[string]func(*raster.Buffer) error{
		"gaussian":  func(b *raster.Buffer) error { return GaussianBlur(b, 3, 0) },
		"box":       func(b *raster.Buffer) error { return BoxBlur(b, 2) },
		"median":    func(b *raster.Buffer) error { return MedianFilter(b, 2) },
		"despeckle": Despeckle,
		"stretch":   StretchContrast,
		"awb":       AutoWhiteBalance,
		"grayworld": GrayWorld,
		"unsharp":   func(b *raster.Buffer) error { return UnsharpMask(b, 1, 5) },
	}
	for name, fn := range steps {
		src := makeSolid(13, 9, 128, 128, 128, 200)
		got := src.Clone()
		if err := fn(got); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
			t.Fatalf("%s changed a uniform image:\n%s", name, diff)
		}
	}
}

func TestInvalidParametersDoNotMutate(t *testing.T) {
	src := makePattern(8, 8, 4)
	steps := map[string]func(*raster.Buffer) error{
		"gaussian": func(b *raster.Buffer) error { return GaussianBlur(b, -1, 0) },
		"box":      func(b *raster.Buffer) error { return BoxBlur(b, -2) },
		"median":   func(b *raster.Buffer) error { return MedianFilter(b, -1) },
		"binarize": func(b *raster.Buffer) error { return Binarize(b, 256) },
		"adaptive": func(b *raster.Buffer) error { return AdaptiveThreshold(b, AdaptiveOptions{T: 1}) },
		"unsharp":  func(b *raster.Buffer) error { return UnsharpMask(b, -1, 5) },
		"sigmoid":  func(b *raster.Buffer) error { return SigmoidalContrast(b, 3, 2) },
		"gamma":    func(b *raster.Buffer) error { return ApplyGamma(b, 0) },
		"noise":    func(b *raster.Buffer) error { return AddNoise(b, "pink", 3, 1) },
		"vignette": func(b *raster.Buffer) error { return Vignette(b, VignetteOptions{Strength: 2}) },
	}
	for name, fn := range steps {
		got := src.Clone()
		if err := fn(got); !errors.Is(err, raster.ErrInvalidParameter) {
			t.Fatalf("%s: expected ErrInvalidParameter, got %v", name, err)
		}
		if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
			t.Fatalf("%s mutated the buffer on error:\n%s", name, diff)
		}
	}
}

func TestRejectsMalformedBuffer(t *testing.T) {
	bad := &raster.Buffer{W: 4, H: 4, C: 3, Pix: make([]uint8, 10)}
	assertInvalid(t, GaussianBlur(bad, 1, 0))
	assertInvalid(t, Despeckle(bad))
	_, err := OtsuThreshold(nil)
	assertInvalid(t, err)
}
