package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Fepozopo/photofix/pkg/raster"
)

func assertSize(t *testing.T, b *raster.Buffer, w, h, c int) {
	t.Helper()
	if b.W != w || b.H != h || b.C != c {
		t.Fatalf("size %dx%dx%d, want %dx%dx%d", b.W, b.H, b.C, w, h, c)
	}
}

func samePixel(t *testing.T, got, want []uint8) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pixel mismatch:\n%s", diff)
	}
}

func TestPerspectiveIdentity(t *testing.T) {
	for _, iso := range []bool{false, true} {
		src := makePattern(7, 5, 4)
		out, err := PerspectiveCorrect(src, RectQuad(0, 0, 6, 4), iso)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(src, out); diff != "" {
			t.Fatalf("isometric=%v: identity quad changed the image:\n%s", iso, diff)
		}
	}
}

func TestPerspectiveRectifiesTrapezoid(t *testing.T) {
	src := makePattern(14, 10, 3)
	q := Quad{{2, 1}, {10, 1}, {12, 9}, {0, 9}}
	out, err := PerspectiveCorrect(src, q, false)
	if err != nil {
		t.Fatal(err)
	}
	assertSize(t, out, 13, 9, 3)
	samePixel(t, out.At(0, 0), src.At(2, 1))
	samePixel(t, out.At(12, 0), src.At(10, 1))
	samePixel(t, out.At(12, 8), src.At(12, 9))
	samePixel(t, out.At(0, 8), src.At(0, 9))
}

func TestPerspectiveRejectsBadQuads(t *testing.T) {
	src := makePattern(8, 8, 3)
	before := src.Clone()
	_, err := PerspectiveCorrect(src, Quad{{0, 0}, {7, 7}, {7, 0}, {0, 7}}, false)
	assertInvalid(t, err)
	// convex but mirrored: right edge given first
	_, err = PerspectiveCorrect(src, Quad{{7, 0}, {0, 0}, {0, 7}, {7, 7}}, false)
	assertInvalid(t, err)
	_, err = PerspectiveCorrect(nil, RectQuad(0, 0, 7, 7), false)
	assertInvalid(t, err)
	if diff := cmp.Diff(before, src); diff != "" {
		t.Fatalf("input mutated:\n%s", diff)
	}
}

func TestDeobliqueIdentity(t *testing.T) {
	src := makePattern(9, 6, 4)
	out, err := Deoblique(src, [4]Point{{0, 3}, {9, 3}, {4, 0}, {4, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, out); diff != "" {
		t.Fatalf("level guides changed the image:\n%s", diff)
	}
	if &out.Pix[0] == &src.Pix[0] {
		t.Fatal("identity result shares pixels with the input")
	}
}

func TestDeobliqueShear(t *testing.T) {
	src := makePattern(6, 5, 4)
	// horizontal guide drops 4px across the image: corners move by 2
	out, err := Deoblique(src, [4]Point{{0, 0}, {6, 4}, {3, 0}, {3, 5}})
	if err != nil {
		t.Fatal(err)
	}
	assertSize(t, out, 6, 9, 4)
	samePixel(t, out.At(0, 4), src.At(0, 0))
	samePixel(t, out.At(5, 8), []uint8{0, 0, 0, 0})
	samePixel(t, out.At(5, 0), src.At(5, 0))
}

// slanted returns a 4x40 white image with one black pixel per column on
// the line y = 8 + x.
func slanted() *raster.Buffer {
	b, _ := raster.New(4, 40, 3)
	b.Fill(255, 255, 255)
	for x := 0; x < 4; x++ {
		i := b.Offset(x, 8+x)
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = 0, 0, 0
	}
	return b
}

func dewarpModes() []DewarpOptions {
	return []DewarpOptions{
		{},
		{Lagrange: true},
		{EqualArea: true},
		{Lagrange: true, EqualArea: true},
	}
}

func TestDewarpFlatContoursIsIdentity(t *testing.T) {
	for _, opts := range dewarpModes() {
		src := makePattern(11, 30, 4)
		out, err := Dewarp(src, NewContour(11, 8, 3), NewContour(11, 21, 3), opts)
		if err != nil {
			t.Fatalf("%+v: %v", opts, err)
		}
		if diff := cmp.Diff(src, out); diff != "" {
			t.Fatalf("%+v: flat contours changed the image:\n%s", opts, diff)
		}
	}
}

func TestDewarpStraightensSlantedLine(t *testing.T) {
	upper := Polyline{{0, 8}, {4, 12}}
	lower := NewContour(4, 30, 0)
	for _, opts := range dewarpModes() {
		out, err := Dewarp(slanted(), upper, lower, opts)
		if err != nil {
			t.Fatalf("%+v: %v", opts, err)
		}
		// the line's mean height is 10
		for x := 0; x < 4; x++ {
			if v := out.At(x, 10)[0]; v != 0 {
				t.Fatalf("%+v: column %d row 10 = %d, want 0", opts, x, v)
			}
		}
	}
}

func TestDewarpPinsEndpoints(t *testing.T) {
	src := makePattern(10, 20, 3)
	// end points off the edges are moved onto them
	upper := Polyline{{-3, 5}, {5, 5}, {14, 5}}
	lower := Polyline{{2, 15}, {15, 15}}
	out, err := Dewarp(src, upper, lower, DewarpOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, out); diff != "" {
		t.Fatalf("pinned flat contours changed the image:\n%s", diff)
	}
	if upper[0].X != -3 {
		t.Fatal("caller's contour was modified")
	}
}

func TestDewarpRejectsBadContours(t *testing.T) {
	src := makePattern(10, 20, 3)
	cases := map[string][2]Polyline{
		"too short":     {{{0, 5}}, NewContour(10, 15, 1)},
		"swapped":       {NewContour(10, 15, 1), NewContour(10, 5, 1)},
		"not monotonic": {{{0, 5}, {6, 5}, {4, 5}, {10, 5}}, NewContour(10, 15, 1)},
		"below image":   {NewContour(10, 5, 1), NewContour(10, 25, 1)},
		"on top edge":   {NewContour(10, 0, 1), NewContour(10, 15, 1)},
	}
	for name, c := range cases {
		if _, err := Dewarp(src, c[0], c[1], DewarpOptions{}); err == nil {
			t.Fatalf("%s: accepted", name)
		} else {
			assertInvalid(t, err)
		}
	}
}

func TestNewContour(t *testing.T) {
	want := Polyline{{0, 4}, {3, 4}, {6, 4}, {9, 4}}
	if diff := cmp.Diff(want, NewContour(9, 4, 2)); diff != "" {
		t.Fatalf("contour mismatch:\n%s", diff)
	}
}

func TestMirror(t *testing.T) {
	src := makePattern(5, 3, 4)
	h, err := Mirror(src, false)
	if err != nil {
		t.Fatal(err)
	}
	v, err := Mirror(src, true)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if diff := cmp.Diff(src.At(x, y), h.At(4-x, y)); diff != "" {
				t.Fatalf("horizontal mirror at (%d,%d):\n%s", x, y, diff)
			}
			if diff := cmp.Diff(src.At(x, y), v.At(x, 2-y)); diff != "" {
				t.Fatalf("vertical mirror at (%d,%d):\n%s", x, y, diff)
			}
		}
	}
	back, err := Mirror(h, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Pix, back.Pix); diff != "" {
		t.Fatalf("mirroring twice is not the identity:\n%s", diff)
	}
}

func TestLensDistortion(t *testing.T) {
	src := makePattern(9, 7, 3)
	same, err := LensDistortion(src, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Pix, same.Pix); diff != "" {
		t.Fatalf("zero lens parameters changed the image:\n%s", diff)
	}

	barrel, err := LensDistortion(src, 60, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertSize(t, barrel, 9, 7, 3)
	if diff := cmp.Diff(src.At(4, 3), barrel.At(4, 3)); diff != "" {
		t.Fatalf("centre pixel moved:\n%s", diff)
	}
	if diff := cmp.Diff(src.Pix, barrel.Pix); diff == "" {
		t.Fatal("distortion left the image unchanged")
	}

	for _, p := range [][3]float64{{101, 0, 0}, {0, -120, 0}, {0, 0, math.NaN()}} {
		_, err := LensDistortion(src, p[0], p[1], p[2])
		assertInvalid(t, err)
	}
}
