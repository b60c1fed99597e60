package filters

import "testing"

func TestPencilSketchFlatAreasGoWhite(t *testing.T) {
	b := makeSolid(6, 6, 100, 100, 100, 77)
	if err := PencilSketch(b, 2); err != nil {
		t.Fatal(err)
	}
	assertSame(t, makeSolid(6, 6, 255, 255, 255, 77), b)
}

func TestPencilSketchKeepsInkOnDark(t *testing.T) {
	b := makeSolid(12, 4, 255, 255, 255)
	for y := 0; y < b.H; y++ {
		for x := 0; x < 6; x++ {
			setGray(b, x, y, 0)
		}
	}
	if err := PencilSketch(b, DefaultSketchRadius); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < b.H; y++ {
		if grayAt(b, 0, y) != 0 || grayAt(b, 5, y) != 0 {
			t.Fatalf("dark side lost its ink at row %d", y)
		}
		if grayAt(b, 11, y) != 255 {
			t.Fatalf("light side = %d at row %d", grayAt(b, 11, y), y)
		}
	}
}

func TestPencilSketchRejectsRadius(t *testing.T) {
	src := makePattern(5, 5, 3)
	got := src.Clone()
	assertInvalid(t, PencilSketch(got, 0))
	assertSame(t, src, got)
}
