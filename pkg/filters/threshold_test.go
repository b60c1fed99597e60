package filters

import (
	"testing"
)

func TestPercentile(t *testing.T) {
	var h Histogram
	h[5] = 10
	h[200] = 10
	cases := []struct {
		p    float64
		want int
	}{{0, 5}, {0.5, 5}, {50, 5}, {75, 200}, {100, 200}, {-3, 5}, {140, 200}}
	for _, c := range cases {
		if got := Percentile(&h, c.p, h.Total()); got != c.want {
			t.Fatalf("Percentile(%v) = %d, want %d", c.p, got, c.want)
		}
	}
}

func TestPercentileSkipsEmptyBuckets(t *testing.T) {
	var h Histogram
	h[128] = 100
	for _, p := range []float64{0, 0.5, 50, 99.5, 100} {
		if got := Percentile(&h, p, h.Total()); got != 128 {
			t.Fatalf("Percentile(%v) = %d, want 128", p, got)
		}
	}
	var empty Histogram
	if got := Percentile(&empty, 50, 0); got != 0 {
		t.Fatalf("empty histogram percentile = %d", got)
	}
}

func TestGrayHistogramSumsToPixelCount(t *testing.T) {
	b := makePattern(17, 5, 3)
	h := GrayHistogram(b)
	if h.Total() != 17*5 {
		t.Fatalf("histogram total %d, want %d", h.Total(), 17*5)
	}
}

func TestOtsuBimodal(t *testing.T) {
	b := makeSolid(20, 10, 0, 0, 0)
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			v := 40 + (x+y)%21
			if x >= 10 {
				v = 190 + (x+y)%21
			}
			setGray(b, x, y, uint8(v))
		}
	}
	th, err := OtsuThreshold(b)
	if err != nil {
		t.Fatal(err)
	}
	if th < 58 || th >= 190 {
		t.Fatalf("otsu threshold %d not between the peaks", th)
	}
	// every split between the clusters (58 is the darker cluster's top)
	// scores the same; the first one wins
	if th != 58 {
		t.Fatalf("otsu threshold %d, want first maximum 58", th)
	}
}

func TestOtsuUniformImage(t *testing.T) {
	th, err := OtsuThreshold(makeSolid(4, 4, 90, 90, 90))
	if err != nil {
		t.Fatal(err)
	}
	if th != 0 {
		t.Fatalf("uniform image threshold %d, want 0", th)
	}
}

func TestBinarizeIdempotent(t *testing.T) {
	b := makePattern(16, 12, 4)
	alpha := make([]uint8, 0, 16*12)
	for i := 3; i < len(b.Pix); i += 4 {
		alpha = append(alpha, b.Pix[i])
	}
	th, err := OtsuThreshold(b)
	if err != nil {
		t.Fatal(err)
	}
	if err := Binarize(b, th); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(b.Pix); i += 4 {
		if v := b.Pix[i]; (v != 0 && v != 255) || b.Pix[i+1] != v || b.Pix[i+2] != v {
			t.Fatalf("pixel %d not binary: %v", i/4, b.Pix[i:i+3])
		}
		if b.Pix[i+3] != alpha[i/4] {
			t.Fatalf("alpha of pixel %d changed", i/4)
		}
	}
	for _, t2 := range []int{1, 100, 254} {
		again := b.Clone()
		if err := Binarize(again, t2); err != nil {
			t.Fatal(err)
		}
		assertSame(t, b, again)
	}
}

func TestAdaptiveThresholdUniformIsWhite(t *testing.T) {
	for _, v := range []uint8{0, 77, 255} {
		b := makeSolid(40, 30, v, v, v)
		if err := AdaptiveThreshold(b, DefaultAdaptiveOptions()); err != nil {
			t.Fatal(err)
		}
		assertSame(t, makeSolid(40, 30, 255, 255, 255), b)
	}
}

func TestAdaptiveThresholdSinglePixel(t *testing.T) {
	b := makeSolid(1, 1, 10, 10, 10)
	if err := AdaptiveThreshold(b, DefaultAdaptiveOptions()); err != nil {
		t.Fatal(err)
	}
	if grayAt(b, 0, 0) != 255 {
		t.Fatalf("1x1 pixel should compare equal to its own mean and stay white")
	}
}

func TestAdaptiveThresholdDarkBlob(t *testing.T) {
	b := makeSolid(40, 40, 200, 200, 200)
	for y := 19; y <= 21; y++ {
		for x := 19; x <= 21; x++ {
			setGray(b, x, y, 20)
		}
	}
	if err := AdaptiveThreshold(b, DefaultAdaptiveOptions()); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			want := uint8(255)
			if x >= 19 && x <= 21 && y >= 19 && y <= 21 {
				want = 0
			}
			if got := grayAt(b, x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestAdaptiveWindowPolicy(t *testing.T) {
	o := DefaultAdaptiveOptions()
	if got := o.WindowFor(100); got != 16 {
		t.Fatalf("narrow image window %d, want 16", got)
	}
	if got := o.WindowFor(3200); got != 100 {
		t.Fatalf("wide image window %d, want 100", got)
	}
	o.Window = 9
	if got := o.WindowFor(3200); got != 9 {
		t.Fatalf("explicit window %d, want 9", got)
	}
}
