package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/Fepozopo/photofix/pkg/geometry"
	"github.com/Fepozopo/photofix/pkg/raster"
)

func makePattern(w, h int) *raster.Buffer {
	b, _ := raster.New(w, h, 4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := b.Offset(x, y)
			b.Pix[i+0] = uint8((x*37 + y*11) % 256)
			b.Pix[i+1] = uint8((x*7 + y*53) % 256)
			b.Pix[i+2] = uint8((x*x + y*3) % 256)
			b.Pix[i+3] = 255
		}
	}
	return b
}

var sampleArgs = map[string][]string{
	"grayscale":         {},
	"invert":            {},
	"gamma":             {"2.2"},
	"otsu":              {},
	"threshold":         {"128"},
	"adaptiveThreshold": {"0.2", "8"},
	"gaussianBlur":      {"2"},
	"boxBlur":           {"1"},
	"medianFilter":      {"1"},
	"despeckle":         {},
	"unsharpMask":       {"1.5", "3"},
	"sigmoidalContrast": {"0.5", "5"},
	"stretchContrast":   {},
	"autoWhiteBalance":  {},
	"grayWorld":         {},
	"enhanceColor":      {},
	"vignette":          {"50%"},
	"pencilSketch":      {"3"},
	"addNoise":          {"uniform", "5", "7"},
	"expandBorder":      {"3"},
	"crop":              {"5", "5", "20", "10"},
	"mirror":            {"true"},
	"lensDistortion":    {"30", "10", "-5"},
	"perspective":       {"2,2", "37,1", "38,28", "1,27"},
	"deoblique":         {"0,10", "40,12", "20,0", "21,30"},
	"dewarp":            {"0,8;20,10;40,8", "0,22;40,22", "true", "true"},
	"resize":            {"20", "15", "lanczos"},
}

func TestEveryRegisteredCommandRuns(t *testing.T) {
	e := New(zerolog.Nop())
	for _, c := range Commands {
		args, ok := sampleArgs[c.Name]
		if !ok {
			t.Fatalf("no sample args for %s", c.Name)
		}
		out, _, err := e.Apply(context.Background(), makePattern(40, 30), c.Name, args)
		if err != nil {
			t.Fatalf("%s %v: %v", c.Name, args, err)
		}
		if err := out.Validate(); err != nil {
			t.Fatalf("%s returned a broken buffer: %v", c.Name, err)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	e := New(zerolog.Nop())
	ctx := context.Background()
	cases := []struct {
		name string
		args []string
	}{
		{"sharpen", nil},
		{"gaussianBlur", nil},
		{"grayscale", []string{"1"}},
		{"gamma", []string{"abc"}},
		{"perspective", []string{"1,1", "2", "3,3", "4,4"}},
		{"addNoise", []string{"speckle"}},
		{"resize", []string{"10", "10", "box"}},
		{"crop", []string{"4", "4", "5", "2"}},
		{"crop", []string{"0", "0", "x", "2"}},
		{"mirror", []string{"sideways"}},
		{"pencilSketch", []string{"0"}},
		{"lensDistortion", []string{"150"}},
		{"expandBorder", []string{"2147483648"}},
	}
	for _, c := range cases {
		src := makePattern(8, 8)
		before := src.Clone()
		if _, _, err := e.Apply(ctx, src, c.name, c.args); err == nil {
			t.Fatalf("%s %v: expected an error", c.name, c.args)
		} else if !strings.HasPrefix(err.Error(), c.name+":") {
			t.Fatalf("error %q does not name the command", err)
		}
		if diff := cmp.Diff(before, src); diff != "" {
			t.Fatalf("%s mutated its input on error:\n%s", c.name, diff)
		}
	}
	_, _, err := e.Apply(ctx, makePattern(8, 8), "boxBlur", []string{"-2"})
	if !errors.Is(err, raster.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestCropAndMirror(t *testing.T) {
	e := New(zerolog.Nop())
	ctx := context.Background()
	src := makePattern(40, 30)
	out, _, err := e.Apply(ctx, src, "crop", []string{"5", "7", "20", "10"})
	if err != nil {
		t.Fatal(err)
	}
	if out.W != 20 || out.H != 10 {
		t.Fatalf("crop size %dx%d", out.W, out.H)
	}
	if diff := cmp.Diff(src.At(5, 7), out.At(0, 0)); diff != "" {
		t.Fatalf("crop origin:\n%s", diff)
	}
	if diff := cmp.Diff(src.At(24, 16), out.At(19, 9)); diff != "" {
		t.Fatalf("crop corner:\n%s", diff)
	}

	m, _, err := e.Apply(ctx, src, "mirror", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.At(0, 3), m.At(39, 3)); diff != "" {
		t.Fatalf("mirror:\n%s", diff)
	}
}

func TestOtsuReportsThreshold(t *testing.T) {
	b := makePattern(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(30)
			if x >= 8 {
				v = 220
			}
			i := b.Offset(x, y)
			b.Pix[i], b.Pix[i+1], b.Pix[i+2] = v, v, v
		}
	}
	out, v, err := New(zerolog.Nop()).Apply(context.Background(), b, "otsu", nil)
	if err != nil {
		t.Fatal(err)
	}
	if v < 30 || v >= 220 {
		t.Fatalf("otsu threshold %d not between the clusters", v)
	}
	if out.Pix[0] != 0 || out.Pix[out.Offset(15, 0)] != 255 {
		t.Fatalf("otsu did not binarize: %d %d", out.Pix[0], out.Pix[out.Offset(15, 0)])
	}
	_, v, err = New(zerolog.Nop()).Apply(context.Background(), b, "invert", nil)
	if err != nil || v != NoValue {
		t.Fatalf("invert value = %d, %v", v, err)
	}
}

func TestRunPipeline(t *testing.T) {
	steps, err := ParseSteps(strings.Fields("grayscale -- expandBorder 2 -- threshold 128"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Step{{"grayscale", []string{}}, {"expandBorder", []string{"2"}}, {"threshold", []string{"128"}}}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Fatalf("steps mismatch:\n%s", diff)
	}
	out, err := New(zerolog.Nop()).Run(context.Background(), makePattern(10, 6), steps)
	if err != nil {
		t.Fatal(err)
	}
	if out.W != 14 || out.H != 10 {
		t.Fatalf("pipeline size %dx%d, want 14x10", out.W, out.H)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if v := out.Pix[i]; v != 0 && v != 255 {
			t.Fatalf("pixel %d = %d after threshold", i/4, v)
		}
	}

	if _, err := ParseSteps([]string{"invert", "--", "--", "grayscale"}); err == nil {
		t.Fatal("empty step accepted")
	}
	if _, err := ParseSteps(nil); err == nil {
		t.Fatal("empty pipeline accepted")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(zerolog.Nop()).Run(ctx, makePattern(4, 4), []Step{{Name: "invert"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestApplyLogs(t *testing.T) {
	var buf bytes.Buffer
	e := New(zerolog.New(&buf).Level(zerolog.DebugLevel))
	if _, _, err := e.Apply(context.Background(), makePattern(4, 4), "invert", nil); err != nil {
		t.Fatal(err)
	}
	_, _, _ = e.Apply(context.Background(), makePattern(4, 4), "boxBlur", []string{"x"})
	out := buf.String()
	for _, want := range []string{`"command":"invert"`, `"message":"applied"`, `"level":"warn"`, `"message":"command failed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestParsePoints(t *testing.T) {
	p, err := ParsePoint(" 3.5, -2 ")
	if err != nil || p != (geometry.Point{X: 3.5, Y: -2}) {
		t.Fatalf("ParsePoint = %v, %v", p, err)
	}
	for _, bad := range []string{"3", "a,1", "1,b", ""} {
		if _, err := ParsePoint(bad); err == nil {
			t.Fatalf("ParsePoint(%q) accepted", bad)
		}
	}
	line, err := ParsePolyline("0,1;5,2;10,1;")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(geometry.Polyline{{X: 0, Y: 1}, {X: 5, Y: 2}, {X: 10, Y: 1}}, line); diff != "" {
		t.Fatalf("polyline mismatch:\n%s", diff)
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	c, ok := Lookup("GAUSSIANBLUR")
	if !ok || c.Name != "gaussianBlur" {
		t.Fatalf("Lookup = %+v, %v", c, ok)
	}
}
