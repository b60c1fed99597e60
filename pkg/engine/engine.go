package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Fepozopo/photofix/pkg/filters"
	"github.com/Fepozopo/photofix/pkg/geometry"
	"github.com/Fepozopo/photofix/pkg/raster"
)

// NoValue is returned by Apply for commands that do not compute a number.
const NoValue = -1

// Engine turns textual commands into calls on the filters and geometry
// packages.
type Engine struct {
	log zerolog.Logger
}

// New returns an engine logging through log.
func New(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// Step is one command of a pipeline.
type Step struct {
	Name string
	Args []string
}

func (s Step) String() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// ParseSteps splits words on "--" into steps, the first word of each being
// the command name.
func ParseSteps(words []string) ([]Step, error) {
	var steps []Step
	var cur []string
	flush := func() error {
		if len(cur) == 0 {
			return fmt.Errorf("empty command in pipeline")
		}
		steps = append(steps, Step{Name: cur[0], Args: cur[1:]})
		cur = nil
		return nil
	}
	for _, w := range words {
		if w == "--" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		cur = append(cur, w)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return steps, nil
}

// Run applies steps in order, stopping at the first error or when ctx is
// done. In-place commands mutate b.
func (e *Engine) Run(ctx context.Context, b *raster.Buffer, steps []Step) (*raster.Buffer, error) {
	for _, s := range steps {
		out, v, err := e.Apply(ctx, b, s.Name, s.Args)
		if err != nil {
			return nil, err
		}
		if v != NoValue {
			e.log.Info().Str("command", s.Name).Int("value", v).Msg("computed")
		}
		b = out
	}
	return b, nil
}

// Apply runs one command. In-place filters mutate b and return it; geometric
// commands return a new buffer and leave b untouched. The int result is the
// threshold chosen by otsu and NoValue for every other command.
func (e *Engine) Apply(ctx context.Context, b *raster.Buffer, name string, args []string) (*raster.Buffer, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, NoValue, err
	}
	start := time.Now()
	out, v, err := apply(b, name, args)
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
		e.log.Warn().Err(err).Str("command", name).Strs("args", args).Msg("command failed")
		return nil, NoValue, err
	}
	e.log.Debug().
		Str("command", name).
		Strs("args", args).
		Int("width", out.W).
		Int("height", out.H).
		Dur("elapsed", time.Since(start)).
		Msg("applied")
	return out, v, nil
}

// inPlace adapts an in-place filter to apply's return shape.
func inPlace(b *raster.Buffer, err error) (*raster.Buffer, int, error) {
	if err != nil {
		return nil, NoValue, err
	}
	return b, NoValue, nil
}

func newBuffer(b *raster.Buffer, err error) (*raster.Buffer, int, error) {
	return b, NoValue, err
}

func apply(b *raster.Buffer, name string, args []string) (*raster.Buffer, int, error) {
	if err := b.Validate(); err != nil {
		return nil, NoValue, err
	}
	spec, ok := Lookup(name)
	if !ok {
		return nil, NoValue, fmt.Errorf("unknown command")
	}
	if err := spec.checkArity(args); err != nil {
		return nil, NoValue, err
	}

	switch spec.Name {
	case "grayscale":
		return inPlace(b, filters.Grayscale(b))

	case "invert":
		return inPlace(b, filters.Invert(b))

	case "gamma":
		g, err := floatArg(args, 0, "gamma", 1)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.ApplyGamma(b, g))

	case "otsu":
		t, err := filters.OtsuThreshold(b)
		if err != nil {
			return nil, NoValue, err
		}
		if err := filters.Binarize(b, t); err != nil {
			return nil, NoValue, err
		}
		return b, t, nil

	case "threshold":
		t, err := intArg(args, 0, "threshold value", 0)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.Binarize(b, t))

	case "adaptiveThreshold":
		opts := filters.DefaultAdaptiveOptions()
		var err error
		if opts.T, err = floatArg(args, 0, "t", opts.T); err != nil {
			return nil, NoValue, err
		}
		if opts.Window, err = intArg(args, 1, "window", 0); err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.AdaptiveThreshold(b, opts))

	case "gaussianBlur":
		radius, err := intArg(args, 0, "radius", 0)
		if err != nil {
			return nil, NoValue, err
		}
		sigma, err := floatArg(args, 1, "sigma", 0)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.GaussianBlur(b, radius, sigma))

	case "boxBlur":
		radius, err := intArg(args, 0, "radius", 0)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.BoxBlur(b, radius))

	case "medianFilter":
		radius, err := intArg(args, 0, "radius", 0)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.MedianFilter(b, radius))

	case "despeckle":
		return inPlace(b, filters.Despeckle(b))

	case "unsharpMask":
		factor, err := floatArg(args, 0, "factor", 1)
		if err != nil {
			return nil, NoValue, err
		}
		threshold, err := intArg(args, 1, "threshold", 5)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.UnsharpMask(b, factor, threshold))

	case "sigmoidalContrast":
		mid, err := floatArg(args, 0, "midpoint", 0.5)
		if err != nil {
			return nil, NoValue, err
		}
		contrast, err := floatArg(args, 1, "contrast", filters.DefaultSigmoidContrast)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.SigmoidalContrast(b, contrast, mid))

	case "stretchContrast":
		return inPlace(b, filters.StretchContrast(b))

	case "autoWhiteBalance":
		return inPlace(b, filters.AutoWhiteBalance(b))

	case "grayWorld":
		return inPlace(b, filters.GrayWorld(b))

	case "enhanceColor":
		return inPlace(b, filters.EnhanceColor(b))

	case "vignette":
		opts := filters.DefaultVignetteOptions()
		var err error
		if opts.Strength, err = fractionArg(args, 0, "strength", opts.Strength); err != nil {
			return nil, NoValue, err
		}
		if opts.Radius, err = floatArg(args, 1, "radius", 0); err != nil {
			return nil, NoValue, err
		}
		if opts.Sigma, err = floatArg(args, 2, "sigma", 0); err != nil {
			return nil, NoValue, err
		}
		if opts.CX, err = floatArg(args, 3, "x", opts.CX); err != nil {
			return nil, NoValue, err
		}
		if opts.CY, err = floatArg(args, 4, "y", opts.CY); err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.Vignette(b, opts))

	case "addNoise":
		kind := filters.NoiseGaussian
		if s := optional(args, 0); s != "" {
			k, err := filters.ParseNoiseKind(s)
			if err != nil {
				return nil, NoValue, err
			}
			kind = k
		}
		amount, err := floatArg(args, 1, "amount", 10)
		if err != nil {
			return nil, NoValue, err
		}
		seed, err := intArg(args, 2, "seed", 0)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.AddNoise(b, kind, amount, int64(seed)))

	case "pencilSketch":
		radius, err := intArg(args, 0, "radius", filters.DefaultSketchRadius)
		if err != nil {
			return nil, NoValue, err
		}
		return inPlace(b, filters.PencilSketch(b, radius))

	case "expandBorder":
		width, err := intArg(args, 0, "width", 0)
		if err != nil {
			return nil, NoValue, err
		}
		return newBuffer(raster.ExpandBorder(b, width))

	case "crop":
		var r [4]int
		for i, what := range []string{"x", "y", "width", "height"} {
			v, err := intArg(args, i, what, 0)
			if err != nil {
				return nil, NoValue, err
			}
			r[i] = v
		}
		return newBuffer(raster.Crop(b, r[0], r[1], r[2], r[3]))

	case "mirror":
		vertical, err := boolArg(args, 0, "vertical")
		if err != nil {
			return nil, NoValue, err
		}
		return newBuffer(geometry.Mirror(b, vertical))

	case "lensDistortion":
		var v [3]float64
		for i, what := range []string{"main", "edge", "zoom"} {
			f, err := floatArg(args, i, what, 0)
			if err != nil {
				return nil, NoValue, err
			}
			v[i] = f
		}
		return newBuffer(geometry.LensDistortion(b, v[0], v[1], v[2]))

	case "perspective":
		pts, err := fourPoints(args)
		if err != nil {
			return nil, NoValue, err
		}
		iso, err := boolArg(args, 4, "isometric")
		if err != nil {
			return nil, NoValue, err
		}
		scale, err := floatArg(args, 5, "scale", 1)
		if err != nil {
			return nil, NoValue, err
		}
		q, err := geometry.Quad(pts).Scale(scale, scale)
		if err != nil {
			return nil, NoValue, err
		}
		return newBuffer(geometry.PerspectiveCorrect(b, q, iso))

	case "deoblique":
		pts, err := fourPoints(args)
		if err != nil {
			return nil, NoValue, err
		}
		return newBuffer(geometry.Deoblique(b, pts))

	case "dewarp":
		upper, err := ParsePolyline(args[0])
		if err != nil {
			return nil, NoValue, fmt.Errorf("upper contour: %w", err)
		}
		lower, err := ParsePolyline(args[1])
		if err != nil {
			return nil, NoValue, fmt.Errorf("lower contour: %w", err)
		}
		var opts geometry.DewarpOptions
		if opts.Lagrange, err = boolArg(args, 2, "lagrange"); err != nil {
			return nil, NoValue, err
		}
		if opts.EqualArea, err = boolArg(args, 3, "equalArea"); err != nil {
			return nil, NoValue, err
		}
		return newBuffer(geometry.Dewarp(b, upper, lower, opts))

	case "resize":
		w, err := intArg(args, 0, "width", 0)
		if err != nil {
			return nil, NoValue, err
		}
		h, err := intArg(args, 1, "height", 0)
		if err != nil {
			return nil, NoValue, err
		}
		switch method := strings.ToLower(optional(args, 2)); method {
		case "", "bicubic":
			return newBuffer(geometry.Resize(b, w, h))
		case "lanczos":
			return newBuffer(geometry.ResizeLanczos(b, w, h, 3))
		default:
			interp, err := geometry.Interpolator(method)
			if err != nil {
				return nil, NoValue, err
			}
			return newBuffer(geometry.ResizeWith(b, w, h, interp))
		}
	}
	return nil, NoValue, fmt.Errorf("command %q is registered but not implemented", spec.Name)
}
