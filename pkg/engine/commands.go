// Package engine: registry of the commands understood by Engine.Apply.
//
// Keep this list in step with the switch in engine.go so the CLI help and
// the arity checks read a single source of truth.

package engine

import (
	"fmt"
	"strings"
)

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "point", "points", "enum"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// required is the number of leading mandatory arguments.
func (c CommandSpec) required() int {
	n := 0
	for _, a := range c.Args {
		if a.Required {
			n++
		}
	}
	return n
}

// checkArity reports an error naming the usage line when args does not fit c.
func (c CommandSpec) checkArity(args []string) error {
	if len(args) < c.required() || len(args) > len(c.Args) {
		if len(c.Args) == 0 {
			return fmt.Errorf("%s takes no args", c.Name)
		}
		return fmt.Errorf("%s expects %d to %d args: usage: %s", c.Name, c.required(), len(c.Args), c.Usage)
	}
	return nil
}

// Help renders the description and one line per argument.
func (c CommandSpec) Help() string {
	var sb strings.Builder
	sb.WriteString(c.Usage + "\n")
	if c.Description != "" {
		sb.WriteString("  " + c.Description + "\n")
	}
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "  - %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Lookup returns the command called name. Matching ignores case.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CommandSpec{}, false
}

func pointArg(name, desc string) ArgSpec {
	return ArgSpec{name, "point", true, "", desc + " as x,y"}
}

// Commands is the authoritative list of commands implemented by the engine.
var Commands = []CommandSpec{
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Replace every pixel by its integer luma (11R+16G+5B)/32.",
	},
	{
		Name:        "invert",
		Args:        []ArgSpec{},
		Usage:       "invert",
		Description: "Invert the color channels.",
	},
	{
		Name:        "gamma",
		Args:        []ArgSpec{{"gamma", "float", true, "", "gamma value (>0, 1 = unchanged)"}},
		Usage:       "gamma <gamma>",
		Description: "Apply gamma correction.",
	},
	{
		Name:        "otsu",
		Args:        []ArgSpec{},
		Usage:       "otsu",
		Description: "Binarize at the global Otsu threshold and report it.",
	},
	{
		Name:        "threshold",
		Args:        []ArgSpec{{"value", "int", true, "", "gray level 0..255; brighter pixels turn white"}},
		Usage:       "threshold <value>",
		Description: "Binarize at a fixed gray level.",
	},
	{
		Name:        "adaptiveThreshold",
		Args:        []ArgSpec{{"t", "float", false, "0.15", "fraction below the local mean that turns black"}, {"window", "int", false, "0", "window side (0 = max(16, width/32))"}},
		Usage:       "adaptiveThreshold [t] [window]",
		Description: "Binarize against the local mean (integral image).",
	},
	{
		Name:        "gaussianBlur",
		Args:        []ArgSpec{{"radius", "int", true, "", "kernel radius"}, {"sigma", "float", false, "0", "sigma (0 = radius/2)"}},
		Usage:       "gaussianBlur <radius> [sigma]",
		Description: "Separable Gaussian blur.",
	},
	{
		Name:        "boxBlur",
		Args:        []ArgSpec{{"radius", "int", true, "", "box radius"}},
		Usage:       "boxBlur <radius>",
		Description: "Box (mean) blur with sliding sums.",
	},
	{
		Name:        "medianFilter",
		Args:        []ArgSpec{{"radius", "int", true, "", "median radius"}},
		Usage:       "medianFilter <radius>",
		Description: "Median filter (skip-list rank window).",
	},
	{
		Name:        "despeckle",
		Args:        []ArgSpec{},
		Usage:       "despeckle",
		Description: "Crimmins speckle removal.",
	},
	{
		Name:        "unsharpMask",
		Args:        []ArgSpec{{"factor", "float", false, "1.0", "sharpening strength"}, {"threshold", "int", false, "5", "minimum difference to sharpen"}},
		Usage:       "unsharpMask [factor] [threshold]",
		Description: "Sharpen against a radius-1 box blur.",
	},
	{
		Name:        "sigmoidalContrast",
		Args:        []ArgSpec{{"midpoint", "float", false, "0.5", "curve midpoint 0..1"}, {"contrast", "float", false, "3", "curve steepness"}},
		Usage:       "sigmoidalContrast [midpoint] [contrast]",
		Description: "Increase contrast with a sigmoid curve.",
	},
	{
		Name:        "stretchContrast",
		Args:        []ArgSpec{},
		Usage:       "stretchContrast",
		Description: "Stretch the 0.5..99.5 percentile brightness window to the full range.",
	},
	{
		Name:        "autoWhiteBalance",
		Args:        []ArgSpec{},
		Usage:       "autoWhiteBalance",
		Description: "Stretch each channel's 0.5..99.5 percentile window to the full range.",
	},
	{
		Name:        "grayWorld",
		Args:        []ArgSpec{},
		Usage:       "grayWorld",
		Description: "Scale channels so their means meet.",
	},
	{
		Name:        "enhanceColor",
		Args:        []ArgSpec{},
		Usage:       "enhanceColor",
		Description: "Stretch chroma in HCL space.",
	},
	{
		Name:        "vignette",
		Args:        []ArgSpec{{"strength", "float_or_percent", false, "0.6", "darkening at the radius (0..1 or 60%)"}, {"radius", "float", false, "0", "radius (0 = half diagonal)"}, {"sigma", "float", false, "0", "falloff (0 = radius/3)"}, {"x", "float", false, "-1", "center x (<0 = middle)"}, {"y", "float", false, "-1", "center y (<0 = middle)"}},
		Usage:       "vignette [strength] [radius] [sigma] [x] [y]",
		Description: "Darken towards the corners.",
	},
	{
		Name:        "pencilSketch",
		Args:        []ArgSpec{{"radius", "int", false, "5", "blur radius of the dodge layer (>=1)"}},
		Usage:       "pencilSketch [radius]",
		Description: "Render a gray pencil drawing by colour-dodging the blurred negative.",
	},
	{
		Name:        "addNoise",
		Args:        []ArgSpec{{"type", "enum", false, "gaussian", "gaussian|uniform|poisson|saltpepper"}, {"amount", "float", false, "10", "noise strength"}, {"seed", "int", false, "0", "random seed"}},
		Usage:       "addNoise [type] [amount] [seed]",
		Description: "Add seeded noise.",
	},
	{
		Name:        "expandBorder",
		Args:        []ArgSpec{{"width", "int", true, "", "border width"}},
		Usage:       "expandBorder <width>",
		Description: "Grow the canvas by replicating edge pixels.",
	},
	{
		Name: "crop",
		Args: []ArgSpec{
			{"x", "int", true, "", "left edge"},
			{"y", "int", true, "", "top edge"},
			{"width", "int", true, "", "width of the kept region"},
			{"height", "int", true, "", "height of the kept region"},
		},
		Usage:       "crop <x> <y> <width> <height>",
		Description: "Keep a rectangle of the image.",
	},
	{
		Name:        "mirror",
		Args:        []ArgSpec{{"vertical", "bool", false, "false", "flip top to bottom instead of left to right"}},
		Usage:       "mirror [vertical]",
		Description: "Reflect the image.",
	},
	{
		Name: "lensDistortion",
		Args: []ArgSpec{
			{"main", "float", true, "", "r² correction, -100..100 (positive undoes pincushion)"},
			{"edge", "float", false, "0", "r⁴ correction, -100..100"},
			{"zoom", "float", false, "0", "zoom, -100..100"},
		},
		Usage:       "lensDistortion <main> [edge] [zoom]",
		Description: "Correct radial lens distortion around the centre.",
	},
	{
		Name: "perspective",
		Args: []ArgSpec{
			pointArg("topLeft", "top-left corner"),
			pointArg("topRight", "top-right corner"),
			pointArg("bottomRight", "bottom-right corner"),
			pointArg("bottomLeft", "bottom-left corner"),
			{"isometric", "bool", false, "false", "size the result from the corners' mean and spread"},
			{"scale", "float", false, "1", "display scale the corners were picked at"},
		},
		Usage:       "perspective <x,y> <x,y> <x,y> <x,y> [isometric] [scale]",
		Description: "Map a quadrilateral onto an upright rectangle.",
	},
	{
		Name: "deoblique",
		Args: []ArgSpec{
			pointArg("left", "left end of the horizontal guide"),
			pointArg("right", "right end of the horizontal guide"),
			pointArg("top", "top end of the vertical guide"),
			pointArg("bottom", "bottom end of the vertical guide"),
		},
		Usage:       "deoblique <x,y> <x,y> <x,y> <x,y>",
		Description: "Level a leaning image with two guide lines.",
	},
	{
		Name: "dewarp",
		Args: []ArgSpec{
			{"upper", "points", true, "", "upper contour x,y;x,y;..."},
			{"lower", "points", true, "", "lower contour x,y;x,y;..."},
			{"lagrange", "bool", false, "false", "follow the contour with 4-point polynomials"},
			{"equalArea", "bool", false, "false", "stretch the three zones separately"},
		},
		Usage:       "dewarp <x,y;x,y;...> <x,y;x,y;...> [lagrange] [equalArea]",
		Description: "Straighten a curved page between two contours.",
	},
	{
		Name:        "resize",
		Args:        []ArgSpec{{"width", "int", true, "", "output width"}, {"height", "int", true, "", "output height"}, {"method", "enum", false, "bicubic", "bicubic|lanczos|nearest|approxbilinear|bilinear|catmullrom"}},
		Usage:       "resize <width> <height> [method]",
		Description: "Resize image (bicubic by default).",
	},
}
