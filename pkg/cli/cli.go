// Package cli is the photofix command line: it decodes files, runs command
// pipelines through the engine, encodes the results, and keeps the binary
// up to date.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Fepozopo/photofix/pkg/config"
	"github.com/Fepozopo/photofix/pkg/engine"
)

// App carries what every subcommand needs.
type App struct {
	Config config.Config
	Log    zerolog.Logger
	Engine *engine.Engine
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewApp wires an engine and logger from cfg, logging to stderr.
func NewApp(cfg config.Config) *App {
	log := cfg.Logger(os.Stderr)
	return &App{
		Config: cfg,
		Log:    log,
		Engine: engine.New(log),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.Stdout, "Usage:")
	fmt.Fprintln(a.Stdout, "  photofix run [-o out] <input> <command> [args...] [-- <command> [args...]]...")
	fmt.Fprintln(a.Stdout, "  photofix batch -o <dir> [-j jobs] [-ext .png] <command> [args...] [-- <command> ...] -- <files...>")
	fmt.Fprintln(a.Stdout, "  photofix info <files...>")
	fmt.Fprintln(a.Stdout, "  photofix commands [name...]")
	fmt.Fprintln(a.Stdout, "  photofix version")
	fmt.Fprintln(a.Stdout, "  photofix update")
}

// Main loads configuration, runs the subcommand named in args and returns
// the process exit code.
func Main(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 2
	}
	cfg.ApplyRuntime()
	app := NewApp(cfg)
	if err := app.Run(context.Background(), args); err != nil {
		fmt.Fprintf(app.Stderr, "photofix: %v\n", err)
		return 1
	}
	return 0
}

// Run dispatches one subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errors.New("no subcommand given")
	}
	switch args[0] {
	case "run":
		return a.runCmd(ctx, args[1:])
	case "batch":
		return a.batchCmd(ctx, args[1:])
	case "info":
		return a.infoCmd(args[1:])
	case "commands":
		return a.listCommands(args[1:])
	case "version":
		fmt.Fprintln(a.Stdout, Version)
		return nil
	case "update":
		return CheckForUpdates(a.Config.UpdateRepo, a.Stdin, a.Stdout)
	case "help", "-h", "--help":
		a.usage()
		return nil
	}
	a.usage()
	return fmt.Errorf("unknown subcommand %q", args[0])
}

// defaultOutput names the result next to the input: photo.jpg -> photo_fixed.jpg.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_fixed" + ext
}

func (a *App) runCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	out := fs.String("o", "", "output file (default <input>_fixed.<ext>)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return errors.New("run needs an input file and at least one command")
	}
	input := rest[0]
	steps, err := engine.ParseSteps(rest[1:])
	if err != nil {
		return err
	}
	if *out == "" {
		*out = defaultOutput(input)
	}
	return a.process(ctx, input, *out, steps)
}

// process loads input, runs steps and writes output.
func (a *App) process(ctx context.Context, input, output string, steps []engine.Step) error {
	b, format, err := LoadImage(input)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", input, err)
	}
	a.Log.Debug().Str("file", input).Str("info", ImageInfo(b, format)).Msg("loaded")
	b, err = a.Engine.Run(ctx, b, steps)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := SaveImage(output, b, a.Config.JPEGQuality); err != nil {
		return fmt.Errorf("failed to write image %s: %w", output, err)
	}
	a.Log.Info().Str("input", input).Str("output", output).Int("width", b.W).Int("height", b.H).Msg("saved")
	return nil
}

func (a *App) batchCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	dir := fs.String("o", "", "output directory (required)")
	jobs := fs.Int("j", 0, "files processed at once (default GOMAXPROCS)")
	ext := fs.String("ext", "", "output extension, e.g. .png (default: keep the input's)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("batch needs an output directory (-o)")
	}
	rest := fs.Args()
	sep := -1
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == "--" {
			sep = i
			break
		}
	}
	if sep <= 0 || sep == len(rest)-1 {
		return errors.New("batch needs <command> [args...] -- <files...>")
	}
	steps, err := engine.ParseSteps(rest[:sep])
	if err != nil {
		return err
	}
	files := rest[sep+1:]
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", *dir, err)
	}

	limit := *jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, f := range files {
		f := f
		name := filepath.Base(f)
		if *ext != "" {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + *ext
		}
		output := filepath.Join(*dir, name)
		g.Go(func() error {
			return a.process(gctx, f, output, steps)
		})
	}
	return g.Wait()
}

func (a *App) infoCmd(files []string) error {
	if len(files) == 0 {
		return errors.New("info needs at least one file")
	}
	for _, f := range files {
		b, format, err := LoadImage(f)
		if err != nil {
			return fmt.Errorf("failed to read image %s: %w", f, err)
		}
		fmt.Fprintf(a.Stdout, "%s: %s\n", f, ImageInfo(b, format))
	}
	return nil
}

// listCommands prints the registry, or the full help of the named commands.
func (a *App) listCommands(names []string) error {
	if len(names) > 0 {
		for _, n := range names {
			c, ok := engine.Lookup(n)
			if !ok {
				return fmt.Errorf("unknown command %q", n)
			}
			fmt.Fprintln(a.Stdout, c.Help())
		}
		return nil
	}
	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 2, ' ', 0)
	for _, c := range engine.Commands {
		fmt.Fprintf(tw, "%s\t%s\n", c.Usage, c.Description)
	}
	return tw.Flush()
}
