package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-stencil/stencil"
	"github.com/ajroetker/go-stencil/stencil/contrib/converge"
	"github.com/ajroetker/go-stencil/stencil/contrib/image"
	"github.com/ajroetker/go-stencil/stencil/contrib/sharpen"
)

type sharpenFlags struct {
	cfg      converge.Config
	tileMode string
	border   string
	backend  string
	workers  int
}

func newSharpenCmd(root *rootOptions) *cobra.Command {
	f := &sharpenFlags{cfg: converge.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "sharpen IN OUT",
		Short: "Sharpen IN until its variance exceeds threshold times the original, write OUT as PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSharpen(cmd, root, f, args[0], args[1])
		},
	}

	f.bind(cmd.Flags())
	return cmd
}

func (f *sharpenFlags) bind(fl *pflag.FlagSet) {
	fl.Float32Var(&f.cfg.Epsilon, "epsilon", f.cfg.Epsilon, "Sharpening strength per pass")
	fl.IntVar(&f.cfg.TileWidth, "tile-width", f.cfg.TileWidth, "Tile width in pixels")
	fl.IntVar(&f.cfg.TileHeight, "tile-height", f.cfg.TileHeight, "Tile height in pixels")
	fl.Float32Var(&f.cfg.Threshold, "threshold", f.cfg.Threshold, "Stop when variance reaches this multiple of the original")
	fl.IntVar(&f.cfg.MaxIterations, "max-iters", f.cfg.MaxIterations, "Give up after this many passes (0 = unbounded)")
	fl.StringVar(&f.tileMode, "tile-mode", f.cfg.TileMode.String(), "Partial tiles: truncate, reject or cover")
	fl.StringVar(&f.border, "border", f.cfg.Border.String(), "Pixels outside the updated region: keep or copy")
	fl.StringVar(&f.backend, "backend", "", "Backend: scalar, pool or group (default: detected)")
	fl.IntVar(&f.workers, "workers", 0, "Worker count for parallel backends (0 = GOMAXPROCS)")
}

func (f *sharpenFlags) config() (converge.Config, error) {
	cfg := f.cfg
	var err error
	if cfg.TileMode, err = sharpen.ParseTileMode(f.tileMode); err != nil {
		return cfg, err
	}
	if cfg.Border, err = sharpen.ParseBorderMode(f.border); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (f *sharpenFlags) newBackend() (stencil.Backend, error) {
	level := stencil.CurrentLevel()
	if f.backend != "" {
		var err error
		if level, err = stencil.ParseLevel(f.backend); err != nil {
			return nil, err
		}
	}
	return stencil.NewBackend(level, f.workers)
}

func runSharpen(cmd *cobra.Command, root *rootOptions, f *sharpenFlags, in, out string) error {
	cfg, err := f.config()
	if err != nil {
		return err
	}
	be, err := f.newBackend()
	if err != nil {
		return err
	}
	defer be.Close()
	cfg.Backend = be
	cfg.Logger = root.logger

	src, err := image.Load(in)
	if err != nil {
		return err
	}

	res, runErr := converge.Run(cmd.Context(), src, cfg)
	if res == nil {
		return runErr
	}
	if err := image.Save(out, res.Image); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), in, out, be.Name(), res)
	return runErr
}

func printSummary(w io.Writer, in, out, backend string, res *converge.Result) {
	fmt.Fprintf(w, "Input:      %s (%dx%d)\n", in, res.Image.Width(), res.Image.Height())
	fmt.Fprintf(w, "Backend:    %s\n", backend)
	fmt.Fprintf(w, "Original:   %v\n", res.Initial)
	fmt.Fprintf(w, "Final:      %v\n", res.Final)
	if lo, hi, err := image.MinMax(res.Image); err == nil {
		fmt.Fprintf(w, "Range:      [%f, %f] (clamped to [0, 1] on save)\n", lo, hi)
	}
	fmt.Fprintf(w, "Threshold:  %g\n", res.Threshold)
	fmt.Fprintf(w, "Iterations: %d (%s)\n", res.Iterations, res.State)
	fmt.Fprintf(w, "Timings:    init=%v meanvar=%v sharpen=%v total=%v\n",
		res.Timings.Init, res.Timings.MeanVar, res.Timings.Sharpen, res.Timings.Total())
	fmt.Fprintf(w, "Output:     %s\n", out)
}
