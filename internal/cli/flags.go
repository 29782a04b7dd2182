package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/render"
)

// stippleFlags are the relaxation and style flags shared by generate and
// animate. Only flags the user set override the loaded config.
type stippleFlags struct {
	count      int
	iterations int
	samples    int
	cutoff     float64
	polarity   string
	seed       int64
	workers    int

	minDot   float64
	dotRange float64
	scale    float64
	width    int
	height   int
	colorize bool

	maxSize int
	cells   bool
	formats string
	title   string
}

// register adds the flags to cmd. Animated runs have no iteration count.
func (f *stippleFlags) register(cmd *cobra.Command, static bool) {
	cfg := relax.DefaultConfig()
	style := render.DefaultStyle()

	fl := cmd.Flags()
	fl.IntVarP(&f.count, "count", "n", cfg.Count, "number of stipples")
	if static {
		fl.IntVarP(&f.iterations, "iterations", "i", cfg.Iterations, "relaxation steps")
	}
	fl.IntVar(&f.samples, "samples", cfg.Samples, "Monte Carlo samples per centroid")
	fl.Float64Var(&f.cutoff, "cutoff", cfg.WhiteCutoff, "minimum density for initial placement (0-1)")
	fl.StringVar(&f.polarity, "polarity", cfg.Polarity.String(), "dark-on-light or light-on-dark")
	fl.Int64Var(&f.seed, "seed", cfg.Seed, "seed for initial placement")
	fl.IntVar(&f.workers, "workers", cfg.Workers, "parallel centroid workers (0 = all CPUs)")

	fl.Float64Var(&f.minDot, "min-dot", style.MinDotSize, "minimum dot radius")
	fl.Float64Var(&f.dotRange, "dot-range", style.DotSizeRange, "extra radius at full density")
	fl.Float64Var(&f.scale, "scale", style.Scale, "canvas size relative to the image")
	fl.IntVar(&f.width, "width", 0, "canvas width (fits the image inside)")
	fl.IntVar(&f.height, "height", 0, "canvas height (fits the image inside)")
	fl.BoolVar(&f.colorize, "colorize", style.Colorize, "color dots from the image")

	fl.IntVar(&f.maxSize, "max-size", 0, "downscale images whose longer side exceeds this")
	fl.BoolVar(&f.cells, "cells", false, "draw Voronoi cell outlines")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, json, csv (comma-separated)")
	fl.StringVar(&f.title, "title", "", "SVG document title")
}

// apply overrides opts with every flag the user changed.
func (f *stippleFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	changed := cmd.Flags().Changed

	if changed("count") {
		opts.Relax.Count = f.count
	}
	if changed("iterations") {
		opts.Relax.Iterations = f.iterations
	}
	if changed("samples") {
		opts.Relax.Samples = f.samples
	}
	if changed("cutoff") {
		opts.Relax.WhiteCutoff = f.cutoff
	}
	if changed("polarity") {
		p, err := density.ParsePolarity(f.polarity)
		if err != nil {
			return err
		}
		opts.Relax.Polarity = p
	}
	if changed("seed") {
		opts.Relax.Seed = f.seed
	}
	if changed("workers") {
		opts.Relax.Workers = f.workers
	}

	if changed("min-dot") {
		opts.Style.MinDotSize = f.minDot
	}
	if changed("dot-range") {
		opts.Style.DotSizeRange = f.dotRange
	}
	if changed("scale") {
		opts.Style.Scale = f.scale
	}
	if changed("width") {
		opts.Style.Width = f.width
	}
	if changed("height") {
		opts.Style.Height = f.height
	}
	if changed("colorize") {
		opts.Style.Colorize = f.colorize
	}

	if changed("max-size") {
		opts.MaxSize = f.maxSize
	}
	if changed("cells") {
		opts.Cells = f.cells
	}
	if formats := parseFormats(f.formats); formats != nil {
		opts.Formats = formats
	}
	opts.Title = f.title
	return nil
}

// buildOptions resolves config file and flags into pipeline options for
// input.
func (c *CLI) buildOptions(cmd *cobra.Command, f *stippleFlags, input string) (pipeline.Options, error) {
	file, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	var opts pipeline.Options
	file.Apply(&opts)
	if err := f.apply(cmd, &opts); err != nil {
		return pipeline.Options{}, err
	}
	opts.Input = input
	opts.Logger = c.Logger
	return opts, nil
}
