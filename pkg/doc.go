// Package pkg provides the core libraries for Stipple weighted Voronoi
// stippling.
//
// # Overview
//
// Stipple turns a raster image into a set of dots whose local density
// follows the image's darkness. Points are seeded by rejection sampling and
// then moved, step by step, to the density-weighted centroids of their
// Voronoi cells (Lloyd relaxation). The pkg directory is organized into
// these areas:
//
//  1. [density], [rng], [geom] - Inputs and primitives (weight field,
//     seeded generator, points and polygons)
//  2. [voronoi], [relax] - The algorithm (partitioning, centroid estimation,
//     the run state machine)
//  3. [render], [telemetry] - Outputs (SVG/PNG/JSON/CSV and per-step
//     statistics)
//  4. [pipeline], [cache], [config] - Orchestration (load → relax → render
//     with point caching and file configuration)
//
// # Architecture
//
// The typical data flow through Stipple:
//
//	Image file (PNG, JPEG, GIF, BMP, TIFF, WebP)
//	         ↓
//	    [density] package (decode, downscale, weight field)
//	         ↓
//	    [relax] package (initialize + Lloyd steps over [voronoi] cells)
//	         ↓
//	    [render] package (compose dots into a scene)
//	         ↓
//	    SVG/PNG/JSON/CSV output
//
// # Quick Start
//
// Stipple an image with default settings:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/stipple/pkg/cache"
//	    "github.com/matzehuels/stipple/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Input:   "portrait.jpg",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// For finer control, drive a run directly:
//
//	field, _ := density.LoadField("portrait.jpg", density.DarkOnLight, 512)
//	run, _ := relax.NewRun(relax.DefaultConfig(), relax.Static, field)
//	_ = relax.RunStatic(ctx, run, nil)
//	scene := render.Compose(run.Points(), field, render.DefaultStyle())
//
// # Animated Runs
//
// A run created in [relax.Animated] mode never completes on its own. Call
// [relax.Run.Tick] from a UI loop (or use [relax.Schedule]); steps are
// spaced by the configured cadence. A [relax.Driver] holds the current run
// and cancels it when a new one starts.
//
// # Error Handling
//
// All packages report failures through [errors.Error] with a machine
// readable code. Invalid parameters surface as [errors.ErrCodeInvalidInput]
// before any work starts; unreadable images as
// [errors.ErrCodeInvalidFormat].
//
// # Observability
//
// The [observability] package exposes hooks for run, pipeline and cache
// events. They default to no-ops and can be replaced at startup.
package pkg
