// Package pipeline provides the image-to-stipple pipeline for stipple.
//
// This package implements the complete load → relax → render pipeline used
// by the CLI. Centralizing it keeps the generate command, the animated view
// and snapshot export consistent.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode the source image, optionally downscale it and build a
//     density field
//  2. Relax: Place stipples and run a static Lloyd relaxation
//  3. Render: Generate output in various formats (SVG, PNG, JSON, CSV)
//
// Relaxed point sets are cached by image content and relaxation
// parameters, so re-rendering with a different style skips the expensive
// stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "portrait.jpg",
//	    Relax:   relax.DefaultConfig(),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/render"
)

// DefaultMaxSize bounds the longer image side before relaxation.
// Zero disables downscaling.
const DefaultMaxSize = 0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatCSV:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the stipple pipeline.
type Options struct {
	// Load options
	Input   string `json:"input"`
	MaxSize int    `json:"max_size,omitempty"`

	// Relax options
	Relax   relax.Config `json:"relax"`
	Refresh bool         `json:"refresh,omitempty"`

	// Render options
	Formats []string     `json:"formats,omitempty"`
	Style   render.Style `json:"style"`
	Cells   bool         `json:"cells,omitempty"`
	Title   string       `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Sink   relax.Sink  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the relaxation that produced Points.
	RunID string

	// ImageHash is the content hash of the source file.
	ImageHash string

	// Points are the relaxed stipples in image coordinates.
	Points []geom.Point

	// Scene is the composed drawing the artifacts were rendered from.
	Scene render.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width      int
	Height     int
	Steps      int
	LoadTime   time.Duration
	RelaxTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PointsHit bool // Whether the relaxed points came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRelax(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input path and size limit.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidateImagePath(o.Input); err != nil {
		return err
	}
	if o.MaxSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max size must not be negative, got %d", o.MaxSize)
	}
	o.setLogger()
	return nil
}

// SetRelaxDefaults fills unset relaxation parameters. A zero Config
// becomes relax.DefaultConfig(); otherwise only zero counts are replaced,
// since a zero cutoff or seed is meaningful.
func (o *Options) SetRelaxDefaults() {
	if o.Relax == (relax.Config{}) {
		o.Relax = relax.DefaultConfig()
	}
	if o.Relax.Count == 0 {
		o.Relax.Count = relax.DefaultCount
	}
	if o.Relax.Iterations == 0 {
		o.Relax.Iterations = relax.DefaultIterations
	}
	if o.Relax.Samples == 0 {
		o.Relax.Samples = relax.DefaultSamples
	}
	o.setLogger()
}

// ValidateForRelax validates and sets defaults for a static relaxation.
func (o *Options) ValidateForRelax() error {
	o.SetRelaxDefaults()
	return o.Relax.Validate(relax.Static)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == (render.Style{}) {
		o.Style = render.DefaultStyle()
	}
	if o.Style.Scale == 0 {
		o.Style.Scale = 1
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return o.Style.Validate()
}

// PointsKeyOpts returns cache key options for point set caching.
func (o *Options) PointsKeyOpts() cache.PointsKeyOpts {
	return cache.PointsKeyOpts{
		Count:           o.Relax.Count,
		Iterations:      o.Relax.Iterations,
		Samples:         o.Relax.Samples,
		WhiteCutoff:     o.Relax.WhiteCutoff,
		Polarity:        o.Relax.Polarity.String(),
		Seed:            o.Relax.Seed,
		RejectionBudget: o.Relax.RejectionBudget,
		MaxSize:         o.MaxSize,
	}
}

// Meta returns the JSON export metadata for a finished relaxation.
func (o *Options) Meta(runID string, steps int) render.Meta {
	return render.Meta{
		RunID:      runID,
		Source:     o.Input,
		Steps:      steps,
		Count:      o.Relax.Count,
		Iterations: o.Relax.Iterations,
		Samples:    o.Relax.Samples,
		Cutoff:     o.Relax.WhiteCutoff,
		Seed:       o.Relax.Seed,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s (%d stipples, %s)", o.Input, o.Relax.Count, o.Relax.Polarity)
}
