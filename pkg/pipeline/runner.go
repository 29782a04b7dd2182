package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/geom"
	"github.com/matzehuels/stipple/pkg/observability"
	"github.com/matzehuels/stipple/pkg/relax"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Relaxed is the output of the relax stage.
type Relaxed struct {
	RunID  string       `json:"run_id"`
	Steps  int          `json:"steps"`
	Points []geom.Point `json:"points"`
}

// Execute runs the complete load → relax → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	field, imageHash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.ImageHash = imageHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Width = field.Width()
	result.Stats.Height = field.Height()

	r.Logger.Info("loaded image",
		"width", field.Width(),
		"height", field.Height(),
		"polarity", field.Polarity(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Relax
	relaxStart := time.Now()
	relaxed, hit, err := r.RelaxWithCacheInfo(ctx, field, imageHash, opts)
	if err != nil {
		return nil, fmt.Errorf("relax: %w", err)
	}
	result.RunID = relaxed.RunID
	result.Points = relaxed.Points
	result.Stats.Steps = relaxed.Steps
	result.Stats.RelaxTime = time.Since(relaxStart)
	result.CacheInfo.PointsHit = hit

	r.Logger.Info("relaxed stipples",
		"points", len(relaxed.Points),
		"steps", relaxed.Steps,
		"cached", hit,
		"duration", result.Stats.RelaxTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	scene, err := Compose(relaxed.Points, field, opts)
	if err == nil {
		result.Scene = scene
		result.Artifacts, err = Render(scene, opts.Meta(relaxed.RunID, relaxed.Steps), opts)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input image and builds its density field. The returned
// hash covers the file content, so renamed copies share cache entries.
func (r *Runner) Load(ctx context.Context, opts Options) (*density.Field, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	field, hash, err := r.loadField(opts.Input, opts.Relax.Polarity, opts.MaxSize)

	var w, h int
	if field != nil {
		w, h = field.Width(), field.Height()
	}
	hooks.OnLoadComplete(ctx, opts.Input, w, h, time.Since(start), err)
	return field, hash, err
}

func (r *Runner) loadField(path string, polarity density.Polarity, maxSize int) (*density.Field, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	img, format, err := density.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	orig := img.Bounds()
	img = density.Resize(img, maxSize)
	if img.Bounds() != orig {
		r.Logger.Debug("downscaled image", "format", format,
			"from", fmt.Sprintf("%dx%d", orig.Dx(), orig.Dy()),
			"to", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	}

	field, err := density.FromImage(img, polarity)
	if err != nil {
		return nil, "", err
	}
	return field, cache.Hash(data), nil
}

// RelaxWithCacheInfo runs a static relaxation with caching and returns cache hit info.
// The relaxation itself is not reproducible (centroid sampling is not
// seeded), so a cache hit returns the first point set computed for the
// same inputs. Options.Refresh forces a new relaxation.
func (r *Runner) RelaxWithCacheInfo(ctx context.Context, field *density.Field, imageHash string, opts Options) (Relaxed, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRelax(); err != nil {
		return Relaxed{}, false, err
	}

	hooks := observability.Cache()
	cacheKey := r.Keyer.PointsKey(imageHash, opts.PointsKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Relaxed
			if err := json.Unmarshal(data, &cached); err == nil && len(cached.Points) == opts.Relax.Count {
				hooks.OnCacheHit(ctx, "points")
				r.Logger.Debug("cached points", "image", cache.Short(imageHash), "run", cached.RunID)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, "points")
	}

	relaxed, err := r.Relax(ctx, field, opts)
	if err != nil {
		return Relaxed{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(relaxed); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPoints); err == nil {
			hooks.OnCacheSet(ctx, "points", len(data))
		} else {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}

	return relaxed, false, nil
}

// Relax runs a static relaxation without consulting the cache.
// Step events are forwarded to opts.Sink.
func (r *Runner) Relax(ctx context.Context, field *density.Field, opts Options) (Relaxed, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRelax(); err != nil {
		return Relaxed{}, err
	}

	run, err := relax.NewRun(opts.Relax, relax.Static, field, relax.WithLogger(opts.Logger))
	if err != nil {
		return Relaxed{}, err
	}
	if err := relax.RunStatic(ctx, run, opts.Sink); err != nil {
		return Relaxed{}, err
	}
	return Relaxed{RunID: run.ID(), Steps: run.Steps(), Points: run.Points()}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
