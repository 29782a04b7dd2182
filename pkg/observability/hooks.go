// Package observability lets a binary observe relaxation runs, pipeline
// stages and cache traffic without the core packages depending on any
// metrics or tracing backend.
//
// Library code calls the registered hooks:
//
//	observability.Run().OnStep(ctx, runID, step, elapsed)
//
// and main decides what they do:
//
//	observability.Register(observability.Hooks{
//	    Run:   observability.NewLogHooks(logger),
//	    Cache: observability.NewLogHooks(logger),
//	})
//
// Unregistered categories stay no-ops.
package observability

import (
	"context"
	"sync"
	"time"
)

// RunHooks receives relaxation run events.
type RunHooks interface {
	// OnRunStart fires once initialization placed count points.
	OnRunStart(ctx context.Context, runID string, count int)
	// OnStep fires after each committed step.
	OnStep(ctx context.Context, runID string, step int, duration time.Duration)
	// OnRunComplete fires when a run reaches a terminal state.
	OnRunComplete(ctx context.Context, runID, state string, steps int, duration time.Duration, err error)
}

// PipelineHooks receives image load and render stage events.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, width, height int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType names the cached artifact,
// currently always "points".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// Hooks bundles the three categories. Nil fields are left unchanged by
// Register.
type Hooks struct {
	Run      RunHooks
	Pipeline PipelineHooks
	Cache    CacheHooks
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnRunStart(context.Context, string, int) {}
func (Noop) OnStep(context.Context, string, int, time.Duration) {}
func (Noop) OnRunComplete(context.Context, string, string, int, time.Duration, error) {}
func (Noop) OnLoadStart(context.Context, string) {}
func (Noop) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (Noop) OnRenderStart(context.Context, []string) {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string) {}
func (Noop) OnCacheMiss(context.Context, string) {}
func (Noop) OnCacheSet(context.Context, string, int) {}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Hooks {
	return Hooks{Run: Noop{}, Pipeline: Noop{}, Cache: Noop{}}
}

// Register installs h. Call it at startup, before runs begin.
func Register(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	if h.Run != nil {
		current.Run = h.Run
	}
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Run
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Cache
}

// Reset restores the no-op defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}
