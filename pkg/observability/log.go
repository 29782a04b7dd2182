package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Step events are
// sampled to every Nth step so long animated runs stay readable.
type LogHooks struct {
	logger    *log.Logger
	stepEvery int
}

// NewLogHooks returns hooks logging through l with every step reported.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("trace"), stepEvery: 1}
}

// EveryStep sets the step sampling interval. n < 1 means every step.
func (h *LogHooks) EveryStep(n int) *LogHooks {
	h.stepEvery = max(n, 1)
	return h
}

// All returns h registered for every category.
func (h *LogHooks) All() Hooks {
	return Hooks{Run: h, Pipeline: h, Cache: h}
}

func (h *LogHooks) OnRunStart(_ context.Context, runID string, count int) {
	h.logger.Debug("run started", "run", runID, "points", count)
}

func (h *LogHooks) OnStep(_ context.Context, runID string, step int, d time.Duration) {
	if step%h.stepEvery == 0 {
		h.logger.Debug("step", "run", runID, "n", step, "duration", d)
	}
}

func (h *LogHooks) OnRunComplete(_ context.Context, runID, state string, steps int, d time.Duration, err error) {
	kv := []any{"run", runID, "state", state, "steps", steps, "duration", d}
	if err != nil {
		kv = append(kv, "err", err)
	}
	h.logger.Debug("run finished", kv...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load", "path", path)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, path string, w, hgt int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("loaded", "path", path, "width", w, "height", hgt, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("rendered", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
