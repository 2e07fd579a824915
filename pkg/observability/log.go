package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every pipeline and cache event to a logger at debug
// level. Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l. A nil l uses log.Default().
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnDecodeStart(_ context.Context, name, format string) {
	h.logger.Debug("decode start", "input", name, "format", format)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, name string, entities int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("decode failed", "input", name, "err", err)
		return
	}
	h.logger.Debug("decoded", "input", name, "entities", entities, "took", d)
}

func (h *LogHooks) OnEncodeStart(_ context.Context, name string, entities int) {
	h.logger.Debug("encode start", "input", name, "entities", entities)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, name string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("encode failed", "input", name, "err", err)
		return
	}
	h.logger.Debug("encoded", "input", name, "bytes", size, "took", d)
}

func (h *LogHooks) OnWriteStart(_ context.Context, path string) {
	h.logger.Debug("write start", "path", path)
}

func (h *LogHooks) OnWriteComplete(_ context.Context, path string, size int, err error) {
	if err != nil {
		h.logger.Warn("write failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("wrote", "path", path, "bytes", size)
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", shortKey(key))
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", shortKey(key))
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", shortKey(key), "bytes", size)
}

// shortKey trims hash-based keys for display.
func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
