package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// mirrorErrors decides whether error records are copied to the secondary
// (stderr) handler. Interactive views turn it off while they own the screen.
var mirrorErrors atomic.Bool

func init() {
	mirrorErrors.Store(true)
}

func EnableErrorMirroring() {
	mirrorErrors.Store(true)
}

func DisableErrorMirroring() {
	mirrorErrors.Store(false)
}

// NewDualHandler fans records out to primary (usually the log file) and,
// for error records only, to secondary. Either handler may be nil.
func NewDualHandler(primary slog.Handler, secondary slog.Handler) slog.Handler {
	return &dualHandler{primary: primary, secondary: secondary}
}

type dualHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primaryEnabled(ctx, level) || h.secondaryEnabled(ctx, level)
}

func (h *dualHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.primaryEnabled(ctx, record.Level) {
		if err := h.primary.Handle(ctx, record); err != nil {
			return err
		}
	}
	if h.secondaryEnabled(ctx, record.Level) {
		return h.secondary.Handle(ctx, record.Clone())
	}
	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *dualHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	rv := &dualHandler{}
	if h.primary != nil {
		rv.primary = fn(h.primary)
	}
	if h.secondary != nil {
		rv.secondary = fn(h.secondary)
	}
	return rv
}

func (h *dualHandler) primaryEnabled(ctx context.Context, level slog.Level) bool {
	return h.primary != nil && h.primary.Enabled(ctx, level)
}

func (h *dualHandler) secondaryEnabled(ctx context.Context, level slog.Level) bool {
	return h.secondary != nil &&
		level >= slog.LevelError &&
		mirrorErrors.Load() &&
		h.secondary.Enabled(ctx, level)
}
