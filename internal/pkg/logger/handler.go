package logger

import (
	"context"
	log "log/slog"
)

// TeeHandler 把同一条日志复制给多个下游 Handler
type TeeHandler struct {
	handlers []log.Handler
}

func NewTeeHandler(handlers ...log.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

// Enabled 任一下游接受该级别即接受
func (t *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 逐个分发，首个失败的错误向上抛但不中断其余下游
func (t *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	next := make([]log.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: next}
}

func (t *TeeHandler) WithGroup(name string) log.Handler {
	next := make([]log.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: next}
}
