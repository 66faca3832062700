package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey 请求链路标识在 Context 与 gin.Keys 中共用的键名
const TraceIDKey = "trace_id"

// TraceID 从 Context 取出链路标识，不存在时返回空串
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

// ContextHandler 在每条日志上追加 Context 里的链路标识
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if id := TraceID(ctx); id != "" {
		r.AddAttrs(log.String(TraceIDKey, id))
	}
	return h.Handler.Handle(ctx, r)
}
