package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const (
	mongoSlowThreshold = 200 * time.Millisecond
	mongoDetailLimit   = 1000
)

// NewMongoMonitor 返回驱动的命令监控器，把每条命令的生命周期写进日志
func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			detail := evt.Command.String()
			if len(detail) > mongoDetailLimit {
				detail = detail[:mongoDetailLimit] + "...[truncated]"
			}
			log.InfoContext(ctx, "mongo command started",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
				log.String("detail", detail),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			fields := []any{
				log.String("command", evt.CommandName),
				log.Int64("request_id", evt.RequestID),
				log.Duration("latency", evt.Duration),
			}
			if evt.Duration > mongoSlowThreshold {
				log.WarnContext(ctx, "mongo command slow", fields...)
				return
			}
			log.InfoContext(ctx, "mongo command succeeded", fields...)
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "mongo command failed",
				log.String("command", evt.CommandName),
				log.Int64("request_id", evt.RequestID),
				log.Duration("latency", evt.Duration),
				log.Any("err", evt.Failure),
			)
		},
	}
}
