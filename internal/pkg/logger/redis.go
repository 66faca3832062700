package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSlowThreshold = 100 * time.Millisecond

// RedisLoggerHook 以客户端钩子的形式记录连接与命令情况
type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "redis dial failed",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		name := cmd.Name()
		args := fmt.Sprint(cmd.Args())
		// 鉴权类命令不落参数
		if name == "auth" || name == "hello" {
			args = "[PROTECTED]"
		}

		fields := []any{
			log.String("command", name),
			log.String("args", args),
			log.Duration("latency", elapsed),
		}

		if err != nil {
			if !redisErrWorthLogging(name, err) {
				return err
			}
			log.ErrorContext(ctx, "redis command failed", append(fields, log.Any("err", err))...)
			return err
		}
		if elapsed > redisSlowThreshold {
			log.WarnContext(ctx, "redis command slow", fields...)
		}
		return nil
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if err != nil {
			log.ErrorContext(ctx, "redis pipeline failed",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", elapsed),
				log.Any("err", err),
			)
			return err
		}
		if elapsed > redisSlowThreshold {
			log.WarnContext(ctx, "redis pipeline slow",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", elapsed),
			)
		}
		return nil
	}
}

// redisErrWorthLogging 过滤掉未命中与客户端握手噪音
func redisErrWorthLogging(cmdName string, err error) bool {
	if errors.Is(err, redis.Nil) {
		return false
	}
	if cmdName == "client" && strings.Contains(err.Error(), "setinfo") {
		return false
	}
	return true
}
