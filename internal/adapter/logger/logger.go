package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"

	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type LoggerAdapter struct {
	logger *slog.Logger
}

func NewLoggerAdapter(env string) ports.LoggerPort {
	return NewLoggerAdapterTo(env, os.Stdout)
}

// NewLoggerAdapterTo is NewLoggerAdapter writing to w.
func NewLoggerAdapterTo(env string, w io.Writer) ports.LoggerPort {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return &LoggerAdapter{
		logger: log,
	}
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelInfo, msg, fields)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelError, msg, fields)
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelDebug, msg, fields)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelWarn, msg, fields)
}

func (l *LoggerAdapter) InfoContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *LoggerAdapter) ErrorContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *LoggerAdapter) WarnContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *LoggerAdapter) log(ctx context.Context, level slog.Level, msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Log(ctx, level, msg)
		return
	}
	l.logger.Log(ctx, level, msg, slog.Any("fields", expandErrors(fields)))
}

// expandErrors replaces oops errors in fields with their message, code and context.
func expandErrors(fields map[string]interface{}) map[string]interface{} {
	out := fields
	copied := false
	for k, v := range fields {
		err, ok := v.(error)
		if !ok {
			continue
		}
		if !copied {
			out = make(map[string]interface{}, len(fields))
			for fk, fv := range fields {
				out[fk] = fv
			}
			copied = true
		}
		oopsErr, ok := oops.AsOops(err)
		if !ok {
			out[k] = err.Error()
			continue
		}
		expanded := map[string]interface{}{"message": oopsErr.Error()}
		if code := oopsErr.Code(); code != "" {
			expanded["code"] = code
		}
		if c := oopsErr.Context(); len(c) > 0 {
			expanded["context"] = c
		}
		out[k] = expanded
	}
	return out
}

var _ ports.LoggerPort = (*LoggerAdapter)(nil)
