package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger，与父级共享级别
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger
	WithGroup(name string) Logger
}

// Leveler 级别控制接口。
type Leveler interface {
	// SetLevel 调整控制台输出级别，运行时生效
	SetLevel(level Level)

	// GetLevel 返回控制台输出级别
	GetLevel() Level

	// Enabled 判断任一输出是否启用该级别
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel Logger + Leveler。
type LoggerWithLevel interface {
	Logger
	Leveler
}
