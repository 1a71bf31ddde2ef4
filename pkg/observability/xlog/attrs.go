package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 key。
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyPath      = "path"
	KeySystem    = "system"
	KeyKey       = "key"
	KeySection   = "section"
)

// Err 错误属性，err 为 nil 时返回空属性（被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 耗时属性，人类可读格式（如 "1.5s"）。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名属性。
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 操作名属性。
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 计数属性。
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Path 文件路径属性。
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// System 配置系统名属性。
func System(name string) slog.Attr {
	return slog.String(KeySystem, name)
}

// Key 配置键属性。
func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

// Section 配置分区属性。
func Section(name string) slog.Attr {
	return slog.String(KeySection, name)
}
