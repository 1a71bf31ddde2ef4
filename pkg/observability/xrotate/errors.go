package xrotate

import "errors"

var (
	// ErrEmptyFilename 文件名为空。
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidConfig 配置字段超出范围。
	ErrInvalidConfig = errors.New("xrotate: invalid config")

	// ErrNoCleanupPolicy MaxBackups 与 MaxAgeDays 同时为 0。
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")

	// ErrClosed 轮转器已关闭。
	ErrClosed = errors.New("xrotate: rotator is closed")
)
