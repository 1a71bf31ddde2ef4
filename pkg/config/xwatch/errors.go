package xwatch

import "errors"

var (
	// ErrInvalidOptions 表示选项校验失败。
	ErrInvalidOptions = errors.New("xwatch: invalid options")

	// ErrNilTrigger 表示未提供取消触发器。
	ErrNilTrigger = errors.New("xwatch: trigger is required")
)
