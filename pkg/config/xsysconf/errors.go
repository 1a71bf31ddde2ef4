package xsysconf

import "errors"

var (
	// ErrWrongSystem 表示操作不适用于该配置系统。
	ErrWrongSystem = errors.New("xsysconf: operation not supported for this system")

	// ErrInvalidValue 表示写入值无法按声明类型解析，或写出后无法原样读回。
	ErrInvalidValue = errors.New("xsysconf: value does not match declared type")

	// ErrTypeMismatch 表示读取值与请求的 Go 类型不一致。
	ErrTypeMismatch = errors.New("xsysconf: type mismatch")
)
