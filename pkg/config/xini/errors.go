package xini

import "errors"

var (
	// ErrInvalidSection 表示分区名无法写出。
	ErrInvalidSection = errors.New("xini: invalid section name")

	// ErrParse 表示 INI 内容无法解析。
	ErrParse = errors.New("xini: parse failed")

	// ErrUnstableValue 表示值写出后无法原样读回。
	ErrUnstableValue = errors.New("xini: value does not survive encoding")
)
