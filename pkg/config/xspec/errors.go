package xspec

import "errors"

var (
	// ErrUnsupportedFormat 表示规格文件扩展名不受支持。
	ErrUnsupportedFormat = errors.New("xspec: unsupported spec format")

	// ErrEmptySpec 表示规格文件没有任何条目。
	ErrEmptySpec = errors.New("xspec: specification has no entries")

	// ErrInvalidEntry 表示规格条目不合法（如缺少 type）。
	ErrInvalidEntry = errors.New("xspec: invalid specification entry")
)
