package xrotate

import "io"

// Rotator 日志轮转器，并发安全。
//
// Close 之后 Write 与 Rotate 返回 [ErrClosed]。
type Rotator interface {
	io.WriteCloser

	// Rotate 立即轮转：当前文件改名为备份并新建文件
	Rotate() error
}
