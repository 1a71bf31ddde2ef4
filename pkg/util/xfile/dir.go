package xfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirPerm 默认目录权限：所有者 rwx，组 r-x，其他无。
const DefaultDirPerm = 0o750

// DefaultFilePerm 新建配置文件的默认权限。
const DefaultFilePerm = 0o600

// EnsureDir 确保文件的父目录存在，使用 DefaultDirPerm。
func EnsureDir(filename string) error {
	return EnsureDirWithPerm(filename, DefaultDirPerm)
}

// EnsureDirWithPerm 确保文件的父目录存在。
// perm 必须包含所有者执行位，已存在的目录不修改权限。
func EnsureDirWithPerm(filename string, perm os.FileMode) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if hasNullByte(filename) {
		return fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	if perm&0o100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// MkdirAll 创建目录本身（而非父目录），使用 DefaultDirPerm。
func MkdirAll(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required: %w", ErrEmptyPath)
	}
	if hasNullByte(dir) {
		return fmt.Errorf("dir contains null byte: %w", ErrNullByte)
	}
	return os.MkdirAll(dir, DefaultDirPerm)
}
