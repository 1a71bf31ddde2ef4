package xfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Exists 判断路径是否存在。除 "不存在" 之外的错误视为存在。
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// IsDir 判断路径是否为已存在的目录。
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// CopyFile 将 src 逐字节复制到 dst，dst 已存在时覆盖。
// dst 使用 src 的权限位，父目录必须已存在。
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // 路径由调用方校验
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: %w", src, ErrNotRegular)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // 路径由调用方校验
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("xfile: copy %s -> %s: %w", src, dst, err)
	}
	return out.Sync()
}
