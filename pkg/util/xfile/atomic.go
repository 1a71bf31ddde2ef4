package xfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// 重试参数。Windows 上被杀毒或索引进程短暂占用的目标文件会让 rename 失败，
// 稍后重试通常即可成功。
const (
	renameAttempts = 5
	renameDelay    = 20 * time.Millisecond
)

// WriteFileAtomic 原子地写入文件：在目标目录创建临时文件，写入并 fsync 后 rename
// 覆盖目标。perm 为 0 时，目标已存在则沿用其权限，否则使用 DefaultFilePerm。
// 父目录必须已存在。
func WriteFileAtomic(ctx context.Context, path string, data []byte, perm os.FileMode) (err error) {
	if path == "" {
		return fmt.Errorf("path is required: %w", ErrEmptyPath)
	}
	if perm == 0 {
		perm = DefaultFilePerm
		if info, statErr := os.Stat(path); statErr == nil {
			perm = info.Mode().Perm()
		}
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("xfile: create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("xfile: write %s: %w", tmpName, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("xfile: chmod %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("xfile: sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("xfile: close %s: %w", tmpName, err)
	}

	return Rename(ctx, tmpName, path)
}

// Rename 重命名文件，对瞬时错误重试。源文件不存在或跨文件系统时立即失败。
func Rename(ctx context.Context, from, to string) error {
	err := retry.New(
		retry.Context(ctx),
		retry.Attempts(renameAttempts),
		retry.Delay(renameDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryableRename),
	).Do(func() error {
		return os.Rename(from, to)
	})
	if err != nil {
		return fmt.Errorf("xfile: rename %s -> %s: %w", from, to, err)
	}
	return nil
}

// retryableRename 源文件缺失与跨设备（EXDEV）重试也不会成功。
func retryableRename(err error) bool {
	return !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.EXDEV)
}
