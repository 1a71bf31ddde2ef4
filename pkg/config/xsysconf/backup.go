package xsysconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/observability/xlog"
	"github.com/omeyang/xfire/pkg/util/xfile"
)

// 备份默认值。
const (
	DefaultBackupExt  = ".bak"
	BackupTimeLayout  = "20060102_150405"
	backupNameDivider = "_"
)

type backupOptions struct {
	dir         string
	name        string
	ext         string
	noCreateDir bool
	overwrite   bool
}

// BackupOption 配置单次备份。
type BackupOption func(*backupOptions)

// BackupDir 指定备份目录，默认 Handle.BackupDir()。
func BackupDir(dir string) BackupOption {
	return func(o *backupOptions) { o.dir = dir }
}

// BackupName 指定备份文件名（不含扩展名时自动追加），默认 <stem>_<时间戳>。
func BackupName(name string) BackupOption {
	return func(o *backupOptions) { o.name = name }
}

// BackupExt 指定扩展名，默认 .bak。
func BackupExt(ext string) BackupOption {
	return func(o *backupOptions) { o.ext = ext }
}

// NoCreateDir 备份目录不存在时报错而不是创建。
func NoCreateDir() BackupOption {
	return func(o *backupOptions) { o.noCreateDir = true }
}

// Overwrite 允许覆盖同名备份。
func Overwrite() BackupOption {
	return func(o *backupOptions) { o.overwrite = true }
}

// Backup 将配置文件逐字节复制到备份目录，返回备份路径。
func (h *Handle) Backup(opts ...BackupOption) (string, error) {
	o := backupOptions{ext: DefaultBackupExt}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.dir == "" {
		o.dir = h.BackupDir()
	}
	if o.ext != "" && !strings.HasPrefix(o.ext, ".") {
		o.ext = "." + o.ext
	}

	if !xfile.Exists(h.path) {
		return "", xcfgerr.New(xcfgerr.KindFileNotFound, "no config file to back up at %s", h.path)
	}

	dir, err := absDir(o.dir)
	if err != nil {
		return "", err
	}
	if !xfile.IsDir(dir) {
		if o.noCreateDir {
			return "", xcfgerr.New(xcfgerr.KindConfigBackupDirectoryMissing, "backup directory %s does not exist", dir)
		}
		if err := xfile.MkdirAll(dir); err != nil {
			return "", xcfgerr.Wrap(xcfgerr.KindConfigBackupDirectoryMissing, err, "create %s", dir)
		}
	}

	name := o.name
	if name == "" {
		name = xfile.Stem(h.path) + backupNameDivider + h.clock().Format(BackupTimeLayout)
	}
	if o.ext != "" && !strings.HasSuffix(name, o.ext) {
		name += o.ext
	}
	dst, err := xfile.SafeJoin(dir, name)
	if err != nil {
		return "", xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "backup name %q", name)
	}

	if xfile.Exists(dst) && !o.overwrite {
		return "", xcfgerr.New(xcfgerr.KindFileAlreadyExists, "backup %s already exists", dst)
	}
	if err := xfile.CopyFile(h.path, dst); err != nil {
		return "", fmt.Errorf("xsysconf: backup %s: %w", h.system, err)
	}
	h.logger.Info(h.ctx(), "backed up", xlog.Path(dst))
	return dst, nil
}

// RestoreFromBackup 用备份内容覆盖配置文件并重新加载。
// path 为空时使用默认备份目录中最新的备份。
func (h *Handle) RestoreFromBackup(path string) error {
	if path == "" {
		latest, err := h.LatestBackup()
		if err != nil {
			return err
		}
		path = latest
	}
	p, err := xfile.ExpandHome(path)
	if err != nil {
		return xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "backup path %q", path)
	}
	data, err := os.ReadFile(p) //nolint:gosec // 备份路径由调用方指定
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return xcfgerr.Wrap(xcfgerr.KindFileNotFound, err, "backup %s", p)
		}
		return fmt.Errorf("xsysconf: read backup %s: %w", p, err)
	}
	if err := xfile.MkdirAll(h.dir); err != nil {
		return xcfgerr.Wrap(xcfgerr.KindConfigDirectoryMissing, err, "create %s", h.dir)
	}
	if err := xfile.WriteFileAtomic(h.ctx(), h.path, data, 0); err != nil {
		return fmt.Errorf("xsysconf: restore %s: %w", h.system, err)
	}
	h.logger.Info(h.ctx(), "restored from backup", xlog.Path(p))
	return h.Load()
}

// LatestBackup 返回默认备份目录中该配置文件最新的备份。
func (h *Handle) LatestBackup() (string, error) {
	return LatestBackup(h.BackupDir(), h.FileName(), DefaultBackupExt)
}

// LatestBackup 返回 dir 中 fileName 对应的最新备份（<stem>_*<ext>）。
// 时间戳格式保证按文件名排序即按时间排序。
func LatestBackup(dir, fileName, ext string) (string, error) {
	pattern := filepath.Join(dir, xfile.Stem(fileName)+backupNameDivider+"*"+ext)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "backup pattern %q", pattern)
	}
	if len(matches) == 0 {
		return "", xcfgerr.New(xcfgerr.KindFileNotFound, "no backups of %s in %s", fileName, dir)
	}
	slices.Sort(matches)
	return matches[len(matches)-1], nil
}

// MoveFile 将配置文件移到新目录，文件名保持规范名。
//
// newLocation 带扩展名时视为文件路径，取其父目录。目录不存在时，
// createDir 为 true 则创建，否则返回 xcfgerr.ErrConfigDirectoryMissing。
// 跨设备无法 rename 时退化为复制后删除。目录变化时调用 WithRelocateHook 设置的回调。
func (h *Handle) MoveFile(newLocation string, skipBackup, createDir bool) error {
	ctx := h.ctx()
	loc, err := xfile.ExpandHome(newLocation)
	if err != nil {
		return xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "move target %q", newLocation)
	}
	if filepath.Ext(loc) != "" {
		loc = filepath.Dir(loc)
	}
	dir, err := absDir(loc)
	if err != nil {
		return err
	}

	if !xfile.IsDir(dir) {
		if !createDir {
			return xcfgerr.New(xcfgerr.KindConfigDirectoryMissing, "directory %s does not exist", dir)
		}
		if err := xfile.MkdirAll(dir); err != nil {
			return xcfgerr.Wrap(xcfgerr.KindConfigDirectoryMissing, err, "create %s", dir)
		}
	}

	if !xfile.Exists(h.path) {
		return xcfgerr.New(xcfgerr.KindFileNotFound, "no config file to move at %s", h.path)
	}
	dst := filepath.Join(dir, h.spec.FileName())
	if dst != h.path && xfile.Exists(dst) {
		return xcfgerr.New(xcfgerr.KindFileAlreadyExists, "%s already exists", dst)
	}
	if !skipBackup {
		if _, err := h.Backup(); err != nil && !errors.Is(err, xcfgerr.ErrFileAlreadyExists) {
			return err
		}
	}

	if dst != h.path {
		if err := moveFile(h, h.path, dst); err != nil {
			return err
		}
	}
	h.logger.Info(ctx, "moved", xlog.Path(dst))
	old := h.dir
	h.dir = dir
	h.path = dst
	return h.relocated(old)
}

func moveFile(h *Handle, from, to string) error {
	err := xfile.Rename(h.ctx(), from, to)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("xsysconf: move %s: %w", h.system, err)
	}
	h.logger.Warn(h.ctx(), "rename failed, copying instead", xlog.Err(err))
	if err := xfile.CopyFile(from, to); err != nil {
		return fmt.Errorf("xsysconf: move %s: %w", h.system, err)
	}
	if err := os.Remove(from); err != nil {
		return fmt.Errorf("xsysconf: move %s: remove source: %w", h.system, err)
	}
	return nil
}
