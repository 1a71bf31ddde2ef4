package xsysconf

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xcoerce"
	"github.com/omeyang/xfire/pkg/config/xini"
	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/observability/xlog"
	"github.com/omeyang/xfire/pkg/util/xfile"
)

// Set 写入单个键，见 SetMany。
func (h *Handle) Set(key string, value any) error {
	return h.SetMany(map[string]any{key: value})
}

// SetMany 写入多个键。键必须在规格中声明，值必须能按声明类型解析，
// 且写出后能原样读回，任一校验失败时不写入任何键。开启自动保存时只保存、重载一次。
func (h *Handle) SetMany(values map[string]any) error {
	staged := make(map[string]string, len(values))
	for key, value := range values {
		typ, ok := h.spec.TypeOf(key)
		if !ok {
			return xcfgerr.New(xcfgerr.KindAttributeNotFound, "%s has no attribute %q", h.system, key)
		}
		s := xspec.FormatValue(value)
		if _, err := xcoerce.Convert(s, typ); err != nil {
			return fmt.Errorf("%w: %s.%s=%q: %w", ErrInvalidValue, h.system, key, s, err)
		}
		staged[key] = s
	}
	if len(staged) == 0 {
		return nil
	}

	h.ensureDefaults()
	section := h.Section()
	doc := h.doc.Clone()
	for _, key := range slices.Sorted(maps.Keys(staged)) {
		doc.Set(section, key, staged[key])
	}
	if err := doc.Verify(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, h.system, err)
	}
	h.doc = doc
	for _, key := range slices.Sorted(maps.Keys(staged)) {
		h.logger.Debug(h.ctx(), "set", xlog.Key(key), xlog.Section(section))
	}
	h.dirty = true

	if h.autoSave {
		if err := h.Save(false); err != nil {
			return err
		}
		return h.Load()
	}
	return nil
}

// ensureDefaults 文档没有 DEFAULT 时按规格生成。
func (h *Handle) ensureDefaults() {
	if !h.doc.HasDefaults() {
		h.doc.SetDefaults(h.spec.Defaults())
	}
	h.doc.EnsureSection(h.Section())
}

// CreateFile 按规格默认值创建配置文件。文件已存在时只记录警告，不覆盖。
func (h *Handle) CreateFile() error {
	if xfile.Exists(h.path) {
		h.logger.Warn(h.ctx(), "config file already exists", xlog.Path(h.path))
		return nil
	}
	h.ensureDefaults()
	if err := h.Save(true); err != nil {
		return err
	}
	h.loaded = true
	return nil
}

// Load 从文件重建文档，标记已加载，然后与规格同步。
func (h *Handle) Load() error {
	doc, err := xini.LoadFile(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return xcfgerr.Wrap(xcfgerr.KindFileNotFound, err, "load %s", h.path)
		}
		return fmt.Errorf("xsysconf: load %s: %w", h.path, err)
	}
	doc.EnsureSection(h.Section())
	h.doc = doc
	h.loaded = true
	h.dirty = false
	h.logger.Debug(h.ctx(), "loaded", xlog.Path(h.path))
	return h.SyncWithSpec()
}

// LoadIfExists 文件存在时加载，返回是否加载。
func (h *Handle) LoadIfExists() (bool, error) {
	if !xfile.Exists(h.path) {
		return false, nil
	}
	if err := h.Load(); err != nil {
		return false, err
	}
	return true, nil
}

// Reload 等同于 Load。
func (h *Handle) Reload() error {
	return h.Load()
}

// SyncWithSpec 规格键集合与文档 DEFAULT 不一致时，重新生成 DEFAULT 并保存。
// 活动分区中仍被规格声明的键保留用户值，规格已删除的键被剔除。
func (h *Handle) SyncWithSpec() error {
	want := h.spec.Keys()
	if slices.Equal(want, h.doc.DefaultKeys()) {
		return nil
	}
	h.logger.Warn(h.ctx(), "specification and file out of sync, synchronizing",
		xlog.Path(h.path), xlog.Count(len(want)))

	h.doc.SetDefaults(h.spec.Defaults())
	section := h.Section()
	for _, key := range h.doc.Keys(section) {
		if !h.spec.Has(key) {
			h.doc.Delete(section, key)
		}
	}
	h.doc.EnsureSection(section)
	h.dirty = true
	return h.Save(false)
}

// Save 将完整文档（含 DEFAULT）原子写入文件。
//
// 目录不存在时创建并记录警告。文件已存在、开启自动备份且未跳过备份时先备份，
// 备份目标已存在降级为警告，保存继续。
func (h *Handle) Save(skipBackup bool) error {
	ctx := h.ctx()
	if !xfile.IsDir(h.dir) {
		h.logger.Warn(ctx, "config directory missing, creating", xlog.Path(h.dir))
		if err := xfile.MkdirAll(h.dir); err != nil {
			return xcfgerr.Wrap(xcfgerr.KindConfigDirectoryMissing, err, "create %s", h.dir)
		}
	}

	if !skipBackup && h.autoBackup && xfile.Exists(h.path) {
		if _, err := h.Backup(); err != nil {
			if !errors.Is(err, xcfgerr.ErrFileAlreadyExists) {
				return err
			}
			h.logger.Warn(ctx, "backup already exists, skipping", xlog.Err(err))
		}
	}

	h.doc.EnsureSection(h.Section())
	data, err := h.doc.Bytes()
	if err != nil {
		return fmt.Errorf("xsysconf: encode %s: %w", h.system, err)
	}
	if err := xfile.WriteFileAtomic(ctx, h.path, data, 0); err != nil {
		return fmt.Errorf("xsysconf: save %s: %w", h.system, err)
	}
	h.dirty = false
	h.logger.Info(ctx, "saved", xlog.Path(h.path))
	return nil
}

// ResetToDefaults 用 DEFAULT 覆盖活动分区，skipSave 为 false 时保存。
func (h *Handle) ResetToDefaults(skipSave bool) error {
	h.ensureDefaults()
	h.doc.ReplaceSection(h.Section(), h.doc.Defaults())
	h.dirty = true
	h.logger.Info(h.ctx(), "reset to defaults", xlog.Section(h.Section()))
	if skipSave {
		return nil
	}
	return h.Save(false)
}

// DeleteFile 删除配置文件，文档保留在内存中并标记为未加载。
func (h *Handle) DeleteFile() error {
	if err := os.Remove(h.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return xcfgerr.Wrap(xcfgerr.KindFileNotFound, err, "delete %s", h.path)
		}
		return fmt.Errorf("xsysconf: delete %s: %w", h.path, err)
	}
	h.loaded = false
	h.logger.Info(h.ctx(), "deleted", xlog.Path(h.path))
	return nil
}
