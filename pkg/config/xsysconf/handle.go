package xsysconf

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"time"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xdirs"
	"github.com/omeyang/xfire/pkg/config/xini"
	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/config/xwatch"
	"github.com/omeyang/xfire/pkg/observability/xlog"
	"github.com/omeyang/xfire/pkg/util/xfile"
)

// Handle 单个配置系统的句柄。不是并发安全的。
type Handle struct {
	system xspec.System
	spec   *xspec.Spec
	loader *xspec.Loader
	doc    *xini.Document

	dir           string
	path          string
	backupDir     string
	backupDirName string

	loaded         bool
	dirty          bool
	autoSave       bool
	autoBackup     bool
	reloadOnChange bool
	fileModified   bool

	overrides map[string]any

	clock      func() time.Time
	opener     xwatch.Opener
	interval   time.Duration
	watch      []xwatch.Option
	onRelocate func(dir string) error
	base       xlog.Logger
	logger     xlog.Logger
}

// NewHandle 创建配置系统句柄。name 大小写不敏感。
//
// 开启 WithAutoLoad 时，文件存在则加载，否则按规格默认值创建。
func NewHandle(name string, opts ...Option) (*Handle, error) {
	o := applyOptions(opts)

	spec, err := o.loader.Load(name)
	if err != nil {
		return nil, err
	}

	dir, err := resolveDir(o)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		system:         spec.System(),
		spec:           spec,
		loader:         o.loader,
		doc:            xini.New(),
		dir:            dir,
		path:           filepath.Join(dir, spec.FileName()),
		backupDir:      o.backupDir,
		autoSave:       o.autoSave,
		autoBackup:     o.autoBackup,
		reloadOnChange: o.reloadOnChange,
		overrides:      make(map[string]any),
		clock:          o.clock,
		opener:         o.opener,
		interval:       o.interval,
		watch:          o.watch,
		onRelocate:     o.onRelocate,
		base:           o.logger,
		logger:         o.logger.With(xlog.System(string(spec.System()))),
	}
	if h.opener == nil {
		h.opener = EditorOpener("")
	}
	if err := h.SetBackupDirName(o.backupDirName); err != nil {
		return nil, err
	}

	if o.autoLoad {
		loaded, err := h.LoadIfExists()
		if err != nil {
			return nil, err
		}
		if !loaded {
			if err := h.CreateFile(); err != nil {
				return nil, err
			}
		}
	}
	return h, nil
}

func resolveDir(o *options) (string, error) {
	dir := o.dir
	if dir == "" && o.dirs != nil {
		dir = o.dirs.Dir(xdirs.KindConfig)
	}
	if dir == "" {
		d, err := xdirs.New(AppName, AppOrg)
		if err != nil {
			return "", err
		}
		dir = d.Config
	}
	return absDir(dir)
}

func absDir(dir string) (string, error) {
	dir, err := xfile.ExpandHome(dir)
	if err != nil {
		return "", xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "directory %q", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "directory %q", dir)
	}
	return abs, nil
}

// =============================================================================
// 访问器
// =============================================================================

// System 返回配置系统。
func (h *Handle) System() xspec.System { return h.system }

// Spec 返回规格。
func (h *Handle) Spec() *xspec.Spec { return h.spec }

// Section 返回活动分区名。
func (h *Handle) Section() string { return h.system.Section() }

// Dir 返回配置文件所在目录。
func (h *Handle) Dir() string { return h.dir }

// FilePath 返回配置文件路径。
func (h *Handle) FilePath() string { return h.path }

// FileName 返回配置文件名。
func (h *Handle) FileName() string { return filepath.Base(h.path) }

// FileExists 判断配置文件是否存在。
func (h *Handle) FileExists() bool { return xfile.Exists(h.path) }

// BackupDir 返回默认备份目录。
func (h *Handle) BackupDir() string {
	if h.backupDir != "" {
		return h.backupDir
	}
	return filepath.Join(h.dir, h.backupDirName)
}

// Defaults 返回规格默认值（字符串形式）。
func (h *Handle) Defaults() map[string]string { return h.spec.Defaults() }

// Loaded 是否已从文件加载。
func (h *Handle) Loaded() bool { return h.loaded }

// Dirty 是否有未保存的写入。
func (h *Handle) Dirty() bool { return h.dirty }

// AutoSave 是否写入后自动保存。
func (h *Handle) AutoSave() bool { return h.autoSave }

// AutoBackup 是否在保存、编辑前自动备份。
func (h *Handle) AutoBackup() bool { return h.autoBackup }

// WatchInterval 返回 OpenAndWait 的轮询间隔，0 表示 xwatch 默认值。
func (h *Handle) WatchInterval() time.Duration { return h.interval }

// ReloadOnChange 是否在文件修改后自动重载。
func (h *Handle) ReloadOnChange() bool { return h.reloadOnChange }

// FileModified 是否有尚未重载的外部修改。
func (h *Handle) FileModified() bool { return h.fileModified }

// Document 返回文档副本。
func (h *Handle) Document() *xini.Document { return h.doc.Clone() }

// Snapshot 返回当前生效的全部键值：规格默认值 < 文档 < 覆盖值。
func (h *Handle) Snapshot() map[string]string {
	out := h.spec.Defaults()
	maps.Copy(out, h.doc.Merged(h.Section()))
	for k, v := range h.overrides {
		out[k] = xspec.FormatValue(v)
	}
	return out
}

// =============================================================================
// 簿记 setter
// =============================================================================

// SetAutoSave 设置写入后是否自动保存。
func (h *Handle) SetAutoSave(enable bool) { h.autoSave = enable }

// SetAutoBackup 设置保存、编辑前是否自动备份。
func (h *Handle) SetAutoBackup(enable bool) { h.autoBackup = enable }

// SetBackupDirName 设置配置目录下的备份目录名，空值恢复默认。
// 名称不能跳出配置目录。
func (h *Handle) SetBackupDirName(name string) error {
	if name == "" {
		name = DefaultBackupDirName
	}
	if _, err := xfile.SafeJoin(h.dir, name); err != nil {
		return xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "backup directory name %q", name)
	}
	h.backupDirName = name
	return nil
}

// SetWatchInterval 设置 OpenAndWait 的轮询间隔，<= 0 使用 xwatch 默认值。
func (h *Handle) SetWatchInterval(d time.Duration) { h.interval = max(d, 0) }

// SetLogger 替换诊断日志，nil 被忽略。
func (h *Handle) SetLogger(l xlog.Logger) {
	if l == nil {
		return
	}
	h.base = l
	h.logger = l.With(xlog.System(string(h.system)))
}

// SetReloadOnChange 设置文件修改后是否自动重载。
// 开启时若有待处理的修改，立即重载。
func (h *Handle) SetReloadOnChange(enable bool) error {
	h.reloadOnChange = enable
	if enable && h.fileModified {
		return h.reloadModified()
	}
	return nil
}

// SetFileModified 标记文件已被外部修改。开启 reload-on-change 时立即重载。
func (h *Handle) SetFileModified(modified bool) error {
	h.fileModified = modified
	if modified && h.reloadOnChange {
		return h.reloadModified()
	}
	return nil
}

func (h *Handle) reloadModified() error {
	if err := h.Reload(); err != nil {
		return err
	}
	h.fileModified = false
	return nil
}

// SetSystem 切换句柄所属的配置系统：重新加载规格，文件名改为新系统的规范名，
// 文档清空、标记为未加载。目录不变。
func (h *Handle) SetSystem(name string) error {
	spec, err := h.loader.Load(name)
	if err != nil {
		return err
	}
	h.system = spec.System()
	h.spec = spec
	h.path = filepath.Join(h.dir, spec.FileName())
	h.doc = xini.New()
	h.loaded = false
	h.dirty = false
	h.logger = h.base.With(xlog.System(string(spec.System())))
	return nil
}

// SetFilePath 重新指定配置文件路径，必须以 .ini 结尾。
// 只修改跟踪的路径，不移动文件；需要移动时使用 MoveFile。
// 目录变化时调用 WithRelocateHook 设置的回调。
func (h *Handle) SetFilePath(p string) error {
	expanded, err := xfile.ExpandHome(p)
	if err != nil {
		return xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "config file path %q", p)
	}
	clean, err := xfile.SanitizePath(expanded)
	if err != nil {
		return xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "config file path %q", p)
	}
	if !xfile.HasExt(clean, ".ini") {
		return xcfgerr.New(xcfgerr.KindInvalidPath, "config file path %q must have .ini extension", p)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return xcfgerr.Wrap(xcfgerr.KindInvalidPath, err, "config file path %q", p)
	}
	old := h.dir
	h.path = abs
	h.dir = filepath.Dir(abs)
	return h.relocated(old)
}

// relocated 目录变化后调用 WithRelocateHook 设置的回调。
func (h *Handle) relocated(old string) error {
	if h.onRelocate == nil || h.dir == old {
		return nil
	}
	if err := h.onRelocate(h.dir); err != nil {
		return fmt.Errorf("xsysconf: record location of %s: %w", h.system, err)
	}
	return nil
}

// ctx 句柄操作本身是同步的，日志与 xfile 调用使用后台 context。
func (h *Handle) ctx() context.Context { return context.Background() }

func (h *Handle) String() string {
	return fmt.Sprintf("%s(%s)", h.system, h.path)
}
