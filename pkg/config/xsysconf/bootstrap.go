package xsysconf

import (
	"context"
	"fmt"
	"time"

	"github.com/omeyang/xfire/pkg/config/xdirs"
	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/observability/xlog"
	"github.com/omeyang/xfire/pkg/observability/xrotate"
	"github.com/omeyang/xfire/pkg/util/xfile"
)

// alternate_dirs 中各目录键对应的目录类别。
var alternateDirKeys = map[xdirs.Kind]string{
	xdirs.KindCache:  "cache_dir_path",
	xdirs.KindConfig: "config_dir_path",
	xdirs.KindData:   "data_dir_path",
	xdirs.KindLog:    "log_dir_path",
	xdirs.KindTemp:   "temp_dir_path",
}

// Env Bootstrap 的结果：生效目录以及已加载的 alternate_dirs、core、logger 句柄。
type Env struct {
	Registry      *Registry
	Dirs          xdirs.Dirs
	AlternateDirs *Handle
	Core          *Handle
	Logger        *Handle

	settings coreSettings
}

// Bootstrap 按固定顺序初始化配置系统：
//
//  1. 在注册表的配置目录中自动加载 alternate_dirs
//  2. 用其中非空的 *_dir_path 覆盖平台目录
//  3. 在生效的配置目录中自动加载 core，读取作用于所有句柄的设置
//     （auto_backup、backup_dir_name、watch_interval）
//  4. 在生效的配置目录中自动加载 logger
//
// 之后通过 [Env.Open] 打开的其他系统也位于生效的配置目录中。
// 这些句柄移动到新目录时，新目录写入 alternate_dirs 的 config_dir_path，
// 下次 Bootstrap 在新目录中查找。
func Bootstrap(ctx context.Context, reg *Registry) (*Env, error) {
	if reg == nil {
		reg = Default()
	}
	o := applyOptions(reg.options())
	base, err := baseDirs(o)
	if err != nil {
		return nil, err
	}

	alt, err := reg.Get(string(xspec.SystemAlternateDirs), WithDir(base.Config), WithAutoLoad(true))
	if err != nil {
		return nil, err
	}

	overrides := make(map[xdirs.Kind]string, len(alternateDirKeys))
	for kind, key := range alternateDirKeys {
		p, err := alt.GetString(key)
		if err != nil {
			return nil, err
		}
		overrides[kind] = p
	}
	dirs := base.WithOverrides(overrides)
	if dirs.Config != base.Config {
		o.logger.Info(ctx, "using alternate config directory", xlog.Path(dirs.Config))
	}

	env := &Env{Registry: reg, Dirs: dirs, AlternateDirs: alt}
	if env.Core, err = reg.Get(string(xspec.SystemCore), env.openOptions()...); err != nil {
		return nil, err
	}
	if env.settings, err = readCoreSettings(env.Core); err != nil {
		return nil, err
	}
	if err := env.settings.apply(env.Core); err != nil {
		return nil, err
	}
	if env.Logger, err = env.Open(string(xspec.SystemLogger)); err != nil {
		return nil, err
	}
	return env, nil
}

// Open 在生效的配置目录中自动加载系统，core 的设置作用于新建的句柄。
// alternate_dirs 始终留在原目录。
func (e *Env) Open(name string) (*Handle, error) {
	s, err := xspec.ParseSystem(name)
	if err != nil {
		return nil, err
	}
	switch s {
	case xspec.SystemAlternateDirs:
		return e.AlternateDirs, nil
	case xspec.SystemCore:
		return e.Core, nil
	}
	return e.Registry.Get(string(s), append(e.openOptions(), e.settings.options()...)...)
}

func (e *Env) openOptions() []Option {
	return []Option{
		WithDir(e.Dirs.Config),
		WithAutoLoad(true),
		WithRelocateHook(e.recordConfigDir),
	}
}

// recordConfigDir 把新的配置目录写入 alternate_dirs。
func (e *Env) recordConfigDir(dir string) error {
	if err := e.AlternateDirs.Set(alternateDirKeys[xdirs.KindConfig], dir); err != nil {
		return err
	}
	e.Dirs.Config = dir
	e.AlternateDirs.logger.Info(context.Background(), "recorded config directory", xlog.Path(dir))
	return nil
}

// BuildLogger 用 logger 系统与生效的日志目录构建日志，cleanup 关闭轮转文件。
func (e *Env) BuildLogger() (xlog.LoggerWithLevel, func() error, error) {
	return BuildLogger(e.Logger, e.Dirs.Log)
}

// LoggerBuilder 返回按 logger 系统配置好的构建器，调用方可在 Build 前调整。
func (e *Env) LoggerBuilder() (*xlog.Builder, error) {
	return LoggerBuilder(e.Logger, e.Dirs.Log)
}

// coreSettings core 系统中作用于所有句柄的设置。
type coreSettings struct {
	autoBackup    bool
	backupDirName string
	watchInterval time.Duration
}

func readCoreSettings(h *Handle) (coreSettings, error) {
	var s coreSettings
	var err error
	if s.autoBackup, err = h.GetBool("auto_backup"); err != nil {
		return s, err
	}
	if s.backupDirName, err = h.GetString("backup_dir_name"); err != nil {
		return s, err
	}
	secs, err := h.GetFloat("watch_interval")
	if err != nil {
		return s, err
	}
	if secs > 0 {
		s.watchInterval = time.Duration(secs * float64(time.Second))
	}
	return s, nil
}

func (s coreSettings) options() []Option {
	opts := []Option{
		WithBackupDirName(s.backupDirName),
		WithWatchInterval(s.watchInterval),
	}
	if !s.autoBackup {
		opts = append(opts, WithoutAutoBackup())
	}
	return opts
}

// apply 作用于已存在的句柄。
func (s coreSettings) apply(h *Handle) error {
	h.SetAutoBackup(s.autoBackup)
	h.SetWatchInterval(s.watchInterval)
	return h.SetBackupDirName(s.backupDirName)
}

func baseDirs(o *options) (xdirs.Dirs, error) {
	var d xdirs.Dirs
	if o.dirs != nil {
		d = xdirs.Dirs{
			Cache:  o.dirs.Dir(xdirs.KindCache),
			Config: o.dirs.Dir(xdirs.KindConfig),
			Data:   o.dirs.Dir(xdirs.KindData),
			Log:    o.dirs.Dir(xdirs.KindLog),
			Temp:   o.dirs.Dir(xdirs.KindTemp),
		}
	} else {
		resolved, err := xdirs.New(AppName, AppOrg)
		if err != nil {
			return xdirs.Dirs{}, err
		}
		d = resolved
	}
	if o.dir != "" {
		d.Config = o.dir
	}
	return d, nil
}

// BuildLogger 把 logger 系统转换成 xlog 日志。
//
// console_level、file_level 为空时取 log_level。log_to_file 开启时在 logDir 下
// 按 log_file_name 写轮转文件。
func BuildLogger(h *Handle, logDir string) (xlog.LoggerWithLevel, func() error, error) {
	b, err := LoggerBuilder(h, logDir)
	if err != nil {
		return nil, nil, err
	}
	return b.Build()
}

// LoggerBuilder 与 BuildLogger 相同，但返回尚未 Build 的构建器。
// 级别、格式错误在 Build 时返回。
func LoggerBuilder(h *Handle, logDir string) (*xlog.Builder, error) {
	if h.System() != xspec.SystemLogger {
		return nil, fmt.Errorf("%w: build logger from %s", ErrWrongSystem, h.System())
	}
	var cfg loggerConfig
	if err := cfg.read(h); err != nil {
		return nil, err
	}

	b := xlog.New().
		SetLevelString(firstNonEmpty(cfg.consoleLevel, cfg.level)).
		SetFormat(cfg.format)
	if cfg.toFile {
		dir, err := absDir(logDir)
		if err != nil {
			return nil, err
		}
		file, err := xfile.SafeJoin(dir, cfg.fileName)
		if err != nil {
			return nil, fmt.Errorf("xsysconf: log file %q: %w", cfg.fileName, err)
		}
		b.SetFileLevelString(firstNonEmpty(cfg.fileLevel, cfg.level)).
			SetRotation(file,
				xrotate.WithMaxSize(int(cfg.maxSizeMB)),
				xrotate.WithMaxBackups(int(cfg.maxBackups)),
				xrotate.WithMaxAge(int(cfg.maxAgeDays)),
				xrotate.WithCompress(cfg.compress),
			)
	}
	return b, nil
}

type loggerConfig struct {
	level        string
	consoleLevel string
	fileLevel    string
	format       string
	toFile       bool
	fileName     string
	maxSizeMB    int64
	maxBackups   int64
	maxAgeDays   int64
	compress     bool
}

func (c *loggerConfig) read(h *Handle) error {
	var err error
	str := func(key string) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = h.GetString(key)
		return v
	}
	num := func(key string) int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, err = h.GetInt(key)
		return v
	}
	flag := func(key string) bool {
		if err != nil {
			return false
		}
		var v bool
		v, err = h.GetBool(key)
		return v
	}

	c.level = str("log_level")
	c.consoleLevel = str("console_level")
	c.fileLevel = str("file_level")
	c.format = str("log_format")
	c.toFile = flag("log_to_file")
	c.fileName = str("log_file_name")
	c.maxSizeMB = num("max_size_mb")
	c.maxBackups = num("max_backups")
	c.maxAgeDays = num("max_age_days")
	c.compress = flag("compress")
	return err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
