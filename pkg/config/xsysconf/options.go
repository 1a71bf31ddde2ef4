package xsysconf

import (
	"time"

	"github.com/omeyang/xfire/pkg/config/xdirs"
	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/config/xwatch"
	"github.com/omeyang/xfire/pkg/observability/xlog"
)

// 应用标识，用于解析平台目录。
const (
	AppName = "xfire"
	AppOrg  = "omeyang"
)

// DefaultBackupDirName 备份目录相对配置目录的默认名称。
const DefaultBackupDirName = "backups"

type options struct {
	loader         *xspec.Loader
	dirs           xdirs.Provider
	dir            string
	backupDir      string
	backupDirName  string
	autoLoad       bool
	autoSave       bool
	autoBackup     bool
	reloadOnChange bool
	clock          func() time.Time
	opener         xwatch.Opener
	interval       time.Duration
	watch          []xwatch.Option
	onRelocate     func(dir string) error
	logger         xlog.Logger
}

// Option Handle 与 Registry 共用的选项。
// 传给 NewRegistry 的选项作用于该注册表创建的所有 Handle。
type Option func(*options)

func defaultOptions() *options {
	return &options{
		autoSave:       true,
		autoBackup:     true,
		reloadOnChange: true,
		clock:          time.Now,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.loader == nil {
		o.loader = xspec.DefaultLoader()
	}
	if o.logger == nil {
		o.logger = xlog.Default()
	}
	return o
}

// WithLoader 设置规格加载器，默认 xspec.DefaultLoader()。
func WithLoader(l *xspec.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithDirs 设置目录提供者，未设置 WithDir 时配置目录取自其 config 目录。
func WithDirs(p xdirs.Provider) Option {
	return func(o *options) { o.dirs = p }
}

// WithDir 设置配置文件所在目录。
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithBackupDir 设置默认备份目录，默认为 <配置目录>/<备份目录名>。
func WithBackupDir(dir string) Option {
	return func(o *options) { o.backupDir = dir }
}

// WithBackupDirName 设置配置目录下的备份目录名，默认 DefaultBackupDirName。
// 设置了 WithBackupDir 时不生效。
func WithBackupDirName(name string) Option {
	return func(o *options) { o.backupDirName = name }
}

// WithoutAutoBackup 关闭 Save 与 OpenAndWait 前的自动备份。
func WithoutAutoBackup() Option {
	return func(o *options) { o.autoBackup = false }
}

// WithAutoLoad 创建时加载已存在的文件，不存在则创建。
func WithAutoLoad(enable bool) Option {
	return func(o *options) { o.autoLoad = enable }
}

// WithoutAutoSave 关闭写入后自动保存。
func WithoutAutoSave() Option {
	return func(o *options) { o.autoSave = false }
}

// WithoutReloadOnChange 关闭文件修改后自动重载。
func WithoutReloadOnChange() Option {
	return func(o *options) { o.reloadOnChange = false }
}

// WithClock 设置时钟，用于备份文件名的时间戳。
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithOpener 设置 OpenAndWait 打开文件的方式，默认 EditorOpener("")。
func WithOpener(op xwatch.Opener) Option {
	return func(o *options) { o.opener = op }
}

// WithWatchInterval 设置 OpenAndWait 的轮询间隔，<= 0 使用 xwatch 默认值。
// WithWatchOptions 与调用时传入的选项优先。
func WithWatchInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithRelocateHook 设置配置文件目录变化（MoveFile、SetFilePath）后的回调，
// 用于记录新位置。回调失败时返回错误，文件已在新位置。
func WithRelocateHook(fn func(dir string) error) Option {
	return func(o *options) { o.onRelocate = fn }
}

// WithWatchOptions 追加 OpenAndWait 使用的 xwatch 选项。
func WithWatchOptions(opts ...xwatch.Option) Option {
	return func(o *options) { o.watch = append(o.watch, opts...) }
}

// WithLogger 设置诊断日志，默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) { o.logger = l }
}
