package xwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/omeyang/xfire/pkg/observability/xlog"
)

// DefaultInterval 默认轮询间隔。
const DefaultInterval = time.Second

// Opener 在等待开始前打开文件（例如启动编辑器）。
type Opener interface {
	Open(ctx context.Context, path string) error
}

// OpenerFunc 函数适配 Opener。
type OpenerFunc func(ctx context.Context, path string) error

// Open 实现 Opener。
func (f OpenerFunc) Open(ctx context.Context, path string) error { return f(ctx, path) }

type options struct {
	Interval    time.Duration `validate:"gt=0,lte=1h"`
	Notify      bool
	Fingerprint bool
	Opener      Opener      `validate:"-"`
	Trigger     Trigger     `validate:"-"`
	Logger      xlog.Logger `validate:"-"`
}

// Option 选项。
type Option func(*options)

func defaultOptions() *options {
	return &options{
		Interval: DefaultInterval,
	}
}

// WithInterval 设置轮询间隔。
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.Interval = d }
}

// WithNotify 启用 fsnotify 提前唤醒。
func WithNotify(enable bool) Option {
	return func(o *options) { o.Notify = enable }
}

// WithFingerprint 启用内容指纹比较。
func WithFingerprint(enable bool) Option {
	return func(o *options) { o.Fingerprint = enable }
}

// WithOpener 设置打开文件的协作者，nil 表示不打开。
func WithOpener(op Opener) Option {
	return func(o *options) { o.Opener = op }
}

// WithTrigger 设置取消触发器，必填。
func WithTrigger(t Trigger) Option {
	return func(o *options) { o.Trigger = t }
}

// WithLogger 设置日志，默认使用 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) { o.Logger = l }
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (o *options) validate() error {
	if o.Trigger == nil {
		return ErrNilTrigger
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}
