package xwatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/observability/xlog"
)

// Result 等待结果。
type Result struct {
	// Modified 为 true 表示检测到修改，false 表示被取消
	Modified bool

	// At 修改时为新的 mtime，取消时为取消发生的时间
	At time.Time
}

// baseline 文件状态快照。
type baseline struct {
	modTime time.Time
	sum     uint64
	hasSum  bool
}

// WaitForChange 等待 path 被修改或取消手势发生，见包文档。
//
// 基线读取时文件不存在返回 xcfgerr.ErrFileNotFound。
func WaitForChange(ctx context.Context, path string, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.validate(); err != nil {
		return Result{}, err
	}
	if o.Logger == nil {
		o.Logger = xlog.Default()
	}

	base, err := snapshot(path, o.Fingerprint)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, xcfgerr.Wrap(xcfgerr.KindFileNotFound, err, "watch %s", path)
		}
		return Result{}, fmt.Errorf("xwatch: stat %s: %w", path, err)
	}

	if o.Opener != nil {
		if err := o.Opener.Open(ctx, path); err != nil {
			return Result{}, fmt.Errorf("xwatch: open %s: %w", path, err)
		}
	}

	modified := make(chan time.Time, 1)
	cancelled := make(chan time.Time, 1)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return poll(gctx, path, base, o, modified)
	})
	g.Go(func() error {
		err := o.Trigger.Wait(gctx)
		switch {
		case err == nil:
			cancelled <- time.Now()
		case gctx.Err() == nil:
			o.Logger.Debug(gctx, "cancel trigger stopped", xlog.Path(path), xlog.Err(err))
		}
		return nil
	})

	var res Result
	select {
	case at := <-modified:
		res = Result{Modified: true, At: at}
	case at := <-cancelled:
		res = Result{At: at}
	case <-gctx.Done():
	}
	stop()

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if res.At.IsZero() {
		// 两个活动都未发出信号：父 ctx 结束
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return Result{}, context.Canceled
	}
	return res, nil
}

// poll 轮询文件状态，发现修改后发送到 modified 并返回。ctx 结束时返回 nil。
func poll(ctx context.Context, path string, base baseline, o *options, modified chan<- time.Time) error {
	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if o.Notify {
		w, err := newNotifier(path)
		if err != nil {
			o.Logger.Warn(ctx, "fsnotify unavailable, polling only", xlog.Path(path), xlog.Err(err))
		} else {
			defer func() { _ = w.Close() }()
			events, errs = w.Events, w.Errors
		}
	}

	name := filepath.Base(path)
	check := func() bool {
		at, changed := compare(path, base, o.Fingerprint)
		if !changed {
			return false
		}
		modified <- at
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if check() {
				return nil
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(ev.Name) == name && check() {
				return nil
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			o.Logger.Warn(ctx, "fsnotify error", xlog.Path(path), xlog.Err(err))
		}
	}
}

// newNotifier 监视文件所在目录：编辑器常以"写临时文件再 rename"保存，
// 直接监视文件会丢失后续事件。
func newNotifier(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	return w, nil
}

func snapshot(path string, fingerprint bool) (baseline, error) {
	info, err := os.Stat(path)
	if err != nil {
		return baseline{}, err
	}
	b := baseline{modTime: info.ModTime()}
	if fingerprint {
		sum, err := hashFile(path)
		if err != nil {
			return baseline{}, err
		}
		b.sum, b.hasSum = sum, true
	}
	return b, nil
}

// compare 返回当前 mtime 以及是否与基线不同。文件不存在视为未修改。
func compare(path string, base baseline, fingerprint bool) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	if !info.ModTime().Equal(base.modTime) {
		return info.ModTime(), true
	}
	if fingerprint && base.hasSum {
		sum, err := hashFile(path)
		if err == nil && sum != base.sum {
			return info.ModTime(), true
		}
	}
	return time.Time{}, false
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // 路径由调用方校验
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
