package xsysconf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xwatch"
	"github.com/omeyang/xfire/pkg/observability/xlog"
)

// ErrNoEditor 表示找不到可用的编辑器命令。
var ErrNoEditor = errors.New("xsysconf: no editor available")

// EditorCommand 解析编辑器命令：editor 非空时使用它，
// 否则依次取 $VISUAL、$EDITOR，最后是平台默认值。
func EditorCommand(editor string) []string {
	for _, c := range []string{editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if f := strings.Fields(c); len(f) > 0 {
			return f
		}
	}
	switch runtime.GOOS {
	case "windows":
		return []string{"notepad"}
	case "darwin":
		return []string{"open", "-W", "-t"}
	default:
		return []string{"xdg-open"}
	}
}

// EditorOpener 用外部编辑器打开文件，等待编辑器进程退出。
// 编辑器继承当前进程的标准输入输出。
func EditorOpener(editor string) xwatch.Opener {
	return xwatch.OpenerFunc(func(ctx context.Context, path string) error {
		argv := EditorCommand(editor)
		bin, err := exec.LookPath(argv[0])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNoEditor, argv[0], err)
		}
		cmd := exec.CommandContext(ctx, bin, append(argv[1:], path)...) //nolint:gosec // 编辑器由用户配置
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("xsysconf: run editor %s: %w", argv[0], err)
		}
		return nil
	})
}

// OpenAndWait 打开配置文件供编辑，等待修改或取消。
//
// 开启自动备份且未跳过备份时先备份。默认取消手势为 Ctrl-C（os.Interrupt），
// 可通过 WithWatchOptions 或 opts 替换。检测到修改时标记 FileModified，
// 开启 reload-on-change 则立即重载。文件不存在只记录警告，返回 false。
func (h *Handle) OpenAndWait(ctx context.Context, skipBackup bool, opts ...xwatch.Option) (bool, error) {
	if !skipBackup && h.autoBackup && h.FileExists() {
		if _, err := h.Backup(); err != nil && !errors.Is(err, xcfgerr.ErrFileAlreadyExists) {
			return false, err
		}
	}

	watchOpts := make([]xwatch.Option, 0, 4+len(h.watch)+len(opts))
	watchOpts = append(watchOpts,
		xwatch.WithOpener(h.opener),
		xwatch.WithTrigger(xwatch.SignalTrigger()),
		xwatch.WithLogger(h.logger),
	)
	if h.interval > 0 {
		watchOpts = append(watchOpts, xwatch.WithInterval(h.interval))
	}
	watchOpts = append(watchOpts, h.watch...)
	watchOpts = append(watchOpts, opts...)

	res, err := xwatch.WaitForChange(ctx, h.path, watchOpts...)
	if err != nil {
		if errors.Is(err, xcfgerr.ErrFileNotFound) {
			h.logger.Warn(ctx, "config file not found, nothing to edit", xlog.Path(h.path))
			return false, nil
		}
		return false, err
	}
	if !res.Modified {
		h.logger.Info(ctx, "edit cancelled", xlog.Path(h.path))
		return false, nil
	}

	h.logger.Info(ctx, "config file modified", xlog.Path(h.path))
	if err := h.SetFileModified(true); err != nil {
		return true, err
	}
	return true, nil
}
