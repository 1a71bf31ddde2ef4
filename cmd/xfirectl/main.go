// xfirectl 是 xfire 配置系统的命令行工具。
//
// 用法:
//
//	xfirectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-d, --dir         配置目录（默认: 平台配置目录或 alternate_dirs 指定的目录）
//	    --log-level   诊断日志级别 (debug/info/warn/error)，覆盖 logger 系统的 console_level
//	    --log-format  诊断日志格式 (text/json)，覆盖 logger 系统的 log_format
//
// 配置系统初始化前使用 flag 给出的日志（默认 warn、text），之后按 logger 系统构建，
// log_to_file 开启时同时写入日志目录下的轮转文件。
//
// 命令:
//
//	systems                      列出配置系统
//	path <system>                打印配置文件路径
//	show <system> [--json]       打印当前生效的全部键值
//	get <system> <key>           读取单个键
//	set <system> <key> <value>   写入单个键（立即保存）
//	reset <system>               恢复默认值
//	sync <system>                与规格同步
//	create <system>              创建配置文件
//	backup <system>              备份配置文件
//	restore <system> [file]      从备份恢复，省略 file 时使用最新备份
//	move <system> <dir>          移动配置文件
//	edit <system>                用编辑器打开并等待修改（回车或 Ctrl-C 取消）
//
// 退出码:
//
//	0: 成功
//	1: 命令执行失败
//	2: 参数错误（缺少参数、未知命令、未知 flag）
//
// 示例:
//
//	xfirectl show logger
//	xfirectl set core check_for_updates false
//	xfirectl -d /tmp/xfire backup core --name before-upgrade
//	xfirectl edit logger --interval 500ms --timeout 10m
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// 退出码。
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行命令并把错误映射为退出码。
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	defer a.close()

	err := a.command().Run(ctx, args)
	switch {
	case a.unknownCommand:
		return exitUsage
	case err == nil:
		return exitOK
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) || isCLIUsageError(err) {
		_, _ = fmt.Fprintln(stderr, renderUsage(err))
		return exitUsage
	}
	_, _ = fmt.Fprintln(stderr, renderError(err))
	return exitFailure
}

// command 构建根命令。
func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "xfirectl",
		Usage:     "xfire 配置系统命令行工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    a.stdin,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "配置目录",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "诊断日志级别 (debug/info/warn/error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "诊断日志格式 (text/json)",
				Value: "text",
			},
		},
		Commands:        a.commands(),
		HideHelpCommand: true,
		OnUsageError:    onUsageError,
		CommandNotFound: func(_ context.Context, _ *cli.Command, name string) {
			a.unknownCommand = true
			_, _ = fmt.Fprintln(a.stderr, renderUsage(fmt.Errorf("未知命令 %q", name)))
		},
		// run 统一映射退出码，不让 urfave/cli 直接调用 os.Exit
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{msg: err.Error()}
}

// isCLIUsageError 识别 urfave/cli 自身产生的参数错误。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"flag provided but not defined",
		"flag needs an argument",
		"invalid value",
		"Required flag",
		"No help topic",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
