package main

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xfire/pkg/config/xsysconf"
	"github.com/omeyang/xfire/pkg/observability/xlog"
)

// app 一次命令执行的状态。配置系统在第一次需要时初始化。
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	env            *xsysconf.Env
	cleanup        func() error
	unknownCommand bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

// open 初始化配置系统（alternate_dirs、core、logger）并返回 name 对应的句柄。
// 全局 flag 从根命令读取，子命令的同名 flag 不影响它们。
func (a *app) open(ctx context.Context, cmd *cli.Command, name string) (*xsysconf.Handle, error) {
	if a.env == nil {
		if err := a.bootstrap(ctx, cmd.Root()); err != nil {
			return nil, err
		}
	}
	return a.env.Open(name)
}

// bootstrap 先用 flag 构建的日志初始化配置系统，再换成 logger 系统描述的日志。
// 显式给出的 --log-level、--log-format 优先于配置。
func (a *app) bootstrap(ctx context.Context, root *cli.Command) error {
	boot, _, err := xlog.New().
		SetOutput(a.stderr).
		SetLevelString(root.String("log-level")).
		SetFormat(root.String("log-format")).
		Build()
	if err != nil {
		return usagef("%v", err)
	}

	opts := []xsysconf.Option{xsysconf.WithLogger(boot)}
	if dir := root.String("dir"); dir != "" {
		opts = append(opts, xsysconf.WithDir(dir))
	}
	env, err := xsysconf.Bootstrap(ctx, xsysconf.NewRegistry(opts...))
	if err != nil {
		return err
	}
	a.env = env

	logger, cleanup, err := a.configuredLogger(root)
	if err != nil {
		// 配置有误时保留 flag 日志，否则无法再用 set 修正
		boot.Warn(ctx, "invalid logger configuration, keeping command line logger", xlog.Err(err))
		return nil
	}
	a.cleanup = cleanup
	env.Registry.SetLogger(logger)
	return nil
}

func (a *app) configuredLogger(root *cli.Command) (xlog.LoggerWithLevel, func() error, error) {
	b, err := a.env.LoggerBuilder()
	if err != nil {
		return nil, nil, err
	}
	b.SetOutput(a.stderr)
	if root.IsSet("log-level") {
		b.SetLevelString(root.String("log-level"))
	}
	if root.IsSet("log-format") {
		b.SetFormat(root.String("log-format"))
	}
	return b.Build()
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
	}
}
