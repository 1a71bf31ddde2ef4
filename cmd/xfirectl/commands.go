package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/config/xsysconf"
	"github.com/omeyang/xfire/pkg/config/xwatch"
	"github.com/omeyang/xfire/pkg/util/xjson"
)

func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "systems",
			Usage:  "列出配置系统",
			Action: a.cmdSystems,
		},
		a.systemCommand("path", "打印配置文件路径", "", nil, a.cmdPath),
		a.systemCommand("show", "打印当前生效的全部键值", "", []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出"},
		}, a.cmdShow),
		a.systemCommand("get", "读取单个键", "<key>", nil, a.cmdGet),
		a.systemCommand("set", "写入单个键", "<key> <value>", nil, a.cmdSet),
		a.systemCommand("reset", "恢复默认值", "", nil, a.cmdReset),
		a.systemCommand("sync", "与规格同步", "", nil, a.cmdSync),
		a.systemCommand("create", "创建配置文件", "", nil, a.cmdCreate),
		a.systemCommand("backup", "备份配置文件", "", []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "备份目录（默认: <配置目录>/<core 的 backup_dir_name>）"},
			&cli.StringFlag{Name: "name", Usage: "备份文件名（默认: <文件名>_<时间戳>）"},
			&cli.StringFlag{Name: "ext", Usage: "扩展名", Value: xsysconf.DefaultBackupExt},
			&cli.BoolFlag{Name: "overwrite", Usage: "覆盖同名备份"},
			&cli.BoolFlag{Name: "no-create-dir", Usage: "备份目录不存在时报错"},
		}, a.cmdBackup),
		a.systemCommand("restore", "从备份恢复", "[file]", nil, a.cmdRestore),
		a.systemCommand("move", "移动配置文件", "<dir>", []cli.Flag{
			&cli.BoolFlag{Name: "skip-backup", Usage: "移动前不备份"},
			&cli.BoolFlag{Name: "create-dir", Usage: "目标目录不存在时创建"},
		}, a.cmdMove),
		a.systemCommand("edit", "用编辑器打开并等待修改", "", []cli.Flag{
			&cli.DurationFlag{Name: "interval", Usage: "轮询间隔（默认: core 的 watch_interval）"},
			&cli.DurationFlag{Name: "timeout", Usage: "最长等待时间，0 表示不限"},
			&cli.BoolFlag{Name: "no-notify", Usage: "只轮询，不使用文件系统通知"},
			&cli.BoolFlag{Name: "skip-backup", Usage: "编辑前不备份"},
		}, a.cmdEdit),
	}
}

// systemAction 以第一个参数为配置系统的命令。args 不含系统名。
type systemAction func(ctx context.Context, cmd *cli.Command, h *xsysconf.Handle, args []string) error

func (a *app) systemCommand(name, usage, argsUsage string, flags []cli.Flag, action systemAction) *cli.Command {
	return &cli.Command{
		Name:         name,
		Usage:        usage,
		ArgsUsage:    "<system> " + argsUsage,
		Flags:        flags,
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return usagef("%s 命令需要指定配置系统 (%v)", name, xspec.SystemNames())
			}
			h, err := a.open(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			return action(ctx, cmd, h, args[1:])
		},
	}
}

func exactArgs(cmd string, args []string, n int, usage string) error {
	if len(args) != n {
		return usagef("%s 命令用法: %s", cmd, usage)
	}
	return nil
}

func (a *app) cmdSystems(_ context.Context, _ *cli.Command) error {
	table := xspec.DefaultTable()
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SYSTEM\tFILE\tSECTION\tDESCRIPTION")
	for _, s := range xspec.Systems() {
		src, _ := table.Lookup(s)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s, src.FileName, s.Section(), s.Description())
	}
	return w.Flush()
}

func (a *app) cmdPath(_ context.Context, _ *cli.Command, h *xsysconf.Handle, _ []string) error {
	_, err := fmt.Fprintln(a.stdout, h.FilePath())
	return err
}

func (a *app) cmdShow(_ context.Context, cmd *cli.Command, h *xsysconf.Handle, _ []string) error {
	snap := h.Snapshot()
	if cmd.Bool("json") {
		out, err := xjson.Pretty(snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, out)
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "# %s (%s)\n", h.System().FriendlyName(), h.FilePath())
	for _, k := range slices.Sorted(maps.Keys(snap)) {
		_, _ = fmt.Fprintf(a.stdout, "%s = %s\n", k, snap[k])
	}
	return nil
}

func (a *app) cmdGet(_ context.Context, _ *cli.Command, h *xsysconf.Handle, args []string) error {
	if err := exactArgs("get", args, 1, "get <system> <key>"); err != nil {
		return err
	}
	v, err := h.Get(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, xspec.FormatValue(v))
	return err
}

func (a *app) cmdSet(_ context.Context, _ *cli.Command, h *xsysconf.Handle, args []string) error {
	if err := exactArgs("set", args, 2, "set <system> <key> <value>"); err != nil {
		return err
	}
	if err := h.Set(args[0], args[1]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stdout, "%s.%s = %s\n", h.System(), args[0], args[1])
	return err
}

func (a *app) cmdReset(_ context.Context, _ *cli.Command, h *xsysconf.Handle, _ []string) error {
	if err := h.ResetToDefaults(false); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stdout, "%s 已恢复默认值\n", h.System())
	return err
}

func (a *app) cmdSync(_ context.Context, _ *cli.Command, h *xsysconf.Handle, _ []string) error {
	return h.SyncWithSpec()
}

func (a *app) cmdCreate(_ context.Context, _ *cli.Command, h *xsysconf.Handle, _ []string) error {
	if err := h.CreateFile(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.stdout, h.FilePath())
	return err
}

func (a *app) cmdBackup(_ context.Context, cmd *cli.Command, h *xsysconf.Handle, _ []string) error {
	opts := []xsysconf.BackupOption{xsysconf.BackupExt(cmd.String("ext"))}
	if dir := cmd.String("dir"); dir != "" {
		opts = append(opts, xsysconf.BackupDir(dir))
	}
	if name := cmd.String("name"); name != "" {
		opts = append(opts, xsysconf.BackupName(name))
	}
	if cmd.Bool("overwrite") {
		opts = append(opts, xsysconf.Overwrite())
	}
	if cmd.Bool("no-create-dir") {
		opts = append(opts, xsysconf.NoCreateDir())
	}

	path, err := h.Backup(opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, path)
	return err
}

func (a *app) cmdRestore(_ context.Context, _ *cli.Command, h *xsysconf.Handle, args []string) error {
	if len(args) > 1 {
		return usagef("restore 命令用法: restore <system> [file]")
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}
	if err := h.RestoreFromBackup(file); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stdout, "%s 已从备份恢复\n", h.System())
	return err
}

func (a *app) cmdMove(_ context.Context, cmd *cli.Command, h *xsysconf.Handle, args []string) error {
	if err := exactArgs("move", args, 1, "move <system> <dir>"); err != nil {
		return err
	}
	if err := h.MoveFile(args[0], cmd.Bool("skip-backup"), cmd.Bool("create-dir")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.stdout, h.FilePath())
	return err
}

func (a *app) cmdEdit(ctx context.Context, cmd *cli.Command, h *xsysconf.Handle, _ []string) error {
	editor, err := a.env.Core.GetString("editor")
	if err != nil {
		return err
	}

	if timeout := cmd.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := []xwatch.Option{
		xwatch.WithOpener(xsysconf.EditorOpener(editor)),
		xwatch.WithNotify(!cmd.Bool("no-notify")),
		xwatch.WithTrigger(xwatch.AnyTrigger(xwatch.ReaderTrigger(a.stdin), xwatch.SignalTrigger())),
	}
	if cmd.IsSet("interval") {
		opts = append(opts, xwatch.WithInterval(cmd.Duration("interval")))
	}

	_, _ = fmt.Fprintln(a.stderr, "保存并关闭编辑器以应用修改，按回车或 Ctrl-C 取消")
	modified, err := h.OpenAndWait(ctx, cmd.Bool("skip-backup"), opts...)
	if err != nil {
		return err
	}
	if modified {
		_, err = fmt.Fprintf(a.stdout, "%s 已修改\n", h.FilePath())
	} else {
		_, err = fmt.Fprintln(a.stdout, "已取消")
	}
	return err
}
