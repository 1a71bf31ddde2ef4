// Package xlog 基于 log/slog 的结构化日志。
//
// # 创建 Logger
//
// Builder 模式，遇到第一个配置错误后后续 Set 被跳过，错误在 Build 时返回：
//
//	logger, cleanup, err := xlog.New().
//	    SetLevelString("info").
//	    SetFormat("json").
//	    SetRotation("/var/log/xfire/xfire.log", xrotate.WithMaxSize(10)).
//	    SetFileLevelString("debug").
//	    Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// 设置 SetRotation 后日志同时写入控制台输出与轮转文件，两路各自有级别：
// 控制台使用 SetLevel，文件使用 SetFileLevel（未设置时与控制台相同）。
//
// # 接口
//
// [Logger] 的方法强制传入 context.Context，属性只接受 slog.Attr。
// [Leveler] 提供运行时级别调整，[Builder.Build] 返回两者的组合 [LoggerWithLevel]。
// With/WithGroup 派生的 logger 共享级别。
//
// # 全局 Logger
//
// [Default] 惰性创建（stderr、Info、text），[SetDefault] 替换，[ResetDefault] 用于测试。
//
// # 便捷属性
//
// [Err]、[Duration]、[Component]、[Operation]、[Path]、[System]、[Key]、[Section]、[Count]。
package xlog
