// Package observability 提供诊断输出相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog，ctx 优先、只接受 slog.Attr
//   - xrotate: 日志文件轮转，基于 lumberjack
package observability
