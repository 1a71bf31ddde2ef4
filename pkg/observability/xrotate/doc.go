// Package xrotate 提供日志文件轮转，logger 配置系统开启 log_to_file 时使用。
//
// [NewLumberjack] 基于 lumberjack v2 按大小轮转，备份按数量与天数清理，可选 gzip 压缩。
// 配置通过 go-playground/validator 校验范围，MaxBackups 与 MaxAgeDays 不能同时为 0。
//
//	r, err := xrotate.NewLumberjack("/var/log/xfire/xfire.log",
//	    xrotate.WithMaxSize(10),
//	    xrotate.WithMaxBackups(5),
//	)
package xrotate
