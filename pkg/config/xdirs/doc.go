// Package xdirs 提供按平台约定解析的应用目录（cache、config、data、log、temp）。
//
// 基础目录由 github.com/adrg/xdg 按平台解析：Linux 遵循 XDG 约定
// （$XDG_CACHE_HOME、$XDG_CONFIG_HOME、$XDG_DATA_HOME、$XDG_STATE_HOME），
// macOS 使用 ~/Library 下的对应目录，Windows 使用 %LOCALAPPDATA%。
// cache、config、data 位于对应基础目录下的 <app>，log 位于 state 基础目录下的
// <app>/log。Windows 上 <app> 前加 <org>。
//
// xdg 在包初始化时读取环境变量，之后修改环境需要调用 xdg.Reload。
//
// temp 与 cache 相同。
//
// 配置系统通过 [Provider] 接口获取目录，测试可以注入 [Static]。
// [Dirs.WithOverrides] 用 alternate_dirs 配置系统中的非空路径覆盖默认目录。
package xdirs
