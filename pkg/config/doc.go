// Package config 提供版本化配置系统相关的子包。
//
// 子包列表：
//   - xsysconf: 配置系统句柄与注册表，读写、备份、同步、编辑
//   - xspec: 内置规格的加载、解析与缓存
//   - xini: INI 文档模型
//   - xcoerce: 字符串到声明类型的转换
//   - xwatch: 等待外部编辑器修改文件
//   - xdirs: 平台应用目录解析
//   - xcfgerr: 结构化错误类别
package config
