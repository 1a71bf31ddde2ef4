// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 路径校验、目录创建、原子写入与带重试的重命名
//   - xjson: 不转义 HTML 的 JSON 编码，用于配置值与终端输出
package util
