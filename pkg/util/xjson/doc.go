// Package xjson 提供配置值与命令行输出使用的 JSON 编码。
//
// 与 [encoding/json] 默认行为不同，HTML 特殊字符（<, >, &）不转义，
// 结果不带末尾换行，可以直接写入 INI 值或终端。
//
//   - [Compact]：单行 JSON，用于把列表、字典写成配置值
//   - [Pretty]：两空格缩进，用于展示
package xjson
