// Package xini 提供配置系统使用的 INI 文档模型。
//
// 文档由一个 DEFAULT 键集合和若干具名分区（USER、CACHE 等）组成，
// 每个分区是 key -> string 的扁平映射。分区读取时继承 DEFAULT 中的键：
// [Document.Get] 先查分区自身，再回落到 DEFAULT。
//
// 编解码基于 gopkg.in/ini.v1。写出时 DEFAULT 在最前并带 [DEFAULT] 头，
// 分区按首次出现顺序，分区内键按字典序，输出可重复、便于比较。
//
// 值按原样保存：# 与 ; 不是注释，行尾反斜杠不是续行，成对引号不被剥离。
// 首尾带空白或以三引号开头的值写出时加三引号。[Document.Verify] 用于在落盘前
// 确认值能原样读回。
//
// 包初始化时设置 ini.v1 的包级输出变量（DefaultHeader、PrettyFormat、
// PrettyEqual），同一进程内其他 ini.v1 使用者的输出格式也随之改变。
//
//	doc := xini.New()
//	doc.SetDefaults(map[string]string{"log_level": "INFO"})
//	doc.Set("USER", "log_level", "DEBUG")
//	v, _ := doc.Get("USER", "log_level") // "DEBUG"
//
// 文档不是并发安全的，由持有者串行访问。
package xini
