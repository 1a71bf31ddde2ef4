// Package xspec 加载并缓存各配置系统的声明式规格（spec）。
//
// # 配置系统
//
// 配置系统是封闭集合：core、logger、alternate_dirs、developer_mode。
// 名称大小写不敏感，集合外的名称返回 InvalidConfigSystem 错误（见 xcfgerr）。
//
// # 规格文件
//
// 规格文件是扁平的 JSON 对象（也接受 .yaml/.yml），每个条目声明类型与默认值：
//
//	{
//	    "log_level": {"type": "str", "default": "INFO"},
//	    "log_to_file": {"type": "bool", "default": false}
//	}
//
// 默认值可以是任意 JSON 标量或 null，[Spec.Defaults] 统一转为字符串，null 转为 ""。
//
// # 系统表
//
// 系统名到规格文件路径、配置文件名的映射由 [Table] 提供，[DefaultTable] 指向
// 内嵌的内置规格（[BuiltinFS]）。测试可以注入 [MapTable] 和 fstest.MapFS。
//
// # 缓存
//
// [Loader.Load] 对同一系统只读取一次规格文件，后续调用返回同一个 *Spec。
// 并发的首次加载通过 singleflight 合并，保证同一进程内不会出现两份不同的规格。
// 读取或解析失败不做恢复，直接返回错误：没有规格系统无法安全运行。
package xspec
