// Package xcoerce 将配置文件中存储的字符串按声明类型转换为 Go 值。
//
// 类型名沿用配置规格（spec）文件中的写法，部分类型提供别名：
//
//	str / string          -> string
//	int / integer         -> int64
//	float                 -> float64
//	bool / boolean        -> bool（显式词表）
//	list / tuple          -> []string
//	dict / mapping / map  -> map[string]any
//	set                   -> Set
//	frozenset             -> FrozenSet
//	bytes / memoryview    -> []byte
//	bytearray             -> []byte（独立副本）
//	path                  -> string（展开 ~ 并 Clean）
//
// 未知类型名原样返回字符串，不报错。
//
// # 布尔值
//
// 布尔转换只接受词表中的记号（大小写不敏感）：true/false、yes/no、on/off、1/0。
// 其余输入返回 [ErrInvalidBool]，不会把任意非空字符串当作 true。
//
// # 列表与映射
//
// list/tuple/set 接受 JSON 数组（以 "[" 开头）或逗号分隔文本；
// dict 只接受 JSON 对象。空字符串得到空容器。
package xcoerce
