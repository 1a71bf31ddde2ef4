package xcoerce

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// TypeName 规格文件中声明的类型名。
type TypeName string

// 支持的类型名（规范写法）。
const (
	TypeString     TypeName = "str"
	TypeInt        TypeName = "int"
	TypeFloat      TypeName = "float"
	TypeBool       TypeName = "bool"
	TypeList       TypeName = "list"
	TypeDict       TypeName = "dict"
	TypeTuple      TypeName = "tuple"
	TypeSet        TypeName = "set"
	TypeFrozenSet  TypeName = "frozenset"
	TypeBytes      TypeName = "bytes"
	TypeByteArray  TypeName = "bytearray"
	TypeMemoryView TypeName = "memoryview"
	TypePath       TypeName = "path"
)

// aliases 别名 -> 规范类型名
var aliases = map[string]TypeName{
	"string":  TypeString,
	"integer": TypeInt,
	"boolean": TypeBool,
	"mapping": TypeDict,
	"map":     TypeDict,
}

// converter 将字符串转换为目标类型
type converter func(string) (any, error)

// table 类型名 -> 转换函数
var table = map[TypeName]converter{
	TypeString:     func(s string) (any, error) { return s, nil },
	TypeInt:        toInt,
	TypeFloat:      toFloat,
	TypeBool:       func(s string) (any, error) { return ParseBool(s) },
	TypeList:       func(s string) (any, error) { return toList(s) },
	TypeTuple:      func(s string) (any, error) { return toList(s) },
	TypeDict:       toDict,
	TypeSet:        toSet,
	TypeFrozenSet:  toFrozenSet,
	TypeBytes:      func(s string) (any, error) { return []byte(s), nil },
	TypeMemoryView: func(s string) (any, error) { return []byte(s), nil },
	TypeByteArray:  func(s string) (any, error) { return slices.Clone([]byte(s)), nil },
	TypePath:       toPath,
}

// boolTokens 布尔词表
var boolTokens = map[string]bool{
	"true":  true,
	"false": false,
	"yes":   true,
	"no":    false,
	"on":    true,
	"off":   false,
	"1":     true,
	"0":     false,
}

// Normalize 返回类型名的规范写法。未知类型名原样返回，ok 为 false。
func Normalize(name string) (TypeName, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[n]; ok {
		return alias, true
	}
	t := TypeName(n)
	_, ok := table[t]
	return t, ok
}

// Convert 将 value 转换为 typeName 声明的类型。
// 未知类型名原样返回 value。
func Convert(value, typeName string) (any, error) {
	t, ok := Normalize(typeName)
	if !ok {
		return value, nil
	}
	v, err := table[t](value)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ParseBool 按布尔词表解析，大小写不敏感，忽略首尾空白。
func ParseBool(s string) (bool, error) {
	v, ok := boolTokens[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, s)
	}
	return v, nil
}

func toInt(s string) (any, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrConvert, s)
	}
	return v, nil
}

func toFloat(s string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a float", ErrConvert, s)
	}
	return v, nil
}

// toList 解析 JSON 数组或逗号分隔文本
func toList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(s, "[") {
		var raw []any
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid list %q: %w", ErrConvert, s, err)
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			out = append(out, stringify(item))
		}
		return out, nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func toDict(s string) (any, error) {
	s = strings.TrimSpace(s)
	out := map[string]any{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("%w: invalid mapping %q: %w", ErrConvert, s, err)
	}
	return out, nil
}

func toSet(s string) (any, error) {
	items, err := toList(s)
	if err != nil {
		return nil, err
	}
	return NewSet(items...), nil
}

func toFrozenSet(s string) (any, error) {
	items, err := toList(s)
	if err != nil {
		return nil, err
	}
	return NewFrozenSet(items...), nil
}

func toPath(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if s == "~" || strings.HasPrefix(s, "~/") || strings.HasPrefix(s, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: expand %q: %w", ErrConvert, s, err)
		}
		s = filepath.Join(home, s[1:])
	}
	return filepath.Clean(s), nil
}

// stringify 将 JSON 解码得到的元素转为字符串
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
