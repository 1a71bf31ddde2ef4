package xspec

import (
	"fmt"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xfire/pkg/util/xjson"
)

// Format 规格文件格式。
type Format string

// 支持的规格格式。
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// keyDelim koanf 键分隔符。规格是扁平结构，选用不会出现在键名中的控制字符，
// 避免含 "." 的键被拆成嵌套路径。
const keyDelim = "\x1f"

// Entry 单个配置项的声明。
type Entry struct {
	// Type 声明类型名，见 xcoerce
	Type string `koanf:"type" validate:"required,alpha,max=32"`

	// Default 默认值，任意 JSON 标量或 nil
	Default any `koanf:"default"`
}

// Spec 单个配置系统的规格。加载后不可变。
type Spec struct {
	system   System
	source   Source
	entries  map[string]Entry
	defaults map[string]string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse 解析规格数据。
func Parse(system System, src Source, data []byte, format Format) (*Spec, error) {
	var parser koanf.Parser
	switch format {
	case FormatJSON:
		parser = koanfjson.Parser()
	case FormatYAML:
		parser = yaml.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(keyDelim)
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("xspec: parse %s spec: %w", system, err)
	}

	entries := make(map[string]Entry)
	if err := k.UnmarshalWithConf("", &entries, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("xspec: decode %s spec: %w", system, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySpec, system)
	}

	defaults := make(map[string]string, len(entries))
	for key, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidEntry, system, key, err)
		}
		defaults[key] = FormatValue(e.Default)
	}

	return &Spec{
		system:   system,
		source:   src,
		entries:  entries,
		defaults: defaults,
	}, nil
}

// DetectFormat 根据扩展名检测规格格式。
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// System 返回所属配置系统。
func (s *Spec) System() System { return s.system }

// Source 返回规格来源。
func (s *Spec) Source() Source { return s.source }

// FileName 返回配置文件规范文件名。
func (s *Spec) FileName() string { return s.source.FileName }

// Len 返回条目数量。
func (s *Spec) Len() int { return len(s.entries) }

// Keys 返回排序后的全部键。
func (s *Spec) Keys() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Has 判断键是否已声明。
func (s *Spec) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Entry 返回键的声明。
func (s *Spec) Entry(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// TypeOf 返回键的声明类型。
func (s *Spec) TypeOf(key string) (string, bool) {
	e, ok := s.entries[key]
	return e.Type, ok
}

// Default 返回键的字符串化默认值。
func (s *Spec) Default(key string) (string, bool) {
	v, ok := s.defaults[key]
	return v, ok
}

// Defaults 返回全部字符串化默认值（副本）。
func (s *Spec) Defaults() map[string]string {
	return maps.Clone(s.defaults)
}

// Defaults 返回规格的字符串化默认值映射，等价于 spec.Defaults()。
func Defaults(spec *Spec) map[string]string {
	if spec == nil {
		return map[string]string{}
	}
	return spec.Defaults()
}

// FormatValue 将默认值或写入值转为配置文件中的字符串表示。
//
//   - nil -> ""
//   - bool -> "true"/"false"
//   - 整数值的浮点数不带小数部分（8080.0 -> "8080"）
//   - 其他 JSON 值（数组、对象）-> 紧凑 JSON
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case []any, map[string]any, []string:
		s, err := xjson.Compact(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return s
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
