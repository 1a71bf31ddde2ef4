package xsysconf

import (
	"fmt"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xcoerce"
	"github.com/omeyang/xfire/pkg/config/xini"
	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/observability/xlog"
	"github.com/omeyang/xfire/pkg/util/xfile"
)

// Override 设置实例级覆盖值，优先于文件与默认值，不持久化。
func (h *Handle) Override(key string, value any) {
	h.overrides[key] = value
}

// ClearOverride 移除覆盖值。
func (h *Handle) ClearOverride(key string) {
	delete(h.overrides, key)
}

// Get 解析 key 的值，优先级见包文档。
func (h *Handle) Get(key string) (any, error) {
	if v, ok := h.overrides[key]; ok {
		return v, nil
	}
	raw, err := h.resolve(key)
	if err != nil {
		return nil, err
	}
	typ, ok := h.spec.TypeOf(key)
	if !ok {
		return raw, nil
	}
	v, err := xcoerce.Convert(raw, typ)
	if err != nil {
		return nil, fmt.Errorf("xsysconf: %s.%s: %w", h.system, key, err)
	}
	return v, nil
}

// Raw 返回未经类型转换的字符串值。覆盖值按字符串形式返回。
func (h *Handle) Raw(key string) (string, error) {
	if v, ok := h.overrides[key]; ok {
		return xspec.FormatValue(v), nil
	}
	return h.resolve(key)
}

func (h *Handle) resolve(key string) (string, error) {
	section := h.Section()
	h.doc.EnsureSection(section)
	if v, ok := h.doc.Get(section, key); ok {
		return v, nil
	}

	h.diagnoseFallback(key)
	if v, ok := h.spec.Default(key); ok {
		return v, nil
	}
	return "", xcfgerr.New(xcfgerr.KindAttributeNotFound, "%s has no attribute %q", h.system, key)
}

// diagnoseFallback 记录回落到默认值的原因。
func (h *Handle) diagnoseFallback(key string) {
	ctx := h.ctx()
	if !xfile.Exists(h.path) {
		h.logger.Warn(ctx, "file not found, returning default", xlog.Key(key), xlog.Path(h.path))
		return
	}
	found, err := xini.FileHasSection(h.path, h.Section())
	if err == nil && !found {
		h.logger.Warn(ctx, "user config not found", xlog.Section(h.Section()), xlog.Path(h.path))
		return
	}
	h.logger.Warn(ctx, "falling back to default for key", xlog.Key(key), xlog.Path(h.path))
}

// GetString 读取字符串值。声明为 path 的键返回展开后的路径。
func (h *Handle) GetString(key string) (string, error) {
	return Value[string](h, key)
}

// GetBool 读取布尔值。
func (h *Handle) GetBool(key string) (bool, error) {
	return Value[bool](h, key)
}

// GetInt 读取整数值。
func (h *Handle) GetInt(key string) (int64, error) {
	return Value[int64](h, key)
}

// GetFloat 读取浮点值。
func (h *Handle) GetFloat(key string) (float64, error) {
	return Value[float64](h, key)
}

// GetList 读取列表值。
func (h *Handle) GetList(key string) ([]string, error) {
	return Value[[]string](h, key)
}

// Value 读取 key 并断言为 T。
// 覆盖值或未声明类型的键是字符串时，按 T 对应的类型名再转换一次。
func Value[T any](h *Handle, key string) (T, error) {
	var zero T
	v, err := h.Get(key)
	if err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	if s, ok := v.(string); ok {
		if typ := typeNameOf(zero); typ != "" {
			cv, err := xcoerce.Convert(s, string(typ))
			if err != nil {
				return zero, fmt.Errorf("xsysconf: %s.%s: %w", h.system, key, err)
			}
			if t, ok := cv.(T); ok {
				return t, nil
			}
		}
	}
	return zero, fmt.Errorf("%w: %s.%s is %T, not %T", ErrTypeMismatch, h.system, key, v, zero)
}

func typeNameOf(v any) xcoerce.TypeName {
	switch v.(type) {
	case bool:
		return xcoerce.TypeBool
	case int64:
		return xcoerce.TypeInt
	case float64:
		return xcoerce.TypeFloat
	case []string:
		return xcoerce.TypeList
	case map[string]any:
		return xcoerce.TypeDict
	default:
		return ""
	}
}
