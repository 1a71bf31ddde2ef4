package xini

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultSection DEFAULT 分区名。
const DefaultSection = "DEFAULT"

// tripleQuote ini.v1 的多行/原样引号。
const tripleQuote = `"""`

func init() {
	// 输出 "[DEFAULT]" 头与 "key = value" 形式，不做列对齐。
	// 这三项是 ini.v1 的包级变量，对进程内所有 ini.v1 使用者生效。
	ini.DefaultHeader = true
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// loadOptions 值按原样读取：不识别行内注释与续行，保留成对引号。
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// Document INI 文档。
type Document struct {
	defaults map[string]string
	order    []string
	sections map[string]map[string]string
}

// New 创建空文档。
func New() *Document {
	return &Document{
		defaults: make(map[string]string),
		sections: make(map[string]map[string]string),
	}
}

// Parse 解析 INI 内容。
func Parse(data []byte) (*Document, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	doc := New()
	for _, sec := range f.Sections() {
		if sec.Name() == DefaultSection {
			for _, k := range sec.Keys() {
				doc.defaults[k.Name()] = k.Value()
			}
			continue
		}
		doc.EnsureSection(sec.Name())
		for _, k := range sec.Keys() {
			doc.sections[sec.Name()][k.Name()] = k.Value()
		}
	}
	return doc, nil
}

// Read 从 r 读取并解析 INI 内容。
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xini: read: %w", err)
	}
	return Parse(data)
}

// LoadFile 读取并解析 INI 文件。
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // 路径由调用方校验
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// FileHasSection 扫描文件，判断是否存在 "[name]" 分区头。
// 只看文件文本，不关心解析结果。
func FileHasSection(path, name string) (bool, error) {
	f, err := os.Open(path) //nolint:gosec // 路径由调用方校验
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	marker := "[" + name + "]"
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == marker {
			return true, nil
		}
	}
	return false, sc.Err()
}

// =============================================================================
// DEFAULT
// =============================================================================

// HasDefaults 判断 DEFAULT 是否有键。
func (d *Document) HasDefaults() bool { return len(d.defaults) > 0 }

// Defaults 返回 DEFAULT 键集合的副本。
func (d *Document) Defaults() map[string]string { return maps.Clone(d.defaults) }

// DefaultKeys 返回排序后的 DEFAULT 键。
func (d *Document) DefaultKeys() []string {
	return slices.Sorted(maps.Keys(d.defaults))
}

// SetDefaults 用 values 整体替换 DEFAULT。
func (d *Document) SetDefaults(values map[string]string) {
	d.defaults = maps.Clone(values)
	if d.defaults == nil {
		d.defaults = make(map[string]string)
	}
}

// =============================================================================
// 分区
// =============================================================================

// HasSection 判断分区是否存在。
func (d *Document) HasSection(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// EnsureSection 分区不存在时创建。
func (d *Document) EnsureSection(name string) {
	if _, ok := d.sections[name]; ok {
		return
	}
	d.sections[name] = make(map[string]string)
	d.order = append(d.order, name)
}

// Section 返回分区自身键值（不含继承）的副本。分区不存在返回 nil。
func (d *Document) Section(name string) map[string]string {
	sec, ok := d.sections[name]
	if !ok {
		return nil
	}
	return maps.Clone(sec)
}

// Merged 返回 DEFAULT 与分区合并后的视图，分区值优先。
func (d *Document) Merged(name string) map[string]string {
	out := maps.Clone(d.defaults)
	if out == nil {
		out = make(map[string]string)
	}
	maps.Copy(out, d.sections[name])
	return out
}

// ReplaceSection 用 values 整体替换分区内容，分区不存在时创建。
func (d *Document) ReplaceSection(name string, values map[string]string) {
	d.EnsureSection(name)
	sec := make(map[string]string, len(values))
	maps.Copy(sec, values)
	d.sections[name] = sec
}

// Keys 返回分区自身的键（排序）。
func (d *Document) Keys(section string) []string {
	return slices.Sorted(maps.Keys(d.sections[section]))
}

// =============================================================================
// 键
// =============================================================================

// Get 读取键值：先查分区自身，再回落到 DEFAULT。
// 分区不存在时不回落。
func (d *Document) Get(section, key string) (string, bool) {
	if section == DefaultSection {
		v, ok := d.defaults[key]
		return v, ok
	}
	sec, ok := d.sections[section]
	if !ok {
		return "", false
	}
	if v, ok := sec[key]; ok {
		return v, true
	}
	v, ok := d.defaults[key]
	return v, ok
}

// Own 只读取分区自身的键值。
func (d *Document) Own(section, key string) (string, bool) {
	if section == DefaultSection {
		v, ok := d.defaults[key]
		return v, ok
	}
	v, ok := d.sections[section][key]
	return v, ok
}

// Set 写入键值，分区不存在时创建。
func (d *Document) Set(section, key, value string) {
	if section == DefaultSection {
		d.defaults[key] = value
		return
	}
	d.EnsureSection(section)
	d.sections[section][key] = value
}

// Delete 删除分区自身的键。
func (d *Document) Delete(section, key string) {
	if section == DefaultSection {
		delete(d.defaults, key)
		return
	}
	delete(d.sections[section], key)
}

// Clone 深拷贝文档。
func (d *Document) Clone() *Document {
	c := New()
	c.defaults = maps.Clone(d.defaults)
	for _, name := range d.order {
		c.order = append(c.order, name)
		c.sections[name] = maps.Clone(d.sections[name])
	}
	return c
}

// =============================================================================
// 编码
// =============================================================================

// encode 构建用于输出的 ini.File，键按字典序。
func (d *Document) encode() (*ini.File, error) {
	f := ini.Empty(loadOptions)
	def := f.Section(DefaultSection)
	for _, k := range d.DefaultKeys() {
		if _, err := def.NewKey(k, d.defaults[k]); err != nil {
			return nil, fmt.Errorf("xini: encode %s.%s: %w", DefaultSection, k, err)
		}
	}
	for _, name := range d.order {
		sec, err := f.NewSection(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSection, err)
		}
		for _, k := range d.Keys(name) {
			if _, err := sec.NewKey(k, d.sections[name][k]); err != nil {
				return nil, fmt.Errorf("xini: encode %s.%s: %w", name, k, err)
			}
		}
	}
	return f, nil
}

// quote 为 ini.v1 写出后无法原样读回的值加三引号：首尾空白会被裁掉，
// 以三引号开头会被当作多行值。含换行或反引号的值由 ini.v1 自行加引号。
func quote(v string) string {
	if strings.ContainsAny(v, "\n`") {
		return v
	}
	if strings.TrimSpace(v) != v || strings.HasPrefix(v, tripleQuote) {
		return tripleQuote + v + tripleQuote
	}
	return v
}

// Verify 编码后重新解析，确认每个值都能原样读回。
// 失败时返回 ErrUnstableValue，指明第一个出错的键。
func (d *Document) Verify() error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	back, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnstableValue, err)
	}
	if key, ok := firstDiff(d.defaults, back.defaults); ok {
		return fmt.Errorf("%w: %s.%s", ErrUnstableValue, DefaultSection, key)
	}
	for _, name := range d.order {
		if key, ok := firstDiff(d.sections[name], back.sections[name]); ok {
			return fmt.Errorf("%w: %s.%s", ErrUnstableValue, name, key)
		}
	}
	return nil
}

func firstDiff(want, got map[string]string) (string, bool) {
	for _, k := range slices.Sorted(maps.Keys(want)) {
		if v, ok := got[k]; !ok || v != want[k] {
			return k, true
		}
	}
	return "", false
}

// WriteTo 将文档写入 w，实现 io.WriterTo。
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	f, err := d.encode()
	if err != nil {
		return 0, err
	}
	return f.WriteTo(w)
}

// Bytes 返回文档的 INI 文本。
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
