package xspec

import (
	"fmt"
	"io/fs"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
)

// Loader 规格加载器，按系统缓存已解析的规格。
// 并发安全。
type Loader struct {
	fsys  fs.FS
	table Table

	mu    sync.RWMutex
	cache map[System]*Spec
	group singleflight.Group
}

// LoaderOption 加载器选项。
type LoaderOption func(*Loader)

// WithFS 设置读取规格文件的文件系统，默认 BuiltinFS。
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fsys = fsys
		}
	}
}

// WithTable 设置系统表，默认 DefaultTable。
func WithTable(t Table) LoaderOption {
	return func(l *Loader) {
		if t != nil {
			l.table = t
		}
	}
}

// NewLoader 创建规格加载器。
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:  BuiltinFS(),
		table: DefaultTable(),
		cache: make(map[System]*Spec),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Table 返回加载器使用的系统表。
func (l *Loader) Table() Table { return l.table }

// Source 返回系统的规格来源。
func (l *Loader) Source(name string) (Source, error) {
	s, err := ParseSystem(name)
	if err != nil {
		return Source{}, err
	}
	src, ok := l.table.Lookup(s)
	if !ok {
		return Source{}, xcfgerr.InvalidSystem(name, SystemNames())
	}
	return src, nil
}

// Load 返回系统的规格，首次调用时读取并解析规格文件。
//
// 名称不在封闭集合中返回 xcfgerr.ErrInvalidConfigSystem；
// 读取或解析失败返回 xcfgerr.ErrSpecLoad，失败结果不缓存。
func (l *Loader) Load(name string) (*Spec, error) {
	s, err := ParseSystem(name)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	spec, ok := l.cache[s]
	l.mu.RUnlock()
	if ok {
		return spec, nil
	}

	v, err, _ := l.group.Do(string(s), func() (any, error) {
		l.mu.RLock()
		cached, ok := l.cache[s]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := l.read(s)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cache[s] = loaded
		l.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	spec, ok = v.(*Spec)
	if !ok {
		return nil, fmt.Errorf("xspec: unexpected cached value %T", v)
	}
	return spec, nil
}

func (l *Loader) read(s System) (*Spec, error) {
	src, ok := l.table.Lookup(s)
	if !ok {
		return nil, xcfgerr.InvalidSystem(string(s), SystemNames())
	}

	format, err := DetectFormat(src.SpecPath)
	if err != nil {
		return nil, xcfgerr.Wrap(xcfgerr.KindSpecLoad, err, "spec %s", src.SpecPath)
	}

	data, err := fs.ReadFile(l.fsys, src.SpecPath)
	if err != nil {
		return nil, xcfgerr.Wrap(xcfgerr.KindSpecLoad, err, "read spec %s", src.SpecPath)
	}

	spec, err := Parse(s, src, data, format)
	if err != nil {
		return nil, xcfgerr.Wrap(xcfgerr.KindSpecLoad, err, "parse spec %s", src.SpecPath)
	}
	return spec, nil
}

// Cached 判断系统规格是否已缓存。
func (l *Loader) Cached(s System) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[s]
	return ok
}

// Reset 清空缓存，之后的 Load 重新读取规格文件。
func (l *Loader) Reset() {
	l.mu.Lock()
	l.cache = make(map[System]*Spec)
	l.mu.Unlock()
}

// =============================================================================
// 默认加载器
// =============================================================================

var (
	defaultMu     sync.RWMutex
	defaultLoader = NewLoader()
)

// DefaultLoader 返回进程级默认加载器。
func DefaultLoader() *Loader {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLoader
}

// Load 使用默认加载器加载规格。
func Load(name string) (*Spec, error) {
	return DefaultLoader().Load(name)
}

// ResetDefaultLoader 替换默认加载器为一个新的空缓存实例。
// 主要用于测试。
func ResetDefaultLoader() {
	defaultMu.Lock()
	defaultLoader = NewLoader()
	defaultMu.Unlock()
}
