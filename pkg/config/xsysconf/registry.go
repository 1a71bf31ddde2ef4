package xsysconf

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/omeyang/xfire/pkg/config/xspec"
	"github.com/omeyang/xfire/pkg/observability/xlog"
)

// Registry 每个配置系统最多持有一个 Handle。
//
// 首次创建由 singleflight 串行化，之后的 Get 是读锁下的 map 命中。
// Registry 只保护 Handle 的创建与查找，Handle 本身仍只能由一个 goroutine 使用。
type Registry struct {
	opts []Option

	mu      sync.RWMutex
	handles map[xspec.System]*Handle
	group   singleflight.Group
}

// NewRegistry 创建注册表，opts 作用于它创建的每个 Handle。
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:    slices.Clone(opts),
		handles: make(map[xspec.System]*Handle),
	}
}

// Get 返回系统的 Handle，不存在时创建。
//
// opts 追加在注册表选项之后，只在创建时生效；Handle 已存在时被忽略。
func (r *Registry) Get(name string, opts ...Option) (*Handle, error) {
	s, err := xspec.ParseSystem(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	h, ok := r.handles[s]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := r.group.Do(string(s), func() (any, error) {
		r.mu.RLock()
		existing, ok := r.handles[s]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		all := append(r.options(), opts...)
		created, err := NewHandle(string(s), all...)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.handles[s] = created
		r.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	h, ok = v.(*Handle)
	if !ok {
		return nil, fmt.Errorf("xsysconf: unexpected registry value %T", v)
	}
	return h, nil
}

// options 返回注册表选项的副本。
func (r *Registry) options() []Option {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.opts)
}

// SetLogger 替换诊断日志：已创建的 Handle 立即生效，之后创建的 Handle 也使用它。
func (r *Registry) SetLogger(l xlog.Logger) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = append(r.opts, WithLogger(l))
	for _, h := range r.handles {
		h.SetLogger(l)
	}
}

// Lookup 返回已创建的 Handle，不会创建。
func (r *Registry) Lookup(name string) (*Handle, bool) {
	s, err := xspec.ParseSystem(name)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[s]
	return h, ok
}

// Handles 按系统的固定顺序返回已创建的 Handle。
func (r *Registry) Handles() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Handle, 0, len(r.handles))
	for _, s := range xspec.Systems() {
		if h, ok := r.handles[s]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Reset 丢弃全部 Handle，不影响磁盘文件。
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.handles)
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default 返回进程级默认注册表，首次调用时创建。
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// ResetDefault 丢弃默认注册表，下次 Default 重新创建。
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = nil
}
