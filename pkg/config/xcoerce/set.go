package xcoerce

import "slices"

// Set 可变字符串集合。
type Set map[string]struct{}

// NewSet 由元素构造集合，重复元素去重。
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Add 添加元素。
func (s Set) Add(item string) { s[item] = struct{}{} }

// Contains 判断是否包含元素。
func (s Set) Contains(item string) bool {
	_, ok := s[item]
	return ok
}

// Items 返回排序后的元素列表。
func (s Set) Items() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// FrozenSet 只读字符串集合，构造后不可修改。
type FrozenSet struct {
	m Set
}

// NewFrozenSet 由元素构造只读集合。
func NewFrozenSet(items ...string) FrozenSet {
	return FrozenSet{m: NewSet(items...)}
}

// Contains 判断是否包含元素。
func (f FrozenSet) Contains(item string) bool { return f.m.Contains(item) }

// Len 返回元素数量。
func (f FrozenSet) Len() int { return len(f.m) }

// Items 返回排序后的元素列表（副本）。
func (f FrozenSet) Items() []string { return f.m.Items() }
