package xspec

import (
	"strings"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
)

// System 配置系统名。
type System string

// 支持的配置系统。
const (
	SystemCore          System = "core"
	SystemLogger        System = "logger"
	SystemAlternateDirs System = "alternate_dirs"
	SystemDeveloperMode System = "developer_mode"
)

// 配置文件中的分区名。
const (
	SectionUser  = "USER"
	SectionCache = "CACHE"
)

type systemInfo struct {
	friendly    string
	description string
}

var systems = map[System]systemInfo{
	SystemCore:          {"Core", "The configuration for the core system."},
	SystemLogger:        {"Logger", "The configuration for the logger."},
	SystemAlternateDirs: {"Alternate Directories", "The configuration for alternate directories."},
	SystemDeveloperMode: {"Developer Mode", "The configuration for developer mode."},
}

// systemOrder 固定顺序，用于展示和错误提示
var systemOrder = []System{SystemCore, SystemLogger, SystemAlternateDirs, SystemDeveloperMode}

// Systems 返回全部配置系统（固定顺序）。
func Systems() []System {
	out := make([]System, len(systemOrder))
	copy(out, systemOrder)
	return out
}

// SystemNames 返回全部配置系统名（固定顺序）。
func SystemNames() []string {
	out := make([]string, 0, len(systemOrder))
	for _, s := range systemOrder {
		out = append(out, string(s))
	}
	return out
}

// ParseSystem 解析配置系统名，大小写不敏感。
func ParseSystem(name string) (System, error) {
	s := System(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := systems[s]; !ok {
		return "", xcfgerr.InvalidSystem(name, SystemNames())
	}
	return s, nil
}

// String 实现 fmt.Stringer。
func (s System) String() string { return string(s) }

// Valid 判断是否属于封闭集合。
func (s System) Valid() bool {
	_, ok := systems[s]
	return ok
}

// FriendlyName 返回展示名。
func (s System) FriendlyName() string { return systems[s].friendly }

// Description 返回系统说明。
func (s System) Description() string { return systems[s].description }

// Section 返回该系统在配置文件中的活动分区名。
// alternate_dirs 使用 CACHE，其余系统使用 USER。
func (s System) Section() string {
	if s == SystemAlternateDirs {
		return SectionCache
	}
	return SectionUser
}
