package xspec

import (
	"embed"
	"io/fs"
)

//go:embed specs/*.json
var builtin embed.FS

// BuiltinFS 返回内置规格文件系统，路径形如 "specs/core.json"。
func BuiltinFS() fs.FS {
	return builtin
}

// Source 单个配置系统的规格来源与配置文件名。
type Source struct {
	// SpecPath 规格文件在 fs.FS 中的路径
	SpecPath string

	// FileName 配置文件（INI）的规范文件名，不含目录
	FileName string
}

// Table 系统表：配置系统 -> 规格来源。
type Table interface {
	Lookup(s System) (Source, bool)
}

// MapTable 基于 map 的系统表。
type MapTable map[System]Source

// Lookup 实现 Table。
func (t MapTable) Lookup(s System) (Source, bool) {
	src, ok := t[s]
	return src, ok
}

// DefaultTable 返回内置系统表，规格来自 BuiltinFS。
func DefaultTable() MapTable {
	return MapTable{
		SystemCore:          {SpecPath: "specs/core.json", FileName: "config.ini"},
		SystemLogger:        {SpecPath: "specs/logger.json", FileName: "logger_config.ini"},
		SystemAlternateDirs: {SpecPath: "specs/alternate_dirs.json", FileName: "alternate_dirs_config.ini"},
		SystemDeveloperMode: {SpecPath: "specs/developer_mode.json", FileName: "developer_mode_config.ini"},
	}
}
