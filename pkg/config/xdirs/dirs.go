package xdirs

import (
	"errors"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// ErrNoHome 表示无法确定用户主目录。
var ErrNoHome = errors.New("xdirs: cannot determine home directory")

// Kind 目录类别。
type Kind string

// 目录类别。
const (
	KindCache  Kind = "cache"
	KindConfig Kind = "config"
	KindData   Kind = "data"
	KindLog    Kind = "log"
	KindTemp   Kind = "temp"
)

// Kinds 返回全部目录类别。
func Kinds() []Kind {
	return []Kind{KindCache, KindConfig, KindData, KindLog, KindTemp}
}

// Provider 目录提供者。
type Provider interface {
	Dir(kind Kind) string
}

// Dirs 一组已解析的应用目录。零值不可用。
type Dirs struct {
	Cache  string
	Config string
	Data   string
	Log    string
	Temp   string
}

// Dir 实现 Provider。
func (d Dirs) Dir(kind Kind) string {
	switch kind {
	case KindCache:
		return d.Cache
	case KindConfig:
		return d.Config
	case KindData:
		return d.Data
	case KindLog:
		return d.Log
	case KindTemp:
		return d.Temp
	default:
		return ""
	}
}

// WithOverrides 返回用 overrides 中非空路径替换后的副本。
func (d Dirs) WithOverrides(overrides map[Kind]string) Dirs {
	for kind, p := range overrides {
		if p == "" {
			continue
		}
		switch kind {
		case KindCache:
			d.Cache = p
		case KindConfig:
			d.Config = p
		case KindData:
			d.Data = p
		case KindLog:
			d.Log = p
		case KindTemp:
			d.Temp = p
		}
	}
	return d
}

// Static 把固定目录包装成 Provider，全部类别都指向 root 下的同名子目录。
func Static(root string) Dirs {
	return Dirs{
		Cache:  filepath.Join(root, "cache"),
		Config: filepath.Join(root, "config"),
		Data:   filepath.Join(root, "data"),
		Log:    filepath.Join(root, "log"),
		Temp:   filepath.Join(root, "temp"),
	}
}

// New 按当前平台约定解析 app 的目录。org 只在 Windows 上参与路径。
// 基础目录取自 xdg 包在初始化（或 xdg.Reload）时读取的环境。
func New(app, org string) (Dirs, error) {
	if xdg.Home == "" {
		return Dirs{}, ErrNoHome
	}
	name := app
	if org != "" && runtime.GOOS == "windows" {
		name = filepath.Join(org, app)
	}
	d := Dirs{
		Cache:  filepath.Join(xdg.CacheHome, name),
		Config: filepath.Join(xdg.ConfigHome, name),
		Data:   filepath.Join(xdg.DataHome, name),
		Log:    filepath.Join(xdg.StateHome, name, "log"),
	}
	d.Temp = d.Cache
	return d, nil
}
