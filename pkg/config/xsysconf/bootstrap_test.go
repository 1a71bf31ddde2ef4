package xsysconf

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xdirs"
	"github.com/omeyang/xfire/pkg/observability/xlog"
)

func TestBootstrap_DefaultDirs(t *testing.T) {
	dirs := xdirs.Static(t.TempDir())
	r := NewRegistry(WithDirs(dirs), WithLogger(testLogger(t, io.Discard)))

	env, err := Bootstrap(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, dirs, env.Dirs)
	assert.FileExists(t, filepath.Join(dirs.Config, "alternate_dirs_config.ini"))
	assert.FileExists(t, filepath.Join(dirs.Config, "logger_config.ini"))
	assert.True(t, env.Logger.Loaded())

	core, err := env.Open("core")
	require.NoError(t, err)
	assert.Equal(t, dirs.Config, core.Dir())

	alt, err := env.Open("alternate_dirs")
	require.NoError(t, err)
	assert.Same(t, env.AlternateDirs, alt)
}

func TestBootstrap_AlternateConfigDir(t *testing.T) {
	dirs := xdirs.Static(t.TempDir())
	moved := filepath.Join(t.TempDir(), "elsewhere")
	logs := filepath.Join(t.TempDir(), "logs")

	seed, err := NewHandle("alternate_dirs",
		WithDir(dirs.Config), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
	require.NoError(t, err)
	require.NoError(t, seed.SetMany(map[string]any{
		"config_dir_path": moved,
		"log_dir_path":    logs,
	}))

	r := NewRegistry(WithDirs(dirs), WithLogger(testLogger(t, io.Discard)))
	env, err := Bootstrap(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, moved, env.Dirs.Config)
	assert.Equal(t, logs, env.Dirs.Log)
	assert.Equal(t, dirs.Cache, env.Dirs.Cache)
	assert.Equal(t, dirs.Config, env.AlternateDirs.Dir())
	assert.FileExists(t, filepath.Join(moved, "logger_config.ini"))

	dev, err := env.Open("developer_mode")
	require.NoError(t, err)
	assert.Equal(t, moved, dev.Dir())
}

func TestBuildLogger(t *testing.T) {
	t.Run("只输出到控制台", func(t *testing.T) {
		h, _ := newHandle(t, "logger", WithAutoLoad(true))
		l, cleanup, err := BuildLogger(h, t.TempDir())
		require.NoError(t, err)
		defer func() { _ = cleanup() }()
		assert.Equal(t, xlog.LevelInfo, l.GetLevel())
	})

	t.Run("写入轮转文件", func(t *testing.T) {
		h, _ := newHandle(t, "logger", WithAutoLoad(true))
		require.NoError(t, h.SetMany(map[string]any{
			"log_to_file":   true,
			"console_level": "warning",
			"log_format":    "json",
		}))
		logDir := t.TempDir()

		l, cleanup, err := BuildLogger(h, logDir)
		require.NoError(t, err)
		assert.Equal(t, xlog.LevelWarn, l.GetLevel())

		l.Debug(context.Background(), "to file only")
		require.NoError(t, cleanup())

		data, err := os.ReadFile(filepath.Join(logDir, "xfire.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to file only"`)
	})

	t.Run("非法级别", func(t *testing.T) {
		h, _ := newHandle(t, "logger", WithAutoLoad(true))
		require.NoError(t, h.Set("log_level", "loud"))
		require.NoError(t, h.Set("console_level", ""))
		_, _, err := BuildLogger(h, t.TempDir())
		assert.Error(t, err)
	})

	t.Run("错误的系统", func(t *testing.T) {
		h, _ := newHandle(t, "core")
		_, _, err := BuildLogger(h, t.TempDir())
		assert.ErrorIs(t, err, ErrWrongSystem)
	})
}

func TestBootstrap_CoreSettings(t *testing.T) {
	dirs := xdirs.Static(t.TempDir())
	seed, err := NewHandle("core",
		WithDir(dirs.Config), WithAutoLoad(true), WithoutAutoBackup(), WithLogger(testLogger(t, io.Discard)))
	require.NoError(t, err)
	require.NoError(t, seed.SetMany(map[string]any{
		"auto_backup":     false,
		"backup_dir_name": "old",
		"watch_interval":  0.25,
	}))

	env, err := Bootstrap(context.Background(),
		NewRegistry(WithDirs(dirs), WithLogger(testLogger(t, io.Discard))))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dirs.Config, "config.ini"))

	for _, name := range []string{"core", "logger", "developer_mode"} {
		h, err := env.Open(name)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dirs.Config, "old"), h.BackupDir(), name)
		assert.False(t, h.AutoBackup(), name)
		assert.Equal(t, 250*time.Millisecond, h.WatchInterval(), name)
	}

	dev, err := env.Open("developer_mode")
	require.NoError(t, err)
	require.NoError(t, dev.Set("enabled", true))
	require.NoError(t, dev.Set("enabled", false))
	assert.NoDirExists(t, filepath.Join(dirs.Config, "old"))
	assert.NoDirExists(t, filepath.Join(dirs.Config, "backups"))
}

func TestBootstrap_InvalidBackupDirName(t *testing.T) {
	dirs := xdirs.Static(t.TempDir())
	seed, err := NewHandle("core",
		WithDir(dirs.Config), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
	require.NoError(t, err)
	require.NoError(t, seed.Set("backup_dir_name", "../outside"))

	_, err = Bootstrap(context.Background(),
		NewRegistry(WithDirs(dirs), WithLogger(testLogger(t, io.Discard))))
	assert.ErrorIs(t, err, xcfgerr.ErrInvalidPath)
}

func TestBootstrap_MoveRecordsConfigDir(t *testing.T) {
	dirs := xdirs.Static(t.TempDir())
	target := filepath.Join(t.TempDir(), "moved")
	newEnv := func() *Env {
		env, err := Bootstrap(context.Background(),
			NewRegistry(WithDirs(dirs), WithLogger(testLogger(t, io.Discard))))
		require.NoError(t, err)
		return env
	}

	env := newEnv()
	require.NoError(t, env.Core.Set("app_name", "moved-app"))
	require.NoError(t, env.Core.MoveFile(target, true, true))
	assert.Equal(t, target, env.Dirs.Config)

	recorded, err := env.AlternateDirs.GetString("config_dir_path")
	require.NoError(t, err)
	assert.Equal(t, target, recorded)
	assert.Equal(t, dirs.Config, env.AlternateDirs.Dir())

	dev, err := env.Open("developer_mode")
	require.NoError(t, err)
	assert.Equal(t, target, dev.Dir())

	restarted := newEnv()
	assert.Equal(t, target, restarted.Dirs.Config)
	assert.Equal(t, filepath.Join(target, "config.ini"), restarted.Core.FilePath())
	name, err := restarted.Core.GetString("app_name")
	require.NoError(t, err)
	assert.Equal(t, "moved-app", name)
}

func TestBootstrap_SetFilePathRecordsConfigDir(t *testing.T) {
	dirs := xdirs.Static(t.TempDir())
	env, err := Bootstrap(context.Background(),
		NewRegistry(WithDirs(dirs), WithLogger(testLogger(t, io.Discard))))
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "logger_config.ini")
	require.NoError(t, env.Logger.SetFilePath(target))

	recorded, err := env.AlternateDirs.GetString("config_dir_path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(target), recorded)

	require.NoError(t, env.Logger.SetFilePath(filepath.Join(filepath.Dir(target), "other.ini")))
	assert.Equal(t, filepath.Dir(target), env.Dirs.Config)
}
