package xsysconf

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xspec"
)

func TestNewHandle_InvalidSystem(t *testing.T) {
	_, err := NewHandle("nope", WithDir(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, xcfgerr.ErrInvalidConfigSystem)
	assert.Contains(t, err.Error(), "core")
}

func TestNewHandle_AutoLoadCreatesFile(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))

	assert.Equal(t, xspec.SystemCore, h.System())
	assert.Equal(t, "config.ini", h.FileName())
	assert.True(t, h.FileExists())
	assert.True(t, h.Loaded())
	assert.False(t, h.Dirty())

	data, err := os.ReadFile(h.FilePath())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "[DEFAULT]")
	assert.Contains(t, text, "[USER]")
	assert.Contains(t, text, "app_name = xfire")

	doc := h.Document()
	assert.Equal(t, h.Spec().Keys(), doc.DefaultKeys())
}

func TestNewHandle_AutoLoadExisting(t *testing.T) {
	dir := t.TempDir()
	first, err := NewHandle("core", WithDir(dir), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
	require.NoError(t, err)
	require.NoError(t, first.Set("app_name", "custom"))

	second, err := NewHandle("core", WithDir(dir), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
	require.NoError(t, err)
	v, err := second.GetString("app_name")
	require.NoError(t, err)
	assert.Equal(t, "custom", v)
}

func TestHandle_Section(t *testing.T) {
	tests := []struct {
		name    string
		system  string
		section string
	}{
		{"core 使用 USER", "core", "USER"},
		{"logger 使用 USER", "logger", "USER"},
		{"alternate_dirs 使用 CACHE", "alternate_dirs", "CACHE"},
		{"developer_mode 使用 USER", "developer_mode", "USER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandle(t, tt.system)
			assert.Equal(t, tt.section, h.Section())
		})
	}
}

func TestHandle_GetPrecedence(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))

	v, err := h.Get("app_name")
	require.NoError(t, err)
	assert.Equal(t, "xfire", v)

	require.NoError(t, h.Set("app_name", "mine"))
	v, err = h.Get("app_name")
	require.NoError(t, err)
	assert.Equal(t, "mine", v)

	h.Override("app_name", 42)
	v, err = h.Get("app_name")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	raw, err := h.Raw("app_name")
	require.NoError(t, err)
	assert.Equal(t, "42", raw)

	h.ClearOverride("app_name")
	v, err = h.Get("app_name")
	require.NoError(t, err)
	assert.Equal(t, "mine", v)
}

func TestHandle_GetUnknownKey(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))
	_, err := h.Get("missing")
	assert.ErrorIs(t, err, xcfgerr.ErrAttributeNotFound)
}

func TestHandle_TypedGetters(t *testing.T) {
	core, _ := newHandle(t, "core", WithAutoLoad(true))

	b, err := core.GetBool("check_for_updates")
	require.NoError(t, err)
	assert.True(t, b)

	f, err := core.GetFloat("watch_interval")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, 1e-9)

	dev, _ := newHandle(t, "developer_mode", WithAutoLoad(true))
	n, err := dev.GetInt("debug_level")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	list, err := dev.GetList("extra_args")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, dev.Set("extra_args", []any{"-v", "--trace"}))
	list, err = dev.GetList("extra_args")
	require.NoError(t, err)
	assert.Equal(t, []string{"-v", "--trace"}, list)

	_, err = Value[int](dev, "debug_level")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestHandle_ValueConvertsOverride(t *testing.T) {
	h, _ := newHandle(t, "developer_mode", WithAutoLoad(true))
	h.Override("enabled", "yes")
	got, err := h.GetBool("enabled")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestHandle_FallbackDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"文件不存在", "", "file not found, returning default"},
		{"缺少活动分区", "[DEFAULT]\napp_name = xfire\n", "user config not found"},
		{"缺少键", "[USER]\n", "falling back to default for key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newHandle(t, "core")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(h.FilePath(), []byte(tt.content), 0o600))
			}

			v, err := h.Get("app_name")
			require.NoError(t, err)
			assert.Equal(t, "xfire", v)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestHandle_SetValidation(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))

	err := h.Set("no_such_key", "x")
	require.ErrorIs(t, err, xcfgerr.ErrAttributeNotFound)

	err = h.Set("check_for_updates", "maybe")
	require.ErrorIs(t, err, ErrInvalidValue)

	err = h.SetMany(map[string]any{"app_name": "ok", "watch_interval": "fast"})
	require.ErrorIs(t, err, ErrInvalidValue)
	v, err := h.Get("app_name")
	require.NoError(t, err)
	assert.Equal(t, "xfire", v, "失败的批量写入不应部分生效")
}

func TestHandle_SetWriteThrough(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))

	require.NoError(t, h.SetMany(map[string]any{
		"check_for_updates": false,
		"watch_interval":    2.5,
	}))
	assert.False(t, h.Dirty())

	data, err := os.ReadFile(h.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "check_for_updates = false")
	assert.Contains(t, string(data), "watch_interval = 2.5")
}

func TestHandle_SetValuesSurviveReopen(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"行尾反斜杠", `D:\cache\`},
		{"成对双引号", `"my app"`},
		{"三个双引号", `"""`},
		{"首尾空白", "  my app  "},
		{"注释符号", "a # b ; c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			h, err := NewHandle("core", WithDir(dir), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
			require.NoError(t, err)
			require.NoError(t, h.Set("app_name", tt.value))
			require.NoError(t, h.Set("editor", "vim"))

			reopened, err := NewHandle("core", WithDir(dir), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
			require.NoError(t, err)
			got, err := reopened.Raw("app_name")
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
			editor, err := reopened.Raw("editor")
			require.NoError(t, err)
			assert.Equal(t, "vim", editor)
		})
	}
}

func TestHandle_SetRejectsUnstableValue(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))
	before, err := os.ReadFile(h.FilePath())
	require.NoError(t, err)

	err = h.Set("app_name", "x\"\"\"\ny")
	require.ErrorIs(t, err, ErrInvalidValue)

	after, err := os.ReadFile(h.FilePath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	v, err := h.Raw("app_name")
	require.NoError(t, err)
	assert.Equal(t, "xfire", v)

	_, err = NewHandle("core", WithDir(h.Dir()), WithAutoLoad(true), WithLogger(testLogger(t, io.Discard)))
	require.NoError(t, err)
}

func TestHandle_WithoutAutoSave(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true), WithoutAutoSave())
	assert.False(t, h.AutoSave())
	before, err := os.ReadFile(h.FilePath())
	require.NoError(t, err)

	require.NoError(t, h.Set("app_name", "pending"))
	assert.True(t, h.Dirty())
	after, err := os.ReadFile(h.FilePath())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NoError(t, h.Save(true))
	assert.False(t, h.Dirty())
	after, err = os.ReadFile(h.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(after), "app_name = pending")
}

func TestHandle_SyncWithSpec(t *testing.T) {
	dir := t.TempDir()
	content := "[DEFAULT]\napp_name = xfire\nobsolete = 1\n\n[USER]\napp_name = kept\nobsolete = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.ini"), []byte(content), 0o600))

	h, buf := newHandle(t, "core", WithDir(dir), WithAutoLoad(true))
	assert.Contains(t, buf.String(), "specification and file out of sync")

	doc := h.Document()
	assert.Equal(t, h.Spec().Keys(), doc.DefaultKeys())
	assert.Equal(t, map[string]string{"app_name": "kept"}, doc.Section("USER"))

	backup, err := h.LatestBackup()
	require.NoError(t, err)
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestHandle_ResetToDefaults(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))
	require.NoError(t, h.Set("app_name", "changed"))

	require.NoError(t, h.ResetToDefaults(true))
	assert.True(t, h.Dirty())
	v, err := h.Get("app_name")
	require.NoError(t, err)
	assert.Equal(t, "xfire", v)

	require.NoError(t, h.ResetToDefaults(false))
	assert.False(t, h.Dirty())
}

func TestHandle_CreateFileExisting(t *testing.T) {
	h, buf := newHandle(t, "core", WithAutoLoad(true))
	require.NoError(t, h.CreateFile())
	assert.Contains(t, buf.String(), "already exists")
}

func TestHandle_LoadMissing(t *testing.T) {
	h, _ := newHandle(t, "core")
	err := h.Load()
	assert.ErrorIs(t, err, xcfgerr.ErrFileNotFound)

	loaded, err := h.LoadIfExists()
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestHandle_DeleteFile(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))
	require.NoError(t, h.DeleteFile())
	assert.False(t, h.FileExists())
	assert.False(t, h.Loaded())

	assert.ErrorIs(t, h.DeleteFile(), xcfgerr.ErrFileNotFound)
}

func TestHandle_SetFilePath(t *testing.T) {
	h, _ := newHandle(t, "core")

	err := h.SetFilePath(filepath.Join(t.TempDir(), "config.txt"))
	assert.ErrorIs(t, err, xcfgerr.ErrInvalidPath)

	target := filepath.Join(t.TempDir(), "custom.ini")
	require.NoError(t, h.SetFilePath(target))
	assert.Equal(t, target, h.FilePath())
	assert.Equal(t, filepath.Dir(target), h.Dir())
}

func TestHandle_SetSystem(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))
	dir := h.Dir()

	require.NoError(t, h.SetSystem("LOGGER"))
	assert.Equal(t, xspec.SystemLogger, h.System())
	assert.Equal(t, filepath.Join(dir, "logger_config.ini"), h.FilePath())
	assert.False(t, h.Loaded())

	assert.ErrorIs(t, h.SetSystem("bogus"), xcfgerr.ErrInvalidConfigSystem)
}

func TestHandle_FileModifiedReload(t *testing.T) {
	t.Run("开启自动重载", func(t *testing.T) {
		h, _ := newHandle(t, "core", WithAutoLoad(true))
		rewriteUser(t, h, "app_name = external")

		require.NoError(t, h.SetFileModified(true))
		assert.False(t, h.FileModified())
		v, err := h.Get("app_name")
		require.NoError(t, err)
		assert.Equal(t, "external", v)
	})

	t.Run("关闭自动重载后再开启", func(t *testing.T) {
		h, _ := newHandle(t, "core", WithAutoLoad(true), WithoutReloadOnChange())
		rewriteUser(t, h, "app_name = later")

		require.NoError(t, h.SetFileModified(true))
		assert.True(t, h.FileModified())
		v, err := h.Get("app_name")
		require.NoError(t, err)
		assert.Equal(t, "xfire", v)

		require.NoError(t, h.SetReloadOnChange(true))
		assert.False(t, h.FileModified())
		v, err = h.Get("app_name")
		require.NoError(t, err)
		assert.Equal(t, "later", v)
	})
}

func TestHandle_Snapshot(t *testing.T) {
	h, _ := newHandle(t, "core", WithAutoLoad(true))
	require.NoError(t, h.Set("app_name", "snap"))
	h.Override("editor", "vim")

	snap := h.Snapshot()
	assert.Equal(t, "snap", snap["app_name"])
	assert.Equal(t, "vim", snap["editor"])
	assert.Equal(t, "true", snap["check_for_updates"])
	assert.Len(t, snap, h.Spec().Len())
}

// rewriteUser 在文件的活动分区追加一行，并把 mtime 推后。
func rewriteUser(t *testing.T, h *Handle, line string) {
	t.Helper()
	doc := h.Document()
	data, err := doc.Bytes()
	require.NoError(t, err)
	data = append(data, []byte("\n")...)
	data = append(data, []byte(line+"\n")...)
	require.NoError(t, os.WriteFile(h.FilePath(), data, 0o600))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(h.FilePath(), later, later))
}
