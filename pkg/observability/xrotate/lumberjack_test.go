package xrotate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xfire/pkg/util/xfile"
)

func TestNewLumberjack_Validation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")

	tests := []struct {
		name string
		file string
		opts []Option
		want error
	}{
		{"空文件名", "", nil, ErrEmptyFilename},
		{"大小为 0", file, []Option{WithMaxSize(0)}, ErrInvalidConfig},
		{"大小超限", file, []Option{WithMaxSize(20000)}, ErrInvalidConfig},
		{"备份数为负", file, []Option{WithMaxBackups(-1)}, ErrInvalidConfig},
		{"天数超限", file, []Option{WithMaxAge(4000)}, ErrInvalidConfig},
		{"无清理策略", file, []Option{WithMaxBackups(0), WithMaxAge(0)}, ErrNoCleanupPolicy},
		{"目录路径", dir + "/", nil, xfile.ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLumberjack(tt.file, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLumberjack_WriteRotateClose(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nested", "xfire.log")

	r, err := NewLumberjack(file, WithMaxSize(1), WithCompress(false), WithLocalTime(true))
	require.NoError(t, err)

	n, err := r.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	require.NoError(t, r.Rotate())
	_, err = r.Write([]byte("after\n"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(got))

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrClosed)
	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
}

func TestConfig_Validate(t *testing.T) {
	ok := Config{MaxSizeMB: 10, MaxBackups: 0, MaxAgeDays: 7}
	assert.NoError(t, ok.Validate())
}
