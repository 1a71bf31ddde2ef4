package xwatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
)

func writeFile(t *testing.T, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestWaitForChange_MissingFile(t *testing.T) {
	_, err := WaitForChange(context.Background(), filepath.Join(t.TempDir(), "nope.ini"),
		WithTrigger(NeverTrigger()))
	assert.ErrorIs(t, err, xcfgerr.ErrFileNotFound)
}

func TestWaitForChange_Modified(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)
	edited := epoch.Add(time.Hour)

	opened := false
	res, err := WaitForChange(context.Background(), path,
		WithInterval(10*time.Millisecond),
		WithTrigger(NeverTrigger()),
		WithOpener(OpenerFunc(func(_ context.Context, p string) error {
			opened = true
			require.NoError(t, os.WriteFile(p, []byte("[USER]\nk = v\n"), 0o600))
			return os.Chtimes(p, edited, edited)
		})),
	)
	require.NoError(t, err)
	assert.True(t, opened)
	assert.True(t, res.Modified)
	assert.True(t, edited.Equal(res.At))
}

func TestWaitForChange_Cancelled(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)
	ch := make(chan struct{})
	close(ch)

	before := time.Now()
	res, err := WaitForChange(context.Background(), path,
		WithInterval(time.Hour),
		WithTrigger(ChannelTrigger(ch)),
	)
	require.NoError(t, err)
	assert.False(t, res.Modified)
	assert.False(t, res.At.Before(before))
}

func TestWaitForChange_ParentDeadline(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := WaitForChange(ctx, path,
		WithInterval(10*time.Millisecond),
		WithTrigger(NeverTrigger()),
	)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForChange_FileTemporarilyMissing(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)
	edited := epoch.Add(2 * time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = os.Remove(path)
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("[USER]\nk = 1\n"), 0o600)
		_ = os.Chtimes(path, edited, edited)
	}()

	res, err := WaitForChange(context.Background(), path,
		WithInterval(5*time.Millisecond),
		WithTrigger(NeverTrigger()),
	)
	<-done
	require.NoError(t, err)
	assert.True(t, res.Modified)
}

func TestWaitForChange_NotifyWakesEarly(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)
	edited := epoch.Add(time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(200 * time.Millisecond)
		_ = os.WriteFile(path, []byte("[USER]\nk = v\n"), 0o600)
		_ = os.Chtimes(path, edited, edited)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := WaitForChange(ctx, path,
		WithInterval(time.Hour),
		WithNotify(true),
		WithTrigger(NeverTrigger()),
	)
	<-done
	require.NoError(t, err)
	assert.True(t, res.Modified)
}

func TestWaitForChange_Fingerprint(t *testing.T) {
	rewrite := func(p string) error {
		if err := os.WriteFile(p, []byte("[USER]\nchanged = yes\n"), 0o600); err != nil {
			return err
		}
		return os.Chtimes(p, epoch, epoch)
	}

	t.Run("启用指纹识别同 mtime 改写", func(t *testing.T) {
		path := writeFile(t, "[USER]\n", epoch)
		res, err := WaitForChange(context.Background(), path,
			WithInterval(10*time.Millisecond),
			WithFingerprint(true),
			WithTrigger(NeverTrigger()),
			WithOpener(OpenerFunc(func(_ context.Context, p string) error { return rewrite(p) })),
		)
		require.NoError(t, err)
		assert.True(t, res.Modified)
	})

	t.Run("未启用时只看 mtime", func(t *testing.T) {
		path := writeFile(t, "[USER]\n", epoch)
		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()
		_, err := WaitForChange(ctx, path,
			WithInterval(10*time.Millisecond),
			WithTrigger(NeverTrigger()),
			WithOpener(OpenerFunc(func(_ context.Context, p string) error { return rewrite(p) })),
		)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestWaitForChange_OpenerError(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)
	boom := errors.New("no editor")
	_, err := WaitForChange(context.Background(), path,
		WithTrigger(NeverTrigger()),
		WithOpener(OpenerFunc(func(context.Context, string) error { return boom })),
	)
	assert.ErrorIs(t, err, boom)
}

func TestWaitForChange_InvalidOptions(t *testing.T) {
	path := writeFile(t, "[USER]\n", epoch)

	_, err := WaitForChange(context.Background(), path)
	assert.ErrorIs(t, err, ErrNilTrigger)

	_, err = WaitForChange(context.Background(), path, WithTrigger(NeverTrigger()), WithInterval(0))
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = WaitForChange(context.Background(), path, WithTrigger(NeverTrigger()), WithInterval(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
