package xsysconf

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
	"github.com/omeyang/xfire/pkg/config/xspec"
)

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	base := []Option{
		WithDir(t.TempDir()),
		WithLoader(xspec.NewLoader()),
		WithClock(fixedClock),
		WithLogger(testLogger(t, io.Discard)),
	}
	return NewRegistry(append(base, opts...)...)
}

func TestRegistry_GetReturnsSameHandle(t *testing.T) {
	r := newRegistry(t)

	a, err := r.Get("core")
	require.NoError(t, err)
	b, err := r.Get("CORE", WithAutoLoad(true))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.False(t, b.Loaded(), "已存在的句柄忽略调用选项")

	_, err = r.Get("unknown")
	assert.ErrorIs(t, err, xcfgerr.ErrInvalidConfigSystem)
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := newRegistry(t, WithAutoLoad(true))

	const n = 16
	handles := make([]*Handle, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			handles[i], errs[i] = r.Get("logger")
		})
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Same(t, handles[0], handles[i])
	}
}

func TestRegistry_LookupHandlesReset(t *testing.T) {
	r := newRegistry(t)

	_, ok := r.Lookup("core")
	assert.False(t, ok)
	_, ok = r.Lookup("bogus")
	assert.False(t, ok)

	_, err := r.Get("developer_mode")
	require.NoError(t, err)
	_, err = r.Get("core")
	require.NoError(t, err)

	h, ok := r.Lookup("core")
	require.True(t, ok)
	assert.Equal(t, xspec.SystemCore, h.System())

	got := r.Handles()
	require.Len(t, got, 2)
	assert.Equal(t, xspec.SystemCore, got[0].System())
	assert.Equal(t, xspec.SystemDeveloperMode, got[1].System())

	r.Reset()
	assert.Empty(t, r.Handles())
}

func TestDefaultRegistry(t *testing.T) {
	t.Cleanup(ResetDefault)

	a := Default()
	assert.Same(t, a, Default())
	ResetDefault()
	assert.NotSame(t, a, Default())
}

func TestRegistry_SetLogger(t *testing.T) {
	r := newRegistry(t)
	core, err := r.Get("core", WithAutoLoad(true))
	require.NoError(t, err)

	var buf bytes.Buffer
	r.SetLogger(testLogger(t, &buf))
	r.SetLogger(nil)

	require.NoError(t, core.Set("app_name", "relogged"))
	assert.Contains(t, buf.String(), "system=core")

	buf.Reset()
	dev, err := r.Get("developer_mode", WithAutoLoad(true))
	require.NoError(t, err)
	require.NoError(t, dev.Set("enabled", true))
	assert.Contains(t, buf.String(), "system=developer_mode")
}
