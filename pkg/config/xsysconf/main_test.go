package xsysconf

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xfire/pkg/observability/xlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func testLogger(t *testing.T, w io.Writer) xlog.Logger {
	t.Helper()
	l, cleanup, err := xlog.New().SetOutput(w).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return l
}

// newHandle 在临时目录中创建句柄，返回句柄与日志缓冲。
func newHandle(t *testing.T, name string, opts ...Option) (*Handle, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	all := append([]Option{
		WithDir(t.TempDir()),
		WithClock(fixedClock),
		WithLogger(testLogger(t, &buf)),
	}, opts...)
	h, err := NewHandle(name, all...)
	require.NoError(t, err)
	return h, &buf
}
