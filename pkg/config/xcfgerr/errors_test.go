package xcfgerr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesSentinel(t *testing.T) {
	tests := []struct {
		kind Kind
		want error
	}{
		{KindInvalidConfigSystem, ErrInvalidConfigSystem},
		{KindConfigDirectoryMissing, ErrConfigDirectoryMissing},
		{KindConfigBackupDirectoryMissing, ErrConfigBackupDirectoryMissing},
		{KindFileAlreadyExists, ErrFileAlreadyExists},
		{KindFileNotFound, ErrFileNotFound},
		{KindAttributeNotFound, ErrAttributeNotFound},
		{KindSpecLoad, ErrSpecLoad},
		{KindInvalidPath, ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("outer: %w", New(tt.kind, "boom"))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want, Sentinel(tt.kind))
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestError_DoesNotMatchOtherKinds(t *testing.T) {
	err := New(KindFileNotFound, "missing")
	assert.NotErrorIs(t, err, ErrFileAlreadyExists)
}

func TestWrap_KeepsCause(t *testing.T) {
	err := Wrap(KindSpecLoad, fs.ErrNotExist, "read spec %s", "core.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, ErrSpecLoad)
	assert.Equal(t, "SpecLoad: read spec core.json: file does not exist", err.Error())
}

func TestNew_RecordsProvenance(t *testing.T) {
	err := New(KindInvalidPath, "bad")
	require.NotEmpty(t, err.File)
	assert.True(t, strings.HasSuffix(err.File, "errors_test.go"), "got %s", err.File)
	assert.Positive(t, err.Line)
	assert.True(t, strings.HasPrefix(err.Provenance(), "errors_test.go:"))
}

func TestInvalidSystem(t *testing.T) {
	err := InvalidSystem("nope", []string{"core", "logger"})
	assert.ErrorIs(t, err, ErrInvalidConfigSystem)
	assert.Contains(t, err.Error(), `"nope"`)
	assert.Contains(t, err.Error(), "core, logger")
	assert.True(t, strings.HasSuffix(err.File, "errors_test.go"))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "", (&Error{Kind: KindFileNotFound}).Provenance())
}
