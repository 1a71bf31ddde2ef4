package xcfgerr

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Kind 错误类别。
type Kind string

// 错误类别常量。
const (
	KindInvalidConfigSystem          Kind = "InvalidConfigSystem"
	KindConfigDirectoryMissing       Kind = "ConfigDirectoryMissing"
	KindConfigBackupDirectoryMissing Kind = "ConfigBackupDirectoryMissing"
	KindFileAlreadyExists            Kind = "FileAlreadyExists"
	KindFileNotFound                 Kind = "FileNotFound"
	KindAttributeNotFound            Kind = "AttributeNotFound"
	KindSpecLoad                     Kind = "SpecLoad"
	KindInvalidPath                  Kind = "InvalidPath"
)

// 哨兵错误，与 Kind 一一对应，用于 errors.Is 判断。
var (
	ErrInvalidConfigSystem          = errors.New("xcfgerr: invalid config system")
	ErrConfigDirectoryMissing       = errors.New("xcfgerr: config directory does not exist")
	ErrConfigBackupDirectoryMissing = errors.New("xcfgerr: config backup directory does not exist")
	ErrFileAlreadyExists            = errors.New("xcfgerr: file already exists")
	ErrFileNotFound                 = errors.New("xcfgerr: file not found")
	ErrAttributeNotFound            = errors.New("xcfgerr: attribute not found")
	ErrSpecLoad                     = errors.New("xcfgerr: failed to load specification")
	ErrInvalidPath                  = errors.New("xcfgerr: invalid path")
)

var sentinels = map[Kind]error{
	KindInvalidConfigSystem:          ErrInvalidConfigSystem,
	KindConfigDirectoryMissing:       ErrConfigDirectoryMissing,
	KindConfigBackupDirectoryMissing: ErrConfigBackupDirectoryMissing,
	KindFileAlreadyExists:            ErrFileAlreadyExists,
	KindFileNotFound:                 ErrFileNotFound,
	KindAttributeNotFound:            ErrAttributeNotFound,
	KindSpecLoad:                     ErrSpecLoad,
	KindInvalidPath:                  ErrInvalidPath,
}

// Sentinel 返回 Kind 对应的哨兵错误，未知 Kind 返回 nil。
func Sentinel(k Kind) error {
	return sentinels[k]
}

// Error 结构化配置错误。
type Error struct {
	// Kind 错误类别
	Kind Kind

	// Msg 面向人的说明（可包含多行附加信息）
	Msg string

	// File 产生错误的源文件（调用 New/Wrap 的位置）
	File string

	// Line 产生错误的行号
	Line int

	// Err 底层错误，可为 nil
	Err error
}

// New 创建结构化错误并记录调用位置。
func New(kind Kind, format string, args ...any) *Error {
	return newError(kind, nil, fmt.Sprintf(format, args...))
}

// Wrap 包装底层错误。err 为 nil 时等价于 New。
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return newError(kind, err, fmt.Sprintf(format, args...))
}

func newError(kind Kind, err error, msg string) *Error {
	e := &Error{Kind: kind, Msg: msg, Err: err}
	// skip=2: newError(0) -> New/Wrap/InvalidSystem(1) -> 调用方(2)
	if _, file, line, ok := runtime.Caller(2); ok {
		e.File = file
		e.Line = line
	}
	return e
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap 返回底层错误。
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, ErrXxx) 按 Kind 匹配。
func (e *Error) Is(target error) bool {
	s := sentinels[e.Kind]
	return s != nil && s == target
}

// Provenance 返回 "file:line" 形式的产生位置，未记录时返回空字符串。
func (e *Error) Provenance() string {
	if e.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(e.File), e.Line)
}

// KindOf 返回错误链中第一个结构化错误的 Kind，不存在时返回空字符串。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// InvalidSystem 构造 InvalidConfigSystem 错误，附带合法取值列表。
func InvalidSystem(name string, valid []string) *Error {
	return newError(KindInvalidConfigSystem, nil,
		fmt.Sprintf("invalid configuration system %q (valid systems: %s)", name, strings.Join(valid, ", ")))
}
