package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func hasNullByte(p string) bool {
	return strings.IndexByte(p, 0) >= 0
}

// looksWindowsAbs 识别 "C:..."、"\foo"、"\\server\share" 这类 Windows 绝对形式，
// 非 Windows 平台上 filepath.IsAbs 不会把它们当作绝对路径。
func looksWindowsAbs(p string) bool {
	if len(p) >= 2 && p[1] == ':' {
		c := p[0] | 0x20
		if c >= 'a' && c <= 'z' {
			return true
		}
	}
	return strings.HasPrefix(p, `\`)
}

// hasDotDot 判断路径是否含有独立的 ".." 段，'/' 与 '\' 都视为分隔符。
func hasDotDot(p string) bool {
	for seg := range strings.FieldsFuncSeq(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// SanitizePath 校验并规范化文件路径。
//
// 拒绝空路径、含空字节的路径、以分隔符结尾的目录路径，以及规范化后仍含 ".."
// 段的相对路径。绝对路径中的 ".." 由 filepath.Clean 正常消解。
// 只做格式校验，需要把路径限制在某个目录内时使用 [SafeJoin]。
func SanitizePath(filename string) (string, error) {
	switch {
	case filename == "":
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	case hasNullByte(filename):
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	case strings.HasSuffix(filename, "/"), strings.HasSuffix(filename, `\`):
		return "", fmt.Errorf("path %q is a directory: %w", filename, ErrInvalidPath)
	}

	cleaned := filepath.Clean(filename)
	if hasDotDot(cleaned) {
		return "", fmt.Errorf("path %q: %w", filename, ErrPathTraversal)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("path %q has no file name: %w", filename, ErrInvalidPath)
	}
	return cleaned, nil
}

// SafeJoin 将相对路径 name 拼接到绝对目录 base 下。
//
// name 必须是相对路径且不含 ".." 段，结果保证位于 base 之内。
// 不解析符号链接，只校验路径字符串。
func SafeJoin(base, name string) (string, error) {
	switch {
	case base == "":
		return "", fmt.Errorf("base directory is required: %w", ErrEmptyPath)
	case name == "":
		return "", fmt.Errorf("name is required: %w", ErrEmptyPath)
	case hasNullByte(base), hasNullByte(name):
		return "", fmt.Errorf("join %q: %w", name, ErrNullByte)
	}

	cleanBase := filepath.Clean(base)
	if !filepath.IsAbs(cleanBase) {
		return "", fmt.Errorf("base %q must be absolute: %w", base, ErrInvalidPath)
	}
	if filepath.IsAbs(name) || looksWindowsAbs(name) {
		return "", fmt.Errorf("name %q must be relative: %w", name, ErrInvalidPath)
	}

	cleanName := filepath.Clean(name)
	if hasDotDot(cleanName) {
		return "", fmt.Errorf("name %q: %w", name, ErrPathTraversal)
	}

	joined := filepath.Join(cleanBase, cleanName)
	rel, err := filepath.Rel(cleanBase, joined)
	if err != nil || hasDotDot(rel) || rel == "." {
		return "", fmt.Errorf("name %q: %w", name, ErrPathEscaped)
	}
	return joined, nil
}

// ExpandHome 展开开头的 "~" 或 "~/"，其他形式原样返回。
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("xfile: expand %q: %w", p, err)
	}
	return filepath.Join(home, p[1:]), nil
}

// HasExt 判断路径扩展名是否为 ext（大小写不敏感，ext 含点）。
func HasExt(p, ext string) bool {
	return strings.EqualFold(filepath.Ext(p), ext)
}

// Stem 返回去掉目录与扩展名的文件名。
func Stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
