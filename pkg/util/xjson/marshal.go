package xjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMarshal 表示值无法编码为 JSON。
var ErrMarshal = errors.New("xjson: marshal failed")

// Compact 把 v 编码为单行 JSON。
func Compact(v any) (string, error) {
	return encode(v, "")
}

// Pretty 把 v 编码为两空格缩进的 JSON。
func Pretty(v any) (string, error) {
	return encode(v, "  ")
}

func encode(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
