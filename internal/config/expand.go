package config

import (
	"os"
	"strings"
)

// ExpandEnv 展开字符串中的环境变量引用。
//
// 支持语法：
//   - ${VAR} - 变量替换，未设置时为空字符串
//   - ${VAR:-default} - 未设置或为空时使用 default，default 可以嵌套 ${...}
//   - $$ - 字面量 "$"
//
// 不解析 $VAR，无法识别的表达式保持原样。
func ExpandEnv(text string) string {
	if !strings.Contains(text, "$") {
		return text
	}

	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '$' || i+1 >= len(text) {
			buf.WriteByte(ch)
			i++
			continue
		}

		switch text[i+1] {
		case '$':
			buf.WriteByte('$')
			i += 2
			continue
		case '{':
		default:
			buf.WriteByte(ch)
			i++
			continue
		}

		end := matchingBrace(text, i+2)
		if end == -1 {
			buf.WriteByte(ch)
			i++
			continue
		}
		buf.WriteString(expandExpr(text[i+2:end], text[i:end+1]))
		i = end + 1
	}

	return buf.String()
}

func expandExpr(expr, raw string) string {
	name, fallback, hasFallback := strings.Cut(expr, ":-")
	if !isEnvName(name) {
		return raw
	}

	val := os.Getenv(name)
	if val == "" && hasFallback {
		return ExpandEnv(fallback)
	}

	return val
}

func isEnvName(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch != '_' && (ch < 'A' || ch > 'Z') && (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') {
			return false
		}
	}

	return true
}

// matchingBrace 返回与 start 之前的 "${" 配对的 "}" 位置，未找到返回 -1。
func matchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		if text[i] == '$' && i+1 < len(text) && text[i+1] == '{' {
			depth++
			i++
			continue
		}
		if text[i] == '}' {
			if depth == 0 {
				return i
			}
			depth--
		}
	}

	return -1
}
