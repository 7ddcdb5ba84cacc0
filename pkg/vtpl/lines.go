package vtpl

import (
	"bufio"
	"io"
	"strings"
)

const (
	privateComment   = "##"
	directiveComment = "#!"
	commentMarker    = "#"
	includeKeyword   = "%INCLUDE"
	paramSigil       = '%'
	assignSep        = "="
)

// ═══════════════════════════════════════════════════════════════════════════
// 行读写
// ═══════════════════════════════════════════════════════════════════════════

// SplitLines 将文本拆分为保留换行符的行序列。
//
// "\r\n" 统一为 "\n"；最后一行缺少换行时补上。
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}

	return lines
}

// WriteLines 逐行写出，缺少换行符的行自动补齐。
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if !strings.HasSuffix(line, "\n") {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ═══════════════════════════════════════════════════════════════════════════
// 行分类
// ═══════════════════════════════════════════════════════════════════════════

func isPrivateComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, privateComment)
}

func isDirectiveComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, directiveComment)
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, commentMarker)
}

// stripComment 去掉第一个 "#" 及其后的内容，仅用于分类，输出仍使用原始行。
func stripComment(s string) string {
	if i := strings.Index(s, commentMarker); i >= 0 {
		return s[:i]
	}

	return s
}

// ═══════════════════════════════════════════════════════════════════════════
// 占位符扫描
// ═══════════════════════════════════════════════════════════════════════════

// nextPlaceholder 从 start 开始查找下一个 %{NAME}。
//
// 返回占位符起止位置 [begin, end) 与名称；未找到时 begin 为 -1。
// NAME 非空，且不包含 "}"、"%"、"{"。
func nextPlaceholder(line string, start int) (int, int, string) {
	for i := start; i+1 < len(line); i++ {
		if line[i] != paramSigil || line[i+1] != '{' {
			continue
		}
		end := strings.IndexByte(line[i+2:], '}')
		if end <= 0 {
			continue
		}
		name := line[i+2 : i+2+end]
		if strings.ContainsAny(name, "%{") {
			continue
		}

		return i, i + 3 + end, name
	}

	return -1, -1, ""
}

// placeholderNames 返回行内出现的占位符名称，按首次出现排序且去重。
func placeholderNames(line string) []string {
	var names []string
	seen := make(map[string]bool)
	for pos := 0; ; {
		begin, end, name := nextPlaceholder(line, pos)
		if begin < 0 {
			return names
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		pos = end
	}
}

// replacePlaceholders 单遍扫描替换占位符。
//
// lookup 未命中的占位符原样保留；替换进来的值不会被再次扫描。
func replacePlaceholders(line string, lookup func(name string) (string, bool)) string {
	begin, end, name := nextPlaceholder(line, 0)
	if begin < 0 {
		return line
	}

	var buf strings.Builder
	buf.Grow(len(line))
	pos := 0
	for begin >= 0 {
		buf.WriteString(line[pos:begin])
		if val, ok := lookup(name); ok {
			buf.WriteString(val)
		} else {
			buf.WriteString(line[begin:end])
		}
		pos = end
		begin, end, name = nextPlaceholder(line, pos)
	}
	buf.WriteString(line[pos:])

	return buf.String()
}

// isPositional 判断占位符名称是否为位置参数（纯数字）。
func isPositional(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}

	return true
}

func hasPositional(line string) bool {
	for _, name := range placeholderNames(line) {
		if isPositional(name) {
			return true
		}
	}

	return false
}
