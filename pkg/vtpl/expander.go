package vtpl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Expander 递归展开 %INCLUDE 并替换位置参数。
//
// Expander 只保存不可变配置，可以复用；每次 [Expander.Expand] 的状态互相独立。
type Expander struct {
	finder Finder
	opts   *options
}

// NewExpander 创建展开器，finder 为 nil 时所有 %INCLUDE 都按找不到处理。
func NewExpander(finder Finder, opts ...Option) *Expander {
	return &Expander{
		finder: finder,
		opts:   newOptions(opts),
	}
}

// expansion 是一次展开的状态。
type expansion struct {
	*Expander

	res      Result
	stack    []string        // 当前 include 链上的文件
	visiting map[string]bool // stack 的集合形式
	sourced  map[string]bool
}

// Expand 展开根文件的行序列。
//
// args 是根文件可见的位置参数，%{1} 对应 args[0]。
// 结果行的顺序等于 include 树的深度优先前序遍历。
func (e *Expander) Expand(lines []string, args ...string) *Result {
	x := &expansion{
		Expander: e,
		visiting: make(map[string]bool),
		sourced:  make(map[string]bool),
	}
	x.push(lines, args, "", 0)

	return &x.res
}

// push 按优先级逐行处理，file 为当前文件路径（根输入为空），depth 为嵌套层数。
func (x *expansion) push(lines []string, args []string, file string, depth int) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case isPrivateComment(trimmed), isDirectiveComment(trimmed):
			continue
		case isComment(trimmed):
			x.res.Lines = append(x.res.Lines, line)
		case hasPositional(line):
			x.res.Lines = append(x.res.Lines, x.substitute(line, args, file, i+1))
		case isInclude(trimmed):
			x.include(trimmed, file, i+1, depth)
		default:
			x.res.Lines = append(x.res.Lines, line)
		}
	}
}

// substitute 替换行内的位置参数，越界的参数替换为空字符串并记录诊断。
func (x *expansion) substitute(line string, args []string, file string, lineNo int) string {
	reported := make(map[string]bool)

	return replacePlaceholders(line, func(name string) (string, bool) {
		if !isPositional(name) {
			return "", false
		}
		idx, err := strconv.Atoi(name)
		if err == nil && idx >= 1 && idx <= len(args) {
			return args[idx-1], true
		}
		if !reported[name] {
			reported[name] = true
			x.report(Diagnostic{
				Kind: KindArgumentRange,
				File: file,
				Line: lineNo,
				Name: name,
				Err:  fmt.Errorf("%w: %%{%s} with %d argument(s)", ErrArgumentRange, name, len(args)),
			})
		}

		return "", true
	})
}

// include 处理一条 %INCLUDE 指令，任何失败都只记录诊断，指令本身不产生输出。
func (x *expansion) include(trimmed, file string, lineNo, depth int) {
	name, args, err := parseInclude(trimmed)
	if err != nil {
		x.report(Diagnostic{Kind: KindMalformedDirective, File: file, Line: lineNo, Err: err})
		return
	}

	if x.finder == nil {
		x.report(Diagnostic{
			Kind: KindMissingInclude, File: file, Line: lineNo, Name: name,
			Err: fmt.Errorf("%w: %s", ErrNotFound, name),
		})
		return
	}

	path, lines, err := x.finder.Find(name)
	if err != nil {
		kind := KindReadFailed
		if errors.Is(err, ErrNotFound) {
			kind = KindMissingInclude
		}
		x.report(Diagnostic{Kind: kind, File: file, Line: lineNo, Name: name, Err: err})
		return
	}

	if x.visiting[path] {
		chain := append(append([]string(nil), x.stack...), path)
		x.report(Diagnostic{
			Kind: KindIncludeCycle, File: file, Line: lineNo, Name: name,
			Err: fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(chain, " -> ")),
		})
		return
	}
	if depth+1 > x.opts.maxDepth {
		x.report(Diagnostic{
			Kind: KindDepthExceeded, File: file, Line: lineNo, Name: name,
			Err: fmt.Errorf("%w: max %d while including %s", ErrDepthExceeded, x.opts.maxDepth, name),
		})
		return
	}

	if !x.sourced[path] {
		x.sourced[path] = true
		x.res.Sources = append(x.res.Sources, path)
	}
	x.opts.logger.Debug("Including template", "name", name, "path", path, "args", args, "depth", depth+1)

	x.visiting[path] = true
	x.stack = append(x.stack, path)
	x.push(lines, args, path, depth+1)
	x.stack = x.stack[:len(x.stack)-1]
	x.visiting[path] = false
}

func (x *expansion) report(d Diagnostic) {
	x.res.Diagnostics = append(x.res.Diagnostics, d)
	x.opts.logger.Warn("Template diagnostic",
		"kind", string(d.Kind),
		"file", d.File,
		"line", d.Line,
		"name", d.Name,
		"error", d.Err,
	)
}

// ═══════════════════════════════════════════════════════════════════════════
// %INCLUDE 解析
// ═══════════════════════════════════════════════════════════════════════════

// isInclude 判断去除首尾空白后的行是否为 %INCLUDE 指令。
//
// 关键字后紧跟标识符字符时（如 %INCLUDES=1）不视为指令。
func isInclude(trimmed string) bool {
	if !strings.HasPrefix(trimmed, includeKeyword) {
		return false
	}
	rest := trimmed[len(includeKeyword):]

	return rest == "" || !isNameChar(rest[0])
}

func isNameChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '_'
}

// parseInclude 解析 "%INCLUDE = name(arg1,arg2) # comment"。
//
// 参数取第一个 "(" 与最后一个 ")" 之间的原始文本按 "," 拆分，不做 trim；"()" 表示无参数。
func parseInclude(trimmed string) (string, []string, error) {
	rest := strings.TrimLeft(trimmed[len(includeKeyword):], " \t")
	if !strings.HasPrefix(rest, assignSep) {
		return "", nil, fmt.Errorf("%w: missing %q in %q", ErrMalformed, assignSep, trimmed)
	}
	body := strings.TrimSpace(stripComment(rest[len(assignSep):]))

	name := body
	var args []string
	if open := strings.IndexByte(body, '('); open >= 0 {
		end := strings.LastIndexByte(body, ')')
		if end < open {
			return "", nil, fmt.Errorf("%w: unclosed argument list in %q", ErrMalformed, trimmed)
		}
		if inner := body[open+1 : end]; inner != "" {
			args = strings.Split(inner, ",")
		}
		name = strings.TrimSpace(body[:open])
	}
	if name == "" {
		return "", nil, fmt.Errorf("%w: missing include name in %q", ErrMalformed, trimmed)
	}

	return name, args, nil
}
