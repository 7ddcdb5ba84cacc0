package vtpl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// resolver 持有一次解析的全部登记表。
type resolver struct {
	opts *options

	out  []string
	tags map[string]int   // TAG -> 结果中唯一保留行的位置
	refs map[string][]int // 参数名 -> 引用它的结果行位置

	values map[string]string // 参数名 -> 最近一次定义的值
	defs   map[string]string // 参数名 -> 最近一次定义的原始行
	order  []string          // 参数首次定义的顺序

	diags []Diagnostic
}

// Resolve 对扁平行序列做 TAG 去重与参数替换。
//
// 第一遍分类：
//   - "TAG = value"：按 TAG 去重，后出现的内容写回首次出现的位置
//   - "%NAME = value"：记录参数定义，不直接输出
//   - 其他：原样输出
//
// 第二遍替换：被引用的参数替换进引用行；未被引用的参数把原始定义行追加到末尾。
// 未定义的 %{NAME} 原样保留。
func Resolve(lines []string, opts ...Option) *Result {
	r := &resolver{
		opts:   newOptions(opts),
		tags:   make(map[string]int),
		refs:   make(map[string][]int),
		values: make(map[string]string),
		defs:   make(map[string]string),
	}
	for i, line := range lines {
		r.classify(line, i+1)
	}
	r.substitute()

	return &Result{Lines: r.out, Diagnostics: r.diags}
}

func (r *resolver) classify(line string, lineNo int) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isPrivateComment(trimmed) {
		return
	}

	content := stripComment(trimmed)
	before, after, found := strings.Cut(content, assignSep)
	switch {
	case found && content[0] != paramSigil:
		tag := strings.TrimSpace(before)
		if pos, ok := r.tags[tag]; ok {
			r.out[pos] = line
			r.cite(trimmed, pos)
			return
		}
		r.out = append(r.out, line)
		r.tags[tag] = len(r.out) - 1
		r.cite(trimmed, len(r.out)-1)

	case found:
		name := strings.TrimSpace(before[1:])
		if name == "" {
			r.diags = append(r.diags, Diagnostic{
				Kind: KindMalformedDirective,
				Line: lineNo,
				Err:  fmt.Errorf("%w: empty parameter name in %q", ErrMalformed, trimmed),
			})
			r.opts.logger.Warn("Template diagnostic", "kind", string(KindMalformedDirective), "line", lineNo)
			r.append(line, trimmed)
			return
		}
		if _, ok := r.values[name]; !ok {
			r.order = append(r.order, name)
		}
		r.values[name] = strings.TrimSpace(after)
		r.defs[name] = line

	default:
		r.append(line, trimmed)
	}
}

func (r *resolver) append(line, trimmed string) {
	r.out = append(r.out, line)
	r.cite(trimmed, len(r.out)-1)
}

// cite 登记行内引用的参数名，同一行同一名称只登记一次。
func (r *resolver) cite(trimmed string, pos int) {
	for _, name := range placeholderNames(trimmed) {
		if !slices.Contains(r.refs[name], pos) {
			r.refs[name] = append(r.refs[name], pos)
		}
	}
}

// substitute 按参数定义顺序替换引用，未被引用的参数追加原始定义行。
//
// 每个引用行只扫描一次，替换进来的值不会被再次展开。
func (r *resolver) substitute() {
	marked := make(map[int]bool)
	var fallback []string
	for _, name := range r.order {
		cited := r.refs[name]
		if len(cited) == 0 {
			fallback = append(fallback, r.defs[name])
			continue
		}
		for _, pos := range cited {
			marked[pos] = true
		}
	}

	lookup := func(name string) (string, bool) {
		val, ok := r.values[name]
		return val, ok
	}
	for _, pos := range slices.Sorted(maps.Keys(marked)) {
		r.out[pos] = replacePlaceholders(r.out[pos], lookup)
	}
	r.out = append(r.out, fallback...)

	r.opts.logger.Debug("Resolved template",
		"lines", len(r.out),
		"tags", len(r.tags),
		"params", len(r.order),
		"unreferenced", len(fallback),
	)
}
