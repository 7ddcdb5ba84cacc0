package vtpl

import (
	"errors"
	"fmt"
)

// 诊断信息对应的哨兵错误，可通过 errors.Is 判断。
var (
	ErrNotFound      = errors.New("vtpl: file not found")
	ErrMalformed     = errors.New("vtpl: malformed directive")
	ErrArgumentRange = errors.New("vtpl: positional argument out of range")
	ErrIncludeCycle  = errors.New("vtpl: include cycle")
	ErrDepthExceeded = errors.New("vtpl: include depth exceeded")
)

// Kind 诊断类别。
type Kind string

const (
	KindMissingInclude     Kind = "missing_include"
	KindMalformedDirective Kind = "malformed_directive"
	KindArgumentRange      Kind = "argument_range"
	KindIncludeCycle       Kind = "include_cycle"
	KindDepthExceeded      Kind = "depth_exceeded"
	KindReadFailed         Kind = "read_failed"
)

// Diagnostic 是一条可恢复的问题记录，处理过程不会因此中断。
type Diagnostic struct {
	Kind Kind
	File string // 出问题的行所在文件，根输入为空
	Line int    // 1-based 行号
	Name string // 相关的 include 名或占位符
	Err  error
}

func (d Diagnostic) Error() string {
	loc := d.File
	if loc == "" {
		loc = "<root>"
	}
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line)
	}
	if d.Err == nil {
		return fmt.Sprintf("%s: %s", loc, d.Kind)
	}

	return fmt.Sprintf("%s: %v", loc, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Result 是展开或解析的输出。
type Result struct {
	Lines       []string
	Diagnostics []Diagnostic
	// Sources 按首次解析顺序记录参与展开的 include 文件路径。
	Sources []string
}

// Err 合并全部诊断信息，没有诊断时返回 nil。
func (r *Result) Err() error {
	if r == nil || len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}

	return errors.Join(errs...)
}

// Has 判断是否存在指定类别的诊断。
func (r *Result) Has(kind Kind) bool {
	if r == nil {
		return false
	}
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}

	return false
}
