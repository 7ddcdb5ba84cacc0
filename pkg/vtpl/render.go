package vtpl

// Render 依次执行展开与解析，返回最终行序列。
//
// 两个阶段的诊断与 include 来源合并到同一个 [Result]。
// 默认只在结果中携带诊断；启用 [WithStrict] 时存在诊断会同时返回 error。
func Render(root []string, finder Finder, args []string, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	flat := NewExpander(finder, opts...).Expand(root, args...)
	res := Resolve(flat.Lines, opts...)
	res.Diagnostics = append(flat.Diagnostics, res.Diagnostics...)
	res.Sources = flat.Sources

	o.logger.Debug("Rendered template",
		"flat", len(flat.Lines),
		"lines", len(res.Lines),
		"sources", len(res.Sources),
		"diagnostics", len(res.Diagnostics),
	)

	if o.strict {
		if err := res.Err(); err != nil {
			return res, err
		}
	}

	return res, nil
}
