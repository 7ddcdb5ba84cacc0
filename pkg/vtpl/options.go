package vtpl

import "log/slog"

// DefaultMaxDepth 是 include 嵌套深度的默认上限。
const DefaultMaxDepth = 64

// options 展开与解析选项。
type options struct {
	logger   *slog.Logger
	maxDepth int
	strict   bool // 存在诊断信息时 Render 返回 error
}

// Option 展开与解析选项函数。
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.maxDepth <= 0 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}

// WithLogger 设置诊断日志输出，默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth 设置 include 嵌套深度上限，非正数使用 [DefaultMaxDepth]。
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithStrict 启用严格模式：[Render] 在存在任意诊断时返回 error。
//
// 结果仍然完整返回，调用方可以自行决定是否使用。
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}
