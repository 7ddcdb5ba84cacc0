// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 见 [DefaultPaths]，或通过 WithConfigPaths 选项设置
//  3. 环境变量 - 前缀 VTPL_，可通过 WithEnvPrefix 选项修改
//  4. CLI flags - 通过 Load 的 cmd 参数读取显式设置的 flag
package config

import (
	"time"

	"github.com/lwmacct/261019-go-pkg-vtpl/pkg/vtpl"
)

// AppName 应用名称，用于生成默认配置文件路径。
const AppName = "vtpl"

// Config 应用配置。
type Config struct {
	Search SearchConfig `json:"search" desc:"模板搜索配置"`
	Render RenderConfig `json:"render" desc:"渲染配置"`
	Log    LogConfig    `json:"log" desc:"日志配置"`
}

// SearchConfig 模板搜索配置。
//
//nolint:tagliatelle
type SearchConfig struct {
	Paths     []string `json:"paths" desc:"默认模板搜索目录"`
	Env       string   `json:"env" desc:"提供搜索目录的环境变量 (冒号分隔)"`
	Ext       string   `json:"ext" desc:"模板文件扩展名"`
	MaxDepth  int      `json:"max-depth" desc:"include 最大嵌套深度"`
	NoInstall bool     `json:"no-install-dir" desc:"不搜索程序安装目录"`
}

// RenderConfig 渲染配置。
type RenderConfig struct {
	Output   string        `json:"output" desc:"输出文件，留空输出到 stdout"`
	Strict   bool          `json:"strict" desc:"存在诊断信息时返回错误"`
	Watch    bool          `json:"watch" desc:"监听模板变化并重新渲染"`
	Debounce time.Duration `json:"debounce" desc:"监听模式的防抖间隔"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level string `json:"level" desc:"日志级别 (debug|info|warn|error)"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			Paths:    []string{`${HOME}/.vtpl/templates`},
			Env:      "VTPATH",
			Ext:      vtpl.DefaultExt,
			MaxDepth: vtpl.DefaultMaxDepth,
		},
		Render: RenderConfig{
			Debounce: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
