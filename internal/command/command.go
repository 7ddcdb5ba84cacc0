// Package command 提供各子命令共享的 flags 与辅助函数。
package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/config"
	"github.com/lwmacct/261019-go-pkg-vtpl/pkg/vtpl"
)

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()

// SearchFlags 返回模板搜索与日志相关的 flags，每次调用返回新的实例。
func SearchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "search-paths",
			Aliases: []string{"I"},
			Value:   slices.Clone(Defaults.Search.Paths),
			Usage:   "默认模板搜索目录",
		},
		&cli.StringFlag{
			Name:  "search-env",
			Value: Defaults.Search.Env,
			Usage: "提供搜索目录的环境变量 (冒号分隔)",
		},
		&cli.StringFlag{
			Name:  "search-ext",
			Value: Defaults.Search.Ext,
			Usage: "模板文件扩展名",
		},
		&cli.IntFlag{
			Name:  "search-max-depth",
			Value: Defaults.Search.MaxDepth,
			Usage: "include 最大嵌套深度",
		},
		&cli.BoolFlag{
			Name:  "search-no-install-dir",
			Usage: "不搜索程序安装目录",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: Defaults.Log.Level,
			Usage: "日志级别 (debug|info|warn|error)",
		},
	}
}

// Setup 加载配置并安装日志，供各子命令的 action 调用。
func Setup(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}

	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return cfg, nil
}

// ParseLevel 解析日志级别名称。
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewFinder 根据搜索配置创建模板查找器。
func NewFinder(cfg *config.Config) *vtpl.SearchFinder {
	finder := &vtpl.SearchFinder{
		EnvVar: cfg.Search.Env,
		Paths:  cfg.Search.Paths,
		Ext:    cfg.Search.Ext,
	}
	if !cfg.Search.NoInstall {
		finder.InstallDir = vtpl.InstallDir()
	}

	return finder
}

// Options 根据配置生成引擎选项。
func Options(cfg *config.Config) []vtpl.Option {
	opts := []vtpl.Option{
		vtpl.WithLogger(slog.Default()),
		vtpl.WithMaxDepth(cfg.Search.MaxDepth),
	}
	if cfg.Render.Strict {
		opts = append(opts, vtpl.WithStrict())
	}

	return opts
}

// ReadRoot 读取根模板文件，最后一行保证以换行结尾。
func ReadRoot(path string) ([]string, error) {
	content, err := os.ReadFile(path) //nolint:gosec // root template is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("read root template: %w", err)
	}

	return vtpl.SplitLines(string(content)), nil
}

// RootArgs 解析位置参数：第一个为根模板路径，其余作为根模板的 %{N} 参数。
func RootArgs(cmd *cli.Command) (string, []string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return "", nil, fmt.Errorf("missing root template, usage: %s ROOT [ARG...]", cmd.Name)
	}

	return args[0], args[1:], nil
}

// Stdout 返回根命令的输出，未设置时使用 os.Stdout。
func Stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
