// Package render 提供模板渲染命令。
package render

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command"
)

// Command 渲染命令
var Command = NewCommand()

// NewCommand 创建新的渲染命令实例，flag 状态互不共享。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "展开并解析模板，输出最终配置",
		ArgsUsage: "ROOT [ARG...]",
		Action:    action,
		Flags: append(command.SearchFlags(),
			&cli.StringFlag{
				Name:    "render-output",
				Aliases: []string{"o"},
				Value:   command.Defaults.Render.Output,
				Usage:   "输出文件，留空输出到 stdout",
			},
			&cli.BoolFlag{
				Name:  "render-strict",
				Usage: "存在诊断信息时返回错误",
			},
			&cli.BoolFlag{
				Name:    "render-watch",
				Aliases: []string{"w"},
				Usage:   "监听模板变化并重新渲染",
			},
			&cli.DurationFlag{
				Name:  "render-debounce",
				Value: command.Defaults.Render.Debounce,
				Usage: "监听模式的防抖间隔",
			},
		),
	}
}
