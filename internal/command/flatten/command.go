// Package flatten 提供只做 include 展开的调试命令。
package flatten

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command"
	"github.com/lwmacct/261019-go-pkg-vtpl/pkg/vtpl"
)

// NewCommand 创建新的展开命令实例，flag 状态互不共享。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "flatten",
		Usage:     "只展开 %INCLUDE 与位置参数，输出扁平行序列",
		ArgsUsage: "ROOT [ARG...]",
		Flags:     command.SearchFlags(),
		Action:    action,
	}
}

func action(_ context.Context, cmd *cli.Command) error {
	cfg, err := command.Setup(cmd)
	if err != nil {
		return err
	}

	root, args, err := command.RootArgs(cmd)
	if err != nil {
		return err
	}
	lines, err := command.ReadRoot(root)
	if err != nil {
		return err
	}

	res := vtpl.NewExpander(command.NewFinder(cfg), command.Options(cfg)...).Expand(lines, args...)

	return vtpl.WriteLines(command.Stdout(cmd), res.Lines)
}
