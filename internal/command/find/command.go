// Package find 提供模板路径查询命令。
package find

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command"
)

// NewCommand 创建新的查询命令实例，flag 状态互不共享。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "显示 include 名称解析到的文件",
		ArgsUsage: "NAME...",
		Flags: append(command.SearchFlags(),
			&cli.BoolFlag{
				Name:  "candidates",
				Usage: "列出全部候选路径",
			},
		),
		Action: action,
	}
}

func action(_ context.Context, cmd *cli.Command) error {
	cfg, err := command.Setup(cmd)
	if err != nil {
		return err
	}
	if cmd.NArg() == 0 {
		return errors.New("missing template name")
	}

	w := command.Stdout(cmd)
	finder := command.NewFinder(cfg)
	for _, name := range cmd.Args().Slice() {
		if cmd.Bool("candidates") {
			for _, candidate := range finder.Candidates(name) {
				_, _ = fmt.Fprintln(w, candidate)
			}
			continue
		}

		path, _, err := finder.Find(name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, path)
	}

	return nil
}
