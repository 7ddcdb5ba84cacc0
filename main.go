package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command/find"
	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command/flatten"
	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command/render"
	"github.com/lwmacct/261019-go-pkg-vtpl/internal/config"
)

// version 通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    config.AppName,
		Usage:   "VT 模板展开工具",
		Version: version,
		Commands: []*cli.Command{
			render.NewCommand(),
			flatten.NewCommand(),
			find.NewCommand(),
		},
	}
}
