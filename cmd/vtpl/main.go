package main

import (
	"context"
	"log/slog"
	"os"

	app "github.com/lwmacct/261019-go-pkg-vtpl/internal/command/render"
)

func main() {
	if err := app.Command.Run(context.Background(), os.Args); err != nil {
		slog.Error("渲染失败", "error", err)
		os.Exit(1)
	}
}
