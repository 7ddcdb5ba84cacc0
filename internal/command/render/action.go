package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/command"
	"github.com/lwmacct/261019-go-pkg-vtpl/internal/config"
	"github.com/lwmacct/261019-go-pkg-vtpl/pkg/vtpl"
)

func action(ctx context.Context, cmd *cli.Command) error {
	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := command.Setup(cmd)
	if err != nil {
		return err
	}

	root, args, err := command.RootArgs(cmd)
	if err != nil {
		return err
	}

	r := &renderer{cfg: cfg, root: root, args: args, out: command.Stdout(cmd)}
	files, err := r.run()
	if !cfg.Render.Watch {
		return err
	}
	if err != nil {
		slog.Error("Render failed", "root", root, "error", err)
	}

	// 等待中断信号
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Watching templates", "root", root, "files", len(files))
	err = watch(ctx, cfg.Render.Debounce, files, r.run)
	slog.Info("Stopped watching")

	return err
}

// renderer 执行一次完整的渲染并写出结果。
type renderer struct {
	cfg  *config.Config
	root string
	args []string
	out  io.Writer
}

// run 渲染并写出结果，返回参与渲染的文件（根模板与全部 include），供监听模式使用。
func (r *renderer) run() ([]string, error) {
	files := []string{r.root}

	lines, err := command.ReadRoot(r.root)
	if err != nil {
		return files, err
	}

	res, err := vtpl.Render(lines, command.NewFinder(r.cfg), r.args, command.Options(r.cfg)...)
	if res != nil {
		files = append(files, res.Sources...)
	}
	if err != nil {
		return files, fmt.Errorf("render %s: %w", r.root, err)
	}

	if err := r.write(res.Lines); err != nil {
		return files, err
	}
	slog.Debug("Rendered template",
		"root", r.root,
		"lines", len(res.Lines),
		"sources", len(res.Sources),
		"diagnostics", len(res.Diagnostics),
	)

	return files, nil
}

func (r *renderer) write(lines []string) error {
	path := r.cfg.Render.Output
	if path == "" {
		return vtpl.WriteLines(r.out, lines)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := vtpl.WriteLines(f, lines); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}

	return f.Close()
}
