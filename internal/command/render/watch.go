package render

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch 监听参与渲染的文件，变化后按 debounce 合并事件并调用 rerender。
//
// 监听的是文件所在目录，这样编辑器以重命名方式保存文件时也能收到事件。
// rerender 返回的新文件列表会追加到监听集合中。ctx 取消时返回 nil。
func watch(ctx context.Context, debounce time.Duration, files []string, rerender func() ([]string, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs := make(map[string]bool)
	targets := make(map[string]bool)
	track := func(files []string) {
		for _, file := range files {
			abs, err := filepath.Abs(file)
			if err != nil {
				continue
			}
			targets[abs] = true

			dir := filepath.Dir(abs)
			if dirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				slog.Warn("Failed to watch directory", "dir", dir, "error", err)
				continue
			}
			dirs[dir] = true
		}
	}
	track(files)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			slog.Debug("Template changed", "file", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			files, err := rerender()
			track(files)
			if err != nil {
				slog.Error("Render failed", "error", err)
				continue
			}
			slog.Info("Re-rendered templates", "files", len(files))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}
