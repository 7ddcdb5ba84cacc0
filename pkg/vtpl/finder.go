package vtpl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExt 是模板文件的约定扩展名。
const DefaultExt = ".vt"

// Finder 把 include 名称解析为文件内容。
//
// 返回的 path 用于诊断与循环检测，同一文件应返回相同的 path。
// 找不到时返回包装了 [ErrNotFound] 的 error。
type Finder interface {
	Find(name string) (path string, lines []string, err error)
}

// SearchFinder 在文件系统中按搜索路径查找模板。
//
// 查找顺序 (先命中先生效)：
//  1. 名称本身作为路径
//  2. 环境变量 EnvVar 中以 ":" 分隔的目录
//  3. Paths 中的目录
//  4. InstallDir
//
// 每个目录依次尝试 dir/name 与 dir/name+Ext。
type SearchFinder struct {
	EnvVar     string   // 为空时不读取环境变量
	Paths      []string // 配置的默认搜索目录
	InstallDir string   // 安装目录，为空时跳过
	Ext        string   // 为空时使用 DefaultExt
}

// Dirs 返回当前生效的搜索目录，环境变量在调用时读取。
func (f *SearchFinder) Dirs() []string {
	var dirs []string
	if f.EnvVar != "" {
		if env := os.Getenv(f.EnvVar); env != "" {
			for _, dir := range filepath.SplitList(env) {
				if dir != "" {
					dirs = append(dirs, dir)
				}
			}
		}
	}
	dirs = append(dirs, f.Paths...)
	if f.InstallDir != "" {
		dirs = append(dirs, f.InstallDir)
	}

	return dirs
}

// Candidates 返回 name 的全部候选路径，按查找顺序排列。
func (f *SearchFinder) Candidates(name string) []string {
	ext := f.Ext
	if ext == "" {
		ext = DefaultExt
	}

	candidates := []string{name}
	for _, dir := range f.Dirs() {
		joined := filepath.Join(dir, name)
		candidates = append(candidates, joined, joined+ext)
	}

	return candidates
}

// Find 实现 [Finder]。
func (f *SearchFinder) Find(name string) (string, []string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	for _, path := range f.Candidates(name) {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		content, err := os.ReadFile(path) //nolint:gosec // path comes from the configured search path
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				continue
			}
			return path, nil, fmt.Errorf("read %s: %w", path, err)
		}

		return filepath.Clean(path), SplitLines(string(content)), nil
	}

	return "", nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// InstallDir 返回当前可执行文件所在目录，获取失败时返回空字符串。
func InstallDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}

// MapFinder 是内存中的 [Finder]，key 为 include 名称，value 为文件内容。
type MapFinder map[string]string

// Find 实现 [Finder]。
func (m MapFinder) Find(name string) (string, []string, error) {
	content, ok := m[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return name, SplitLines(content), nil
}
