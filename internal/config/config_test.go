package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load(nil, WithConfigPaths("nonexistent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/tester/.vtpl/templates"}, cfg.Search.Paths)
	assert.Equal(t, "VTPATH", cfg.Search.Env)
	assert.Equal(t, ".vt", cfg.Search.Ext)
	assert.Equal(t, 64, cfg.Search.MaxDepth)
	assert.Equal(t, 300*time.Millisecond, cfg.Render.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("VT_ROOT", "/opt/vt")
	path := writeConfig(t, `
search:
  paths:
    - ${VT_ROOT}/library
    - ${VT_MISSING:-/srv/vt}
  max-depth: 8
render:
  strict: true
  debounce: 1s
`)

	cfg, err := Load(nil, WithConfigPaths("nonexistent.yaml", path))
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/vt/library", "/srv/vt"}, cfg.Search.Paths)
	assert.Equal(t, 8, cfg.Search.MaxDepth)
	assert.Equal(t, "VTPATH", cfg.Search.Env, "unset keys keep defaults")
	assert.True(t, cfg.Render.Strict)
	assert.Equal(t, time.Second, cfg.Render.Debounce)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeConfig(t, `{"log": {"level": "debug"}, "search": {"ext": ".tpl"}}`)

	cfg, err := Load(nil, WithConfigPaths(path))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ".tpl", cfg.Search.Ext)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "- just\n- a list\n")

	_, err := Load(nil, WithConfigPaths(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config root must be object")
}

func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, "search:\n  max-depth: 8\n")
	t.Setenv("VTPL_SEARCH_MAX_DEPTH", "16")
	t.Setenv("VTPL_SEARCH_PATHS", "/a,/b")
	t.Setenv("VTPL_RENDER_WATCH", "true")
	t.Setenv("VTPL_RENDER_DEBOUNCE", "50ms")

	cfg, err := Load(nil, WithConfigPaths(path))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Search.MaxDepth)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Search.Paths)
	assert.True(t, cfg.Render.Watch)
	assert.Equal(t, 50*time.Millisecond, cfg.Render.Debounce)

	cfg, err = Load(nil, WithConfigPaths(path), WithEnvPrefix(""))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Search.MaxDepth)
}

func TestLoad_Flags(t *testing.T) {
	path := writeConfig(t, "search:\n  max-depth: 8\n  ext: .tpl\n")
	t.Setenv("VTPL_SEARCH_MAX_DEPTH", "16")

	var got *Config
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "search-max-depth"},
			&cli.StringFlag{Name: "search-ext", Value: ".vt"},
			&cli.StringSliceFlag{Name: "search-paths"},
			&cli.BoolFlag{Name: "render-strict"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			got, err = Load(cmd, WithConfigPaths(path))
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"test", "--search-max-depth", "32", "--search-paths", "/x", "--render-strict"})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 32, got.Search.MaxDepth, "flags override env")
	assert.Equal(t, ".tpl", got.Search.Ext, "unset flag keeps file value")
	assert.Equal(t, []string{"/x"}, got.Search.Paths)
	assert.True(t, got.Render.Strict)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXP_SET", "value")
	t.Setenv("EXP_EMPTY", "")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "no vars", want: "no vars"},
		{name: "set", in: "a-${EXP_SET}-b", want: "a-value-b"},
		{name: "missing", in: "x=${EXP_MISSING}", want: "x="},
		{name: "fallback on empty", in: "${EXP_EMPTY:-fb}", want: "fb"},
		{name: "nested fallback", in: "${EXP_MISSING:-${EXP_SET}}", want: "value"},
		{name: "literal dollar", in: "$$${EXP_SET}", want: "$value"},
		{name: "bare dollar kept", in: "$EXP_SET and $", want: "$EXP_SET and $"},
		{name: "unclosed kept", in: "${EXP_SET", want: "${EXP_SET"},
		{name: "invalid name kept", in: "${1BAD} ${A-B}", want: "${1BAD} ${A-B}"},
		{name: "template placeholders untouched", in: "ENCUT = %{1}", want: "ENCUT = %{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandEnv(tt.in))
		})
	}
}
