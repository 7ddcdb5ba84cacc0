package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/261019-go-pkg-vtpl/internal/config"
)

func TestRenderer_Run(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "incar.vt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.vt"), []byte("PREC = Normal\n"), 0o644))
	require.NoError(t, os.WriteFile(root, []byte("%INCLUDE = base\nENCUT = %{1}\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Search.Paths = []string{dir}
	cfg.Search.NoInstall = true

	var out bytes.Buffer
	r := &renderer{cfg: &cfg, root: root, args: []string{"450"}, out: &out}
	files, err := r.run()
	require.NoError(t, err)

	assert.Equal(t, "PREC = Normal\nENCUT = 450\n", out.String())
	assert.Equal(t, []string{root, filepath.Join(dir, "base.vt")}, files)
}

func TestWatch_RerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "incar.vt")
	require.NoError(t, os.WriteFile(file, []byte("ENCUT = 400\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	rerender := func() ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return []string{file}, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, 10*time.Millisecond, []string{file}, rerender)
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("ENCUT = 500\n"), 0o644)
		mu.Lock()
		defer mu.Unlock()
		return calls > 0
	}, 5*time.Second, 100*time.Millisecond)

	// 同目录下无关文件的变化不会触发渲染
	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	before := calls
	mu.Unlock()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, before, calls)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
