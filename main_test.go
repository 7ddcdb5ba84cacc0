package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/261019-go-pkg-vtpl/pkg/vtpl"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VTPATH", "")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"vtpl"}, args...))

	return out.String(), err
}

func templateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"incar.vt": `#! vt render incar.vt 520
# generated INCAR
SYSTEM = Si
%INCLUDE = smear(0.05)
ENCUT = %{1}
%NELM = 60
ISMEAR = -5
`,
		"smear.vt": `## Gaussian smearing
ISMEAR = 0
SIGMA = %{1}
`,
		"broken.vt": "A = 1\n%INCLUDE = nosuchfile\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func TestRenderCommand(t *testing.T) {
	dir := templateDir(t)

	out, err := runApp(t, "render", "--search-no-install-dir", "-I", dir, filepath.Join(dir, "incar.vt"), "520")
	require.NoError(t, err)

	assert.Equal(t, `# generated INCAR
SYSTEM = Si
ISMEAR = -5
SIGMA = 0.05
ENCUT = 520
%NELM = 60
`, out)
}

func TestRenderCommand_OutputFile(t *testing.T) {
	dir := templateDir(t)
	output := filepath.Join(t.TempDir(), "calc", "INCAR")

	out, err := runApp(t, "render", "--search-no-install-dir", "-I", dir, "-o", output, filepath.Join(dir, "incar.vt"), "400")
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ENCUT = 400\n")
}

func TestRenderCommand_Strict(t *testing.T) {
	dir := templateDir(t)
	root := filepath.Join(dir, "broken.vt")

	out, err := runApp(t, "render", "--search-no-install-dir", root)
	require.NoError(t, err)
	assert.Equal(t, "A = 1\n", out)

	_, err = runApp(t, "render", "--search-no-install-dir", "--render-strict", root)
	require.ErrorIs(t, err, vtpl.ErrNotFound)
}

func TestRenderCommand_MissingRoot(t *testing.T) {
	_, err := runApp(t, "render", "--search-no-install-dir")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing root template")

	_, err = runApp(t, "render", "--search-no-install-dir", filepath.Join(t.TempDir(), "none.vt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read root template")
}

func TestFlattenCommand(t *testing.T) {
	dir := templateDir(t)

	out, err := runApp(t, "flatten", "--search-no-install-dir", "-I", dir, filepath.Join(dir, "incar.vt"), "520")
	require.NoError(t, err)

	assert.Equal(t, `# generated INCAR
SYSTEM = Si
ISMEAR = 0
SIGMA = 0.05
ENCUT = 520
%NELM = 60
ISMEAR = -5
`, out)
}

func TestFindCommand(t *testing.T) {
	dir := templateDir(t)

	out, err := runApp(t, "find", "--search-no-install-dir", "-I", dir, "smear")
	require.NoError(t, err)
	assert.Equal(t, "smear\t"+filepath.Join(dir, "smear.vt")+"\n", out)

	_, err = runApp(t, "find", "--search-no-install-dir", "-I", dir, "nosuchfile")
	require.ErrorIs(t, err, vtpl.ErrNotFound)
}

func TestFindCommand_Candidates(t *testing.T) {
	dir := templateDir(t)

	out, err := runApp(t, "find", "--search-no-install-dir", "-I", dir, "--candidates", "smear")
	require.NoError(t, err)
	assert.Equal(t, "smear\n"+filepath.Join(dir, "smear")+"\n"+filepath.Join(dir, "smear.vt")+"\n", out)
}

func TestFindCommand_EnvPath(t *testing.T) {
	dir := templateDir(t)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "smear.vt"), []byte("ISMEAR = 1\n"), 0o644))

	t.Setenv("HOME", t.TempDir())
	t.Setenv("VT_TEST_PATH", dir)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), []string{
		"vtpl", "find", "--search-no-install-dir", "--search-env", "VT_TEST_PATH", "-I", other, "smear",
	})
	require.NoError(t, err)
	assert.Equal(t, "smear\t"+filepath.Join(dir, "smear.vt")+"\n", out.String(), "env dirs come before configured dirs")
}
