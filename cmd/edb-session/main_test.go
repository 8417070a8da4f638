package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/dbgsession/pkg/logging"
	"github.com/entrhq/dbgsession/pkg/session"
)

const moduleMap = `modules:
  - name: /usr/bin/target
    start: "0x555555554000"
    end: "0x555555575000"
  - name: /usr/lib/libc.so.6
    start: "0x7ffff7c00000"
    end: "0x7ffff7e00000"
`

type testEnv struct {
	dir     string
	config  string
	modules string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		config:  filepath.Join(dir, "config.yaml"),
		modules: filepath.Join(dir, "modules.yaml"),
	}

	cfg := "session_dir: " + filepath.Join(dir, "sessions") + "\n"
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0600))
	require.NoError(t, os.WriteFile(env.modules, []byte(moduleMap), 0600))
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	c := newCLI()
	c.newLogger = func(component string) (*logging.Logger, error) {
		return logging.NewWriterLogger(io.Discard, component, logging.LevelNormal), nil
	}

	var out bytes.Buffer
	cmd := newRootCmd(c)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "edb-session v"+version+"\n", out)
}

func TestAnnotateThenList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "annotate", "/usr/bin/target",
		"--modules", env.modules, "--address", "0x555555555234", "--comment", "check length")
	require.NoError(t, err)
	assert.Contains(t, out, "/usr/bin/target+0000000000001234")

	_, err = env.run(t, "annotate", "/usr/bin/target",
		"--modules", env.modules, "--address", "7ffff7c29d90", "--label", "libc_start_call_main")
	require.NoError(t, err)

	sessionFile := filepath.Join(env.dir, "sessions", "target.edb")
	doc, err := session.ReadDocument(sessionFile)
	require.NoError(t, err)
	assert.Len(t, doc.Objects, 2)
	assert.Equal(t, "check length", doc.Objects["0000000000001234"]["comment"])
	assert.Equal(t, "libc_start_call_main", doc.Objects["0000000000029d90"]["label"])

	t.Run("pending without module map", func(t *testing.T) {
		out, err := env.run(t, "list", "/usr/bin/target")
		require.NoError(t, err)
		assert.Contains(t, out, "pending")
		assert.Contains(t, out, "check length")
	})

	t.Run("rebased with module map", func(t *testing.T) {
		out, err := env.run(t, "list", "--file", sessionFile, "--modules", env.modules)
		require.NoError(t, err)
		assert.Contains(t, out, "0000555555555234")
		assert.Contains(t, out, "00007ffff7c29d90")
		assert.NotContains(t, out, "pending")
	})

	t.Run("filtered by kind", func(t *testing.T) {
		out, err := env.run(t, "list", "/usr/bin/target", "--kind", "label")
		require.NoError(t, err)
		assert.Contains(t, out, "libc_start_call_main")
		assert.NotContains(t, out, "check length")
	})

	t.Run("filtered by module", func(t *testing.T) {
		out, err := env.run(t, "list", "/usr/bin/target", "--exclude", "*libc*")
		require.NoError(t, err)
		assert.Contains(t, out, "check length")
		assert.NotContains(t, out, "libc_start_call_main")
	})
}

func TestAnnotate_AddressOutsideModules(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "annotate", "/usr/bin/target",
		"--modules", env.modules, "--address", "0x1000", "--comment", "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no module")
}

func TestAnnotate_RequiresText(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "annotate", "/usr/bin/target", "--modules", env.modules, "--address", "0x555555555234")
	require.Error(t, err)
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "annotate", "/usr/bin/target",
		"--modules", env.modules, "--address", "0x555555555234", "--label", "main")
	require.NoError(t, err)

	out, err := env.run(t, "show", "/usr/bin/target", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "objects: 1")
	assert.Contains(t, out, `"id": "edb-session"`)
	assert.Contains(t, out, `"label": "main"`)

	raw, err := env.run(t, "show", "/usr/bin/target", "--raw", "--color", "never")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "{"))
}

func TestShow_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "show", "/usr/bin/missing")
	assert.ErrorIs(t, err, session.ErrNoSessionFile)

	bad := filepath.Join(env.dir, "bad.edb")
	require.NoError(t, os.WriteFile(bad, []byte(`[]`), 0600))
	_, err = env.run(t, "show", "--file", bad)
	assert.ErrorIs(t, err, session.ErrNotAnObject)

	_, err = env.run(t, "show")
	require.Error(t, err)
}

func TestList_InvalidKind(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "list", "/usr/bin/target", "--kind", "bookmark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bookmark")
}
