package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoboard/internal/auth"
	"github.com/idilsaglam/todoboard/internal/server"
)

// testEnv isolates config, credentials and logs in a temp dir and points the
// client at a seeded dev server.
type testEnv struct {
	dir   string
	store server.Store
}

func newTestEnv(t *testing.T, seed int) *testEnv {
	t.Helper()
	dir := t.TempDir()
	st := server.NewMemoryStore()
	require.NoError(t, server.Seed(context.Background(), st, seed))
	ts := httptest.NewServer(server.New(st).Handler())
	t.Cleanup(ts.Close)

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TODOBOARD_API_BASE_URL", ts.URL)
	t.Setenv("TODOBOARD_LOGGING_FILE", filepath.Join(dir, "todoboard.log"))
	t.Setenv(auth.EnvToken, "")
	return &testEnv{dir: dir, store: st}
}

// executeCommand runs the command tree with args and returns captured output
// and the exit code.
func executeCommand(stdin string, args ...string) (string, int) {
	out, code, _ := executeApp(stdin, args...)
	return out, code
}

func executeApp(stdin string, args ...string) (string, int, *app) {
	viper.Reset()
	a := &app{version: "test"}
	root := a.rootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	code := run(context.Background(), a, root, args)
	return buf.String(), code, a
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd("test")
	assert.Equal(t, "todoboard", root.Use)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"board", "ls", "add", "edit", "done", "rm", "auth", "serve"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestLs(t *testing.T) {
	newTestEnv(t, 12)

	out, code := executeCommand("", "ls", "--page", "2", "--limit", "5")
	require.Equal(t, ExitOK, code, out)
	for _, want := range []string{"todo 6", "todo 10", "page 2 of 40"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "todo 11")
	assert.NotContains(t, out, "todo 5 ")
}

func TestLs_Group(t *testing.T) {
	newTestEnv(t, 6)

	out, code := executeCommand("", "ls", "--group")
	require.Equal(t, ExitOK, code, out)
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	require.True(t, pending >= 0 && done > pending, out)
	assert.Greater(t, strings.Index(out, "todo 3"), done, "completed item listed under Done")
}

func TestLs_UsageErrors(t *testing.T) {
	newTestEnv(t, 3)

	_, code := executeCommand("", "ls", "--limit", "7")
	assert.Equal(t, ExitUsage, code)

	_, code = executeCommand("", "ls", "--page", "0")
	assert.Equal(t, ExitUsage, code)

	out, code := executeCommand("", "ls", "--bogus")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out, "--help")
}

func TestLs_PageOutOfRange(t *testing.T) {
	newTestEnv(t, 12)

	out, code := executeCommand("", "ls", "--page", "999")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out, "--page must be between 1 and 40")

	out, code = executeCommand("", "ls", "--page", "40")
	require.Equal(t, ExitOK, code, out)
	assert.Contains(t, out, "page 40 of 40")
}

func TestLogFileClosedOnError(t *testing.T) {
	newTestEnv(t, 3)

	_, code, a := executeApp("", "ls", "--limit", "7")
	require.Equal(t, ExitUsage, code)
	assert.NotNil(t, a.cfg, "setup ran before the command failed")
	assert.Nil(t, a.logFile)
}

func TestUnknownCommand(t *testing.T) {
	newTestEnv(t, 0)
	_, code := executeCommand("", "frobnicate")
	assert.Equal(t, ExitUsage, code)
}

func TestAdd(t *testing.T) {
	env := newTestEnv(t, 12)

	out, code := executeCommand("", "add", "buy", "milk")
	require.Equal(t, ExitOK, code, out)
	assert.Contains(t, out, "added #13 buy milk")

	it, err := env.store.Get(context.Background(), 13)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", it.Title)
	assert.False(t, it.Completed)
}

func TestAdd_BlankTitle(t *testing.T) {
	newTestEnv(t, 0)

	_, code := executeCommand("", "add", "   ")
	assert.Equal(t, ExitUsage, code)

	_, code = executeCommand("", "add")
	assert.Equal(t, ExitUsage, code)
}

func TestEditAndDone(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()

	out, code := executeCommand("", "edit", "3", "pay", "rent")
	require.Equal(t, ExitOK, code, out)
	it, err := env.store.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "pay rent", it.Title)
	assert.True(t, it.Completed, "edit keeps the completed flag")

	_, code = executeCommand("", "done", "3", "--undo")
	require.Equal(t, ExitOK, code)
	it, _ = env.store.Get(ctx, 3)
	assert.False(t, it.Completed)

	out, code = executeCommand("", "done", "1")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "marked #1 as completed")
	it, _ = env.store.Get(ctx, 1)
	assert.True(t, it.Completed)

	_, code = executeCommand("", "edit", "1")
	assert.Equal(t, ExitUsage, code)
	_, code = executeCommand("", "done", "x")
	assert.Equal(t, ExitUsage, code)
}

func TestRm(t *testing.T) {
	env := newTestEnv(t, 5)

	out, code := executeCommand("", "rm", "4")
	require.Equal(t, ExitOK, code, out)
	assert.Contains(t, out, "removed #4")
	_, err := env.store.Get(context.Background(), 4)
	assert.ErrorIs(t, err, server.ErrNotFound)

	out, code = executeCommand("", "rm", "4")
	assert.Equal(t, ExitOK, code, out)

	out, code = executeCommand("", "edit", "4", "gone")
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, out, "unexpected status 404")

	_, code = executeCommand("", "rm", "-1")
	assert.Equal(t, ExitUsage, code)
}

func TestServerDown(t *testing.T) {
	newTestEnv(t, 0)
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	t.Setenv("TODOBOARD_API_BASE_URL", ts.URL)

	out, code := executeCommand("", "ls")
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, out, "network error")
}

func TestConfigFile(t *testing.T) {
	env := newTestEnv(t, 30)
	cfgDir := filepath.Join(env.dir, "todoboard")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(`
board:
  page_size: 10
tui:
  theme: mono
`), 0o644))

	out, code := executeCommand("", "ls")
	require.Equal(t, ExitOK, code, out)
	assert.Contains(t, out, "todo 10")
	assert.NotContains(t, out, "todo 11")
	assert.Contains(t, out, "page 1 of 20")
	assert.Contains(t, out, "[x] todo 3")
}

func TestConfigFile_Invalid(t *testing.T) {
	env := newTestEnv(t, 0)
	path := filepath.Join(env.dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: solarized\n"), 0o644))

	out, code := executeCommand("", "--config", path, "ls")
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, out, "tui.theme")

	_, code = executeCommand("", "--config", filepath.Join(env.dir, "missing.yaml"), "ls")
	assert.Equal(t, ExitRuntime, code)
}

func TestAuthFlow(t *testing.T) {
	newTestEnv(t, 0)

	out, code := executeCommand("", "auth", "status")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "not logged in")

	_, code = executeCommand("", "auth", "whoami")
	assert.Equal(t, ExitUsage, code)

	out, code = executeCommand("opaque-token\n", "auth", "login")
	require.Equal(t, ExitOK, code, out)
	assert.Contains(t, out, "logged in")

	out, _ = executeCommand("", "auth", "status")
	assert.Contains(t, out, "source: file")
	assert.Contains(t, out, "expires: (unknown)")

	out, _ = executeCommand("", "auth", "whoami")
	assert.Contains(t, out, "Opaque token")

	out, code = executeCommand("", "auth", "logout")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "logged out")

	out, _ = executeCommand("", "auth", "status")
	assert.Contains(t, out, "not logged in")

	_, code = executeCommand("", "auth", "login", "  ")
	assert.Equal(t, ExitUsage, code)
}

func TestAuth_TokenSentToEndpoint(t *testing.T) {
	newTestEnv(t, 0)
	var got string
	ts := httptest.NewServer(authRecorder(&got))
	defer ts.Close()
	t.Setenv("TODOBOARD_API_BASE_URL", ts.URL)

	// {"sub":"ada"}
	_, code := executeCommand("", "auth", "login", "Bearer aaa.eyJzdWIiOiJhZGEifQ.sig")
	require.Equal(t, ExitOK, code)

	out, _ := executeCommand("", "auth", "whoami")
	assert.Contains(t, out, `{"sub":"ada"}`)

	_, code = executeCommand("", "ls")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "Bearer aaa.eyJzdWIiOiJhZGEifQ.sig", got)

	t.Setenv(auth.EnvToken, "from-env")
	_, _ = executeCommand("", "ls")
	assert.Equal(t, "Bearer from-env", got)

	out, _ = executeCommand("", "auth", "logout")
	assert.Contains(t, out, "nothing to delete")
}

func authRecorder(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, exitCode(nil))
	assert.Equal(t, ExitUsage, exitCode(usagef(assert.AnError)))
	assert.Equal(t, ExitRuntime, exitCode(assert.AnError))
	assert.Nil(t, usagef(nil))
}
