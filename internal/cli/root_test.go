package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/chores/internal/api"
	"github.com/idilsaglam/chores/internal/api/apitest"
	"github.com/idilsaglam/chores/internal/auth"
	"github.com/idilsaglam/chores/internal/cli"
	"github.com/idilsaglam/chores/internal/model"
)

type result struct {
	stdout, stderr string
	code           int
}

// isolate points every per-user path at a temp dir and clears the env
// overrides. Tests using it must not run in parallel.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	for _, k := range []string{auth.EnvSession, "CHORES_SERVER", "CHORES_TIMEOUT", "CHORES_SOUND", "CHORES_THEME"} {
		t.Setenv(k, "")
	}
	return home
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	cmd := cli.NewRootCmd("chores", "test")
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	code := cli.Execute(context.Background(), cmd)
	return result{stdout: out.String(), stderr: errb.String(), code: code}
}

func loggedIn(t *testing.T, home string, srv *apitest.Server) {
	t.Helper()

	s := &auth.Store{Dir: filepath.Join(home, ".chores")}
	require.NoError(t, s.Set(apitest.Username, srv.SessionID(), nil))
}

func newServer(t *testing.T) *apitest.Server {
	t.Helper()

	srv := apitest.New(t)
	srv.SetChores(
		model.Chore{ID: 1, Name: "Dishes", Points: 5, IsAssigned: true},
		model.Chore{ID: 2, Name: "Trash", Points: 2, IsClaimable: true},
	)
	srv.SetPoints(model.PointsData{
		DailyData:  []int{0, 0, 1, 0, 2, 0, 3},
		WeeklyData: []int{1, 2, 4, 6},
	})
	return srv
}

func TestLogin(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)

	r := execute(t, apitest.Password+"\n", "login", "-u", apitest.Username, "--password_stdin", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "logged in as alice")

	sess, err := (&auth.Store{Dir: filepath.Join(home, ".chores")}).Get()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, srv.SessionID(), sess.Cookie)
	assert.Equal(t, apitest.Username, sess.Username)
}

func TestLoginPromptsForUsername(t *testing.T) {
	isolate(t)
	srv := newServer(t)

	r := execute(t, "alice\nhunter2\n", "login", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Username: ")
	assert.Contains(t, r.stderr, "Password: ")
}

func TestLoginRejected(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)

	r := execute(t, "wrong\n", "login", "-u", "alice", "--password_stdin", "--server", srv.URL)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "invalid credentials")
	assert.NoFileExists(t, filepath.Join(home, ".chores", "session.json"))
}

func TestListNeedsLogin(t *testing.T) {
	isolate(t)
	srv := newServer(t)

	r := execute(t, "", "ls", "--server", srv.URL)
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "not logged in")
	assert.Contains(t, r.stderr, "Run: chores login")
	assert.Zero(t, srv.Hits(api.PathChores))
}

func TestList(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)

	r := execute(t, "", "ls", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "· alice")
	assert.Contains(t, r.stdout, "#1   ☐ Dishes (5 points)")
	assert.Contains(t, r.stdout, "#2   Trash (2 points) [claim]")
	assert.Contains(t, r.stdout, "Points  today 3  this week 6")
}

func TestListPrintsWhatArrived(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)
	srv.Fail(api.PathPoints, 500)

	r := execute(t, "", "ls", "--server", srv.URL)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "Dishes (5 points)")
	assert.NotContains(t, r.stdout, "Points  today")
	assert.Contains(t, r.stderr, "fetch points")
	assert.Contains(t, r.stderr, "Error fetching points data")
}

func TestListReportsEveryFailure(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)
	srv.Fail(api.PathChores, 500)
	srv.Fail(api.PathPoints, 500)

	r := execute(t, "", "ls", "--server", srv.URL)
	assert.Equal(t, 1, r.code)
	assert.NotContains(t, r.stdout, "Dishes")
	assert.Contains(t, r.stderr, "fetch chores")
	assert.Contains(t, r.stderr, "fetch points")
	assert.Contains(t, r.stderr, "Error fetching chores")
}

func TestRootFallsBackToListWithoutTerminal(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)

	r := execute(t, "", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Dishes (5 points)")
}

func TestDoneUndoClaim(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)

	r := execute(t, "", "done", "1", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "chore 1 marked done")
	assert.True(t, srv.Chores()[0].Completed)

	r = execute(t, "", "undo", "1", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.False(t, srv.Chores()[0].Completed)

	posts := srv.Posts(api.PathChoreUpdate)
	require.Len(t, posts, 2)
	assert.Equal(t, "true", posts[0].Get("completed"))
	assert.Equal(t, "false", posts[1].Get("completed"))

	r = execute(t, "", "claim", "2", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "chore 2 claimed")
	assert.True(t, srv.Chores()[1].IsAssigned)
}

func TestStaleSession(t *testing.T) {
	isolate(t)
	srv := newServer(t)
	t.Setenv(auth.EnvSession, "session_id=bogus")

	r := execute(t, "", "done", "1", "--server", srv.URL)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "Run: chores login")
	assert.Empty(t, srv.Posts(api.PathChoreUpdate))
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	tcs := map[string][]string{
		"bad id":          {"done", "abc"},
		"missing id":      {"claim"},
		"unknown command": {"frobnicate"},
		"unknown flag":    {"ls", "--nope"},
		"bad server":      {"login", "-u", "alice", "--password_stdin", "--server", "ftp://x"},
	}
	for name, args := range tcs {
		t.Run(name, func(t *testing.T) {
			r := execute(t, "pw\n", args...)
			assert.Equal(t, 2, r.code, r.stderr)
		})
	}
}

func TestPoints(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)

	r := execute(t, "", "points", "--width", "28", "--height", "3", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Daily points")
	assert.Contains(t, r.stdout, "Weekly points")
}

func TestChartWritesSVG(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)
	dir := filepath.Join(t.TempDir(), "charts")

	r := execute(t, "", "chart", "-o", dir, "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)

	for _, name := range []string{"daily-chart.svg", "weekly-chart.svg"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(b), "<svg"), name)
		assert.Contains(t, r.stdout, name)
	}
}

func TestLogout(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)
	loggedIn(t, home, srv)

	r := execute(t, "", "logout", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "logged out")
	assert.Equal(t, 1, srv.Hits(api.PathLogout))
	assert.NoFileExists(t, filepath.Join(home, ".chores", "session.json"))

	r = execute(t, "", "logout", "--server", srv.URL)
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "already logged out")
}

func TestStatus(t *testing.T) {
	home := isolate(t)
	srv := newServer(t)

	r := execute(t, "", "status", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "not logged in")
	assert.Contains(t, r.stdout, "theme:   Classic")

	loggedIn(t, home, srv)
	t.Setenv("CHORES_THEME", "neon")
	r = execute(t, "", "status", "--verify", "--server", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "user:    alice")
	assert.Contains(t, r.stdout, "source:  file")
	assert.Contains(t, r.stdout, "theme:   Neon")
	assert.Contains(t, r.stdout, "session accepted by server")
}

func TestVersion(t *testing.T) {
	isolate(t)

	r := execute(t, "", "version")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, cli.Version)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, cli.ExitCode(nil))
	assert.Equal(t, 1, cli.ExitCode(errors.New("boom")))
	assert.Equal(t, 2, cli.ExitCode(fmt.Errorf("wrapped: %w", cli.ErrInvalidArgument)))
	assert.Equal(t, 2, cli.ExitCode(cli.ErrNotLoggedIn))
	assert.Equal(t, 1, cli.ExitCode(api.ErrUnauthorized))
}
