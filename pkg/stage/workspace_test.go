package stage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gitCall struct {
	dir  string
	args []string
}

type fakeRunner struct {
	calls   []gitCall
	failOn  string
	failErr error
}

func (f *fakeRunner) Run(_ context.Context, dir string, _ []string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, gitCall{dir: dir, args: append([]string{name}, args...)})
	if f.failOn != "" && len(args) > 0 && args[0] == f.failOn {
		return "", f.failErr
	}
	return "", nil
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		lines = append(lines, strings.Join(c.args, " "))
	}
	return lines
}

func TestNewInitializesRepository(t *testing.T) {
	runner := &fakeRunner{}

	ws, err := New(context.Background(), runner, "blog", "main", Identity{Name: "Octo Cat", Email: "octo@example.com"})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, ws.Clean())
	}()

	assert.Equal(t, "blog", filepath.Base(ws.Dir))
	assert.DirExists(t, ws.Dir)
	assert.Equal(t, "main", ws.Branch())

	assert.Equal(t, []string{
		"git init",
		"git checkout -b main",
		"git config user.name Octo Cat",
		"git config user.email octo@example.com",
	}, runner.commandLines())
	for _, call := range runner.calls {
		assert.Equal(t, ws.Dir, call.dir)
	}
}

func TestNewCleansUpOnGitFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "checkout", failErr: errors.New("git checkout failed")}

	ws, err := New(context.Background(), runner, "blog", "main", DefaultIdentity)

	require.Error(t, err)
	assert.Nil(t, ws)
}

func TestWriteFileAndCommit(t *testing.T) {
	runner := &fakeRunner{}
	ws, err := New(context.Background(), runner, "blog", "main", DefaultIdentity)
	require.NoError(t, err)
	defer func() {
		_ = ws.Clean()
	}()

	require.NoError(t, ws.WriteFile("index.html", []byte("<html></html>")))

	content, err := os.ReadFile(filepath.Join(ws.Dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))

	runner.calls = nil
	require.NoError(t, ws.Commit(context.Background(), "Initial commit"))
	assert.Equal(t, []string{
		"git add .",
		"git commit -m Initial commit",
	}, runner.commandLines())
}

func TestCleanRemovesStagingDirectory(t *testing.T) {
	ws, err := New(context.Background(), &fakeRunner{}, "blog", "main", DefaultIdentity)
	require.NoError(t, err)

	require.NoError(t, ws.Clean())

	assert.NoDirExists(t, ws.Dir)
	assert.NoDirExists(t, filepath.Dir(ws.Dir))
}

func TestLoadIdentityFromPath(t *testing.T) {
	t.Run("reads user section", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".gitconfig")
		data := "[user]\n\tname = Octo Cat\n\temail = octo@example.com\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0600))

		id := loadIdentityFromPath(path)

		assert.Equal(t, Identity{Name: "Octo Cat", Email: "octo@example.com"}, id)
	})

	t.Run("missing file falls back to default", func(t *testing.T) {
		id := loadIdentityFromPath(filepath.Join(t.TempDir(), "nope"))

		assert.Equal(t, DefaultIdentity, id)
	})

	t.Run("partial section keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".gitconfig")
		require.NoError(t, os.WriteFile(path, []byte("[user]\n\tname = Octo Cat\n"), 0600))

		id := loadIdentityFromPath(path)

		assert.Equal(t, "Octo Cat", id.Name)
		assert.Equal(t, DefaultIdentity.Email, id.Email)
	})
}
