// Package stage manages the ephemeral local working directory used to
// assemble and commit the initial content of a provisioned repository.
// A workspace lives only for the duration of one commit/push sequence.
package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"pageforge/internal/exec"
)

// Identity is the committer identity used for the initial commit.
type Identity struct {
	Name  string
	Email string
}

// DefaultIdentity is used when no identity is configured anywhere.
var DefaultIdentity = Identity{
	Name:  "pageforge",
	Email: "pageforge@users.noreply.github.com",
}

// LoadIdentity resolves the committer identity from ~/.gitconfig, falling
// back to DefaultIdentity when the file or the user section is absent.
func LoadIdentity() Identity {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultIdentity
	}

	return loadIdentityFromPath(filepath.Join(homeDir, ".gitconfig"))
}

func loadIdentityFromPath(path string) Identity {
	cfg, err := ini.Load(path)
	if err != nil {
		return DefaultIdentity
	}

	id := DefaultIdentity
	user := cfg.Section("user")
	if name := user.Key("name").String(); name != "" {
		id.Name = name
	}
	if email := user.Key("email").String(); email != "" {
		id.Email = email
	}
	return id
}

// Workspace is a local git repository in a temporary directory. Create
// with New and call Clean when done.
type Workspace struct {
	// Dir is the filesystem location of the staging clone.
	Dir string

	runner exec.Runner
	branch string
}

// New creates a temporary directory for name, initializes a git repository
// on the given branch, and configures the committer identity.
func New(ctx context.Context, runner exec.Runner, name, branch string, id Identity) (*Workspace, error) {
	tmpDir, err := os.MkdirTemp("", "pageforge-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	dir := filepath.Join(tmpDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	ws := &Workspace{
		Dir:    dir,
		runner: runner,
		branch: branch,
	}

	steps := [][]string{
		{"init"},
		{"checkout", "-b", branch},
		{"config", "user.name", id.Name},
		{"config", "user.email", id.Email},
	}
	for _, args := range steps {
		if _, err := runner.Run(ctx, dir, nil, "git", args...); err != nil {
			_ = ws.Clean()
			return nil, err
		}
	}

	return ws, nil
}

// WriteFile writes content into the workspace.
func (w *Workspace) WriteFile(name string, content []byte) error {
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Commit stages everything in the workspace and commits it.
func (w *Workspace) Commit(ctx context.Context, message string) error {
	if _, err := w.runner.Run(ctx, w.Dir, nil, "git", "add", "."); err != nil {
		return err
	}
	if _, err := w.runner.Run(ctx, w.Dir, nil, "git", "commit", "-m", message); err != nil {
		return err
	}
	return nil
}

// Branch returns the branch the workspace was initialized on.
func (w *Workspace) Branch() string {
	return w.branch
}

// Clean removes the staging directory.
func (w *Workspace) Clean() error {
	// Dir is <tmp>/<repo>, remove the enclosing temp dir.
	if err := os.RemoveAll(filepath.Dir(w.Dir)); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	return nil
}
