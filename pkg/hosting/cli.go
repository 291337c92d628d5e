package hosting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pageforge/internal/exec"
)

// CLIClient implements Client by shelling out to the gh and git
// command-line tools. The token is injected into every gh invocation via
// the GH_TOKEN environment variable so the tool runs non-interactively.
type CLIClient struct {
	runner exec.Runner
	owner  string
	token  string
}

// NewCLIClient creates a hosting client backed by the gh CLI.
func NewCLIClient(runner exec.Runner, owner, token string) *CLIClient {
	return &CLIClient{
		runner: runner,
		owner:  owner,
		token:  token,
	}
}

func (c *CLIClient) env() []string {
	return []string{"GH_TOKEN=" + c.token}
}

func (c *CLIClient) fullName(name string) string {
	return c.owner + "/" + name
}

// remoteURL builds a token-authenticated clone URL so git push works
// without credential prompts.
func (c *CLIClient) remoteURL(name string) string {
	return fmt.Sprintf("https://oauth2:%s@github.com/%s/%s.git", c.token, c.owner, name)
}

// RepositoryExists checks for the remote repository with gh repo view.
func (c *CLIClient) RepositoryExists(ctx context.Context, name string) (bool, error) {
	_, err := c.runner.Run(ctx, "", c.env(), "gh", "repo", "view", c.fullName(name), "--json", "name")
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out := strings.ToLower(exitErr.Output)
		if strings.Contains(out, "could not resolve") || strings.Contains(out, "not found") {
			return false, nil
		}
	}

	return false, WrapToolError(err, c.fullName(name))
}

// CreateRepository creates the remote repository without cloning it.
func (c *CLIClient) CreateRepository(ctx context.Context, name string, visibility Visibility) (*Repository, error) {
	visFlag := "--public"
	if visibility == VisibilityPrivate {
		visFlag = "--private"
	}

	_, err := c.runner.Run(ctx, "", c.env(), "gh", "repo", "create", c.fullName(name), visFlag, "--clone=false")
	if err != nil {
		return nil, WrapToolError(err, c.fullName(name))
	}

	return &Repository{
		Name:     name,
		FullName: c.fullName(name),
		Private:  visibility == VisibilityPrivate,
		HTMLURL:  fmt.Sprintf("https://github.com/%s/%s", c.owner, name),
	}, nil
}

// SetRemote points origin at the authenticated repository URL.
func (c *CLIClient) SetRemote(ctx context.Context, dir, name string) error {
	_, err := c.runner.Run(ctx, dir, nil, "git", "remote", "add", "origin", c.remoteURL(name))
	if err != nil {
		return WrapToolError(err, c.fullName(name))
	}
	return nil
}

// Push pushes the staged branch to origin.
func (c *CLIClient) Push(ctx context.Context, dir, branch string) error {
	_, err := c.runner.Run(ctx, dir, nil, "git", "push", "-u", "origin", branch)
	if err != nil {
		return WrapToolError(err, "")
	}
	return nil
}

// EnablePages enables Pages hosting served from branch:/ via the gh api
// subcommand.
func (c *CLIClient) EnablePages(ctx context.Context, name, branch string) error {
	_, err := c.runner.Run(ctx, "", c.env(), "gh", "api",
		"--method", "POST",
		fmt.Sprintf("repos/%s/%s/pages", c.owner, name),
		"-f", "source[branch]="+branch,
		"-f", "source[path]=/",
	)
	if err != nil {
		wrapped := WrapToolError(err, c.fullName(name))
		// Enabling pages twice responds 409; treat it like the
		// already-exists skip so reruns stay idempotent.
		if wrapped.Type == ErrorTypeExternalTool && strings.Contains(wrapped.Output, "409") {
			return nil
		}
		if wrapped.Type == ErrorTypeConflict {
			return nil
		}
		return wrapped
	}
	return nil
}

// PagesURL returns the public site URL for a provisioned repository.
func (c *CLIClient) PagesURL(name string) string {
	return fmt.Sprintf("https://%s.github.io/%s", c.owner, name)
}
