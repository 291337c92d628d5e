package hosting

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"pageforge/internal/exec"
)

// APIClient implements Client using the GitHub REST API. Repository
// creation and pages management go through go-github; set-remote and push
// have no API equivalent and still use the git CLI.
type APIClient struct {
	client *github.Client
	runner exec.Runner
	owner  string
	token  string

	authOnce sync.Once
	authUser string
	authErr  error
}

// NewAPIClient creates a hosting client backed by the GitHub REST API.
func NewAPIClient(runner exec.Runner, owner, token string) *APIClient {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &APIClient{
		client: github.NewClient(tc),
		runner: runner,
		owner:  owner,
		token:  token,
	}
}

func (c *APIClient) fullName(name string) string {
	return c.owner + "/" + name
}

// org returns the organization to create repositories in. Creating under
// the authenticated user's own account requires an empty organization.
func (c *APIClient) org(ctx context.Context) (string, error) {
	c.authOnce.Do(func() {
		user, _, err := c.client.Users.Get(ctx, "")
		if err != nil {
			c.authErr = WrapAPIError(err, "")
			return
		}
		c.authUser = user.GetLogin()
	})
	if c.authErr != nil {
		return "", c.authErr
	}
	if c.authUser == c.owner {
		return "", nil
	}
	return c.owner, nil
}

// RepositoryExists checks for the repository via the API.
func (c *APIClient) RepositoryExists(ctx context.Context, name string) (bool, error) {
	_, resp, err := c.client.Repositories.Get(ctx, c.owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, WrapAPIError(err, c.fullName(name))
	}
	return true, nil
}

// CreateRepository creates the repository via the API, retrying only
// remote-service failures.
func (c *APIClient) CreateRepository(ctx context.Context, name string, visibility Visibility) (*Repository, error) {
	org, err := c.org(ctx)
	if err != nil {
		return nil, err
	}

	repo := &github.Repository{
		Name:    github.String(name),
		Private: github.Bool(visibility == VisibilityPrivate),
	}

	var createdRepo *github.Repository

	err = WithRetry(func() error {
		var err error
		createdRepo, _, err = c.client.Repositories.Create(ctx, org, repo)
		if err != nil {
			return WrapAPIError(err, c.fullName(name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	return &Repository{
		Name:     createdRepo.GetName(),
		FullName: createdRepo.GetFullName(),
		Private:  createdRepo.GetPrivate(),
		HTMLURL:  createdRepo.GetHTMLURL(),
	}, nil
}

// SetRemote points origin at the authenticated repository URL.
func (c *APIClient) SetRemote(ctx context.Context, dir, name string) error {
	url := fmt.Sprintf("https://oauth2:%s@github.com/%s/%s.git", c.token, c.owner, name)
	_, err := c.runner.Run(ctx, dir, nil, "git", "remote", "add", "origin", url)
	if err != nil {
		return WrapToolError(err, c.fullName(name))
	}
	return nil
}

// Push pushes the staged branch to origin.
func (c *APIClient) Push(ctx context.Context, dir, branch string) error {
	_, err := c.runner.Run(ctx, dir, nil, "git", "push", "-u", "origin", branch)
	if err != nil {
		return WrapToolError(err, "")
	}
	return nil
}

// EnablePages enables Pages hosting served from branch:/ via the API.
func (c *APIClient) EnablePages(ctx context.Context, name, branch string) error {
	pages := &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String("/"),
		},
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.EnablePages(ctx, c.owner, name, pages)
		if err != nil {
			wrapped := WrapAPIError(err, c.fullName(name))
			// Pages already enabled responds 409; reruns stay idempotent.
			if wrapped.Type == ErrorTypeConflict {
				return nil
			}
			return wrapped
		}
		return nil
	}, DefaultRetryConfig())
}

// PagesURL returns the public site URL for a provisioned repository.
func (c *APIClient) PagesURL(name string) string {
	return fmt.Sprintf("https://%s.github.io/%s", c.owner, name)
}

// GetPagesInfo fetches the live pages configuration, used to verify a
// provisioned site.
func (c *APIClient) GetPagesInfo(ctx context.Context, name string) (*PagesSite, error) {
	info, _, err := c.client.Repositories.GetPagesInfo(ctx, c.owner, name)
	if err != nil {
		return nil, WrapAPIError(err, c.fullName(name))
	}

	site := &PagesSite{
		URL: info.GetHTMLURL(),
	}
	if info.Source != nil {
		site.Branch = info.Source.GetBranch()
		site.Path = info.Source.GetPath()
	}
	return site, nil
}

// DeleteRepository removes a repository. It exists for test cleanup and is
// not part of the provisioning flow.
func (c *APIClient) DeleteRepository(ctx context.Context, name string) error {
	resp, err := c.client.Repositories.Delete(ctx, c.owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return WrapAPIError(err, c.fullName(name))
	}
	return nil
}
