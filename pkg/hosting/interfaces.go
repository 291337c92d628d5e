package hosting

import "context"

// Client is the narrow capability boundary to the hosting service. The
// provisioning flow only ever talks to this interface, so the gh CLI
// implementation and the REST API implementation are interchangeable.
type Client interface {
	// RepositoryExists reports whether owner/name already exists remotely.
	RepositoryExists(ctx context.Context, name string) (bool, error)

	// CreateRepository creates the remote repository. A repository that
	// already exists is reported as a conflict error (IsAlreadyExists).
	CreateRepository(ctx context.Context, name string, visibility Visibility) (*Repository, error)

	// SetRemote configures the origin remote of the local staging clone in
	// dir to point at owner/name with an authenticated URL.
	SetRemote(ctx context.Context, dir, name string) error

	// Push pushes the staged branch from dir to the remote.
	Push(ctx context.Context, dir, branch string) error

	// EnablePages enables static-page hosting served from branch:/.
	EnablePages(ctx context.Context, name, branch string) error

	// PagesURL returns the public URL the repository is served from once
	// pages hosting is live.
	PagesURL(name string) string
}
