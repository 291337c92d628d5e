package hosting

import (
	"context"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"pageforge/pkg/config"
)

// AuthManager handles GitHub authentication
type AuthManager struct {
	client *github.Client
	token  string
}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{}
}

// Authenticate sets up the GitHub client with the provided token
func (am *AuthManager) Authenticate(token string) error {
	if token == "" {
		return NewAuthError("GitHub token cannot be empty")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	am.client = github.NewClient(tc)
	am.token = token

	return nil
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// ValidateToken validates the GitHub token and checks that it carries the
// repo scope required to create repositories and enable pages.
func (am *AuthManager) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	if am.client == nil {
		return nil, NewAuthError("not authenticated: call Authenticate() first")
	}

	user, resp, err := am.client.Users.Get(ctx, "")
	if err != nil {
		return nil, WrapAPIError(err, "")
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	tokenInfo := &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}

	for _, scope := range scopes {
		if scope == "repo" {
			return tokenInfo, nil
		}
	}

	// Fine-grained tokens report no classic scopes, so only reject when
	// classic scopes are present without repo.
	if len(scopes) > 0 {
		return tokenInfo, NewAuthError("GitHub token is missing the repo scope")
	}

	return tokenInfo, nil
}

// GetClient returns the authenticated GitHub client
func (am *AuthManager) GetClient() *github.Client {
	return am.client
}

// AuthenticateFromConfig resolves the token from the environment or config
// file, authenticates, and validates the token against the API.
func (am *AuthManager) AuthenticateFromConfig(ctx context.Context, cfg *config.Config) (*TokenInfo, error) {
	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, NewAuthError(err.Error())
	}

	if err := am.Authenticate(token); err != nil {
		return nil, err
	}

	return am.ValidateToken(ctx)
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Environment Variable (Recommended for CI/CD):
   export GITHUB_TOKEN="your_personal_access_token"

2. Configuration File:
   Add the following to ~/.pageforge/config.yaml:

   github:
     token: "your_personal_access_token"

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Click "Generate new token (classic)"
3. Select the repo scope (full control of repositories)
4. Copy the generated token and use it with one of the methods above

Note: the token must have the repo scope to create repositories and enable Pages.`
}
